package asset

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/veriseal-network/supply-indexer/common/errs"
	"github.com/veriseal-network/supply-indexer/core/contract"
)

// Compute folds the known issuance and burn/replace history of a contract
// into a Supply snapshot. The record set is caller-owned and may be partial;
// knowledge states whether it is known to be exhaustive.
//
// Sums are carried in 128 bits so that inconsistent inputs surface as errors
// instead of wrapping around.
func Compute(issues []Issue, epochs []Epoch, knowledge Knowledge) (Supply, error) {
	maxAtomic := uint128.From64(math.MaxUint64)

	issued := uint128.Zero
	limit := uint128.Zero
	for _, issue := range issues {
		issued = issued.Add(uint128.From64(uint64(issue.Amount)))
		if issue.IsPrimary() {
			limit = limit.Add(uint128.From64(uint64(issue.Amount)))
		}
		for _, assignment := range issue.InflationAssignments {
			limit = limit.Add(uint128.From64(uint64(assignment.Amount)))
		}
	}

	burned := uint128.Zero
	for _, epoch := range epochs {
		for _, operation := range epoch.KnownOperations {
			burned = burned.Add(uint128.From64(uint64(operation.SupplyChange)))
		}
	}

	if burned.Cmp(issued) > 0 {
		return Supply{}, errors.Wrapf(errs.UnderflowUint64, "known burns %s exceed known issuance %s", burned, issued)
	}
	circulating := issued.Sub(burned)
	if circulating.Cmp(maxAtomic) > 0 {
		return Supply{}, errors.Wrap(errs.OverflowUint64, "known circulating supply")
	}

	// Assets without a declared cap are de facto capped by the representable
	// maximum, so the limit saturates instead of overflowing.
	if limit.Cmp(maxAtomic) > 0 {
		limit = maxAtomic
	}

	return Supply{
		KnownCirculating: contract.AtomicValue(circulating.Uint64()),
		Knowledge:        knowledge,
		IssueLimit:       contract.AtomicValue(limit.Uint64()),
	}, nil
}
