package asset

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/cockroachdb/errors"
	"github.com/veriseal-network/supply-indexer/common/errs"
	"github.com/veriseal-network/supply-indexer/core/contract"
)

// InflationAssignment is the aggregated inflation right delegated to a single
// seal: the maximum amount a future issue may create by closing that seal,
// plus the assignment slots that contributed to it, in encoding order.
type InflationAssignment struct {
	Amount  contract.AtomicValue
	Indices []uint16
}

// Issue records a single issuance event. Fields are bound by
// client-side-validation commitments and never change after construction.
type Issue struct {
	// NodeId of the operation that performed the issuance.
	NodeId     contract.NodeId
	ContractId contract.ContractId

	// Amount of the asset issued by this operation.
	Amount contract.AtomicValue

	// Closes lists the outpoints whose inflation-right seals were closed to
	// authorize this issue. Empty means the issue comes from genesis.
	Closes []wire.OutPoint

	// InflationAssignments are the inflation rights this issue re-delegates
	// forward, keyed by destination outpoint.
	InflationAssignments map[wire.OutPoint]InflationAssignment

	// Witness transaction anchoring the operation; nil for genesis.
	Witness *chainhash.Hash
}

// NewIssueFromGenesis extracts the primary issue declared by a genesis
// operation. Genesis inflation seals must be absolute, there is no witness
// transaction to resolve against.
func NewIssueFromGenesis(genesis *contract.Genesis) (Issue, error) {
	amount, ok := genesis.Metadata.FirstU64(contract.FieldTypeIssuedSupply)
	if !ok {
		return Issue{}, errors.Wrapf(ErrUnsatisfiedSchemaRequirement, "genesis %s has no issued-supply field", genesis.NodeId)
	}

	values, err := genesis.RevealedValues(contract.RightTypeInflation)
	if err != nil {
		return Issue{}, errors.Wrapf(ErrInflationAssignmentConfidential, "genesis %s", genesis.NodeId)
	}
	assignments, err := aggregateInflation(values, func(seal contract.SealReveal) (wire.OutPoint, error) {
		return seal.Outpoint()
	})
	if err != nil {
		return Issue{}, errors.WithStack(err)
	}

	return Issue{
		NodeId:               genesis.NodeId,
		ContractId:           genesis.ContractId,
		Amount:               contract.AtomicValue(amount),
		Closes:               nil,
		InflationAssignments: assignments,
		Witness:              nil,
	}, nil
}

// NewIssueFromTransition extracts a secondary (inflationary) issue from an
// issue-type transition. closes is the set of outpoints whose spending
// triggered the issuance; witness is the transaction anchoring it.
func NewIssueFromTransition(contractId contract.ContractId, closes []wire.OutPoint, transition *contract.Transition, witness chainhash.Hash) (Issue, error) {
	amount, ok := transition.Metadata.FirstU64(contract.FieldTypeIssuedSupply)
	if !ok {
		return Issue{}, errors.Wrapf(ErrUnsatisfiedSchemaRequirement, "transition %s has no issued-supply field", transition.NodeId)
	}

	values, err := transition.RevealedValues(contract.RightTypeInflation)
	if err != nil {
		return Issue{}, errors.Wrapf(ErrInflationAssignmentConfidential, "transition %s", transition.NodeId)
	}
	assignments, err := aggregateInflation(values, func(seal contract.SealReveal) (wire.OutPoint, error) {
		return seal.Resolve(witness), nil
	})
	if err != nil {
		return Issue{}, errors.WithStack(err)
	}

	closesCopy := make([]wire.OutPoint, len(closes))
	copy(closesCopy, closes)

	return Issue{
		NodeId:               transition.NodeId,
		ContractId:           contractId,
		Amount:               contract.AtomicValue(amount),
		Closes:               closesCopy,
		InflationAssignments: assignments,
		Witness:              &witness,
	}, nil
}

// IsPrimary reports whether the issue is part of genesis.
func (i Issue) IsPrimary() bool {
	return len(i.Closes) == 0
}

// IsSecondary reports whether the issue was created by an inflation state
// transition.
func (i Issue) IsSecondary() bool {
	return !i.IsPrimary()
}

// aggregateInflation groups the revealed inflation rights by destination
// outpoint. Several assignment slots may target the same seal; their amounts
// are summed and their indices recorded in encounter order.
func aggregateInflation(values []contract.RevealedValue, resolve func(contract.SealReveal) (wire.OutPoint, error)) (map[wire.OutPoint]InflationAssignment, error) {
	assignments := make(map[wire.OutPoint]InflationAssignment, len(values))
	for index, value := range values {
		outPoint, err := resolve(value.Seal)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot resolve inflation seal at index %d", index)
		}
		item := assignments[outPoint]
		if value.Amount > contract.MaxAtomicValue-item.Amount {
			return nil, errors.Wrapf(errs.OverflowUint64, "inflation assignments to %s", outPoint)
		}
		item.Amount += value.Amount
		item.Indices = append(item.Indices, uint16(index))
		assignments[outPoint] = item
	}
	return assignments, nil
}
