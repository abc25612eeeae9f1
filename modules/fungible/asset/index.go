package asset

import (
	"github.com/cockroachdb/errors"
	"github.com/veriseal-network/supply-indexer/common/errs"
	"github.com/veriseal-network/supply-indexer/core/contract"
)

// EpochIndex resolves the EpochId back-reference carried by burn/replace
// operations. Epochs are indexed by the node id of their opening transition.
type EpochIndex struct {
	epochs []Epoch
	byNode map[contract.NodeId]int
}

func NewEpochIndex(epochs []Epoch) *EpochIndex {
	index := &EpochIndex{
		epochs: epochs,
		byNode: make(map[contract.NodeId]int, len(epochs)),
	}
	for i, epoch := range epochs {
		index.byNode[epoch.NodeId] = i
	}
	return index
}

// Get returns the epoch opened by the given node id. Returns errs.NotFound if
// the epoch is not indexed.
func (x *EpochIndex) Get(epochId contract.NodeId) (Epoch, error) {
	i, ok := x.byNode[epochId]
	if !ok {
		return Epoch{}, errors.Wrapf(errs.NotFound, "epoch %s", epochId)
	}
	return x.epochs[i], nil
}

// Attach appends a burn/replace operation to the epoch it references.
func (x *EpochIndex) Attach(operation BurnReplace) error {
	i, ok := x.byNode[operation.EpochId]
	if !ok {
		return errors.Wrapf(errs.NotFound, "epoch %s referenced by operation %s", operation.EpochId, operation.NodeId)
	}
	x.epochs[i].KnownOperations = append(x.epochs[i].KnownOperations, operation)
	return nil
}

// Epochs returns the indexed epochs, including any attached operations.
func (x *EpochIndex) Epochs() []Epoch {
	return x.epochs
}
