package asset

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/cockroachdb/errors"
	"github.com/veriseal-network/supply-indexer/core/contract"
)

// Epoch records one burn & replace epoch: a numbered window during which
// burn/replace operations on the contract's supply are permitted. Fields are
// bound by client-side-validation commitments and never change after
// construction.
type Epoch struct {
	// NodeId of the transition that opened this epoch.
	NodeId contract.NodeId

	// No is the sequential number of the epoch. There is no epoch zero; the
	// first epoch closes the genesis epoch seal.
	No uint64

	ContractId contract.ContractId

	// Closes is the outpoint whose epoch-right seal was closed to open this
	// epoch.
	Closes wire.OutPoint

	// EpochSeal controls the start of the next epoch. Nil means the epoch is
	// final and no successor epoch can ever be opened.
	EpochSeal *wire.OutPoint

	// Seal controls the first burn or burn & replace operation of this epoch.
	// Nil means the epoch permits no burn/replace operations at all.
	Seal *wire.OutPoint

	// KnownOperations is the sequence of burn/replace operations discovered so
	// far for this epoch. The indexer never asserts the list is complete.
	KnownOperations []BurnReplace

	// Witness transaction anchoring the epoch-opening operation.
	Witness chainhash.Hash
}

// NewEpoch extracts an epoch record from an epoch-opening transition.
// operations may be nil when burn/replace operations are discovered later.
func NewEpoch(contractId contract.ContractId, no uint64, closes wire.OutPoint, transition *contract.Transition, operations []BurnReplace, witness chainhash.Hash) (Epoch, error) {
	epochSeals, err := transition.RevealedSeals(contract.RightTypeOpenEpoch)
	if err != nil {
		return Epoch{}, errors.Wrapf(ErrEpochSealConfidential, "transition %s", transition.NodeId)
	}
	nextSeals, err := transition.RevealedSeals(contract.RightTypeBurnReplace)
	if err != nil {
		return Epoch{}, errors.Wrapf(ErrBurnSealConfidential, "transition %s", transition.NodeId)
	}

	return Epoch{
		NodeId:          transition.NodeId,
		No:              no,
		ContractId:      contractId,
		Closes:          closes,
		EpochSeal:       firstResolved(epochSeals, witness),
		Seal:            firstResolved(nextSeals, witness),
		KnownOperations: operations,
		Witness:         witness,
	}, nil
}

// IsFinal reports whether no successor epoch can be opened after this one.
func (e Epoch) IsFinal() bool {
	return e.EpochSeal == nil
}

// IsUnlocked reports whether the epoch permits burn & replace operations.
func (e Epoch) IsUnlocked() bool {
	return e.Seal != nil
}

func firstResolved(seals []contract.SealReveal, witness chainhash.Hash) *wire.OutPoint {
	if len(seals) == 0 {
		return nil
	}
	outPoint := seals[0].Resolve(witness)
	return &outPoint
}
