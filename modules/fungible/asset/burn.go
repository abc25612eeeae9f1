package asset

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/cockroachdb/errors"
	"github.com/veriseal-network/supply-indexer/core/contract"
)

// BurnReplace records one burn or burn & replace operation within an epoch.
// Fields are bound by client-side-validation commitments and never change
// after construction.
type BurnReplace struct {
	// NodeId of the transition that performed the operation.
	NodeId contract.NodeId

	// EpochId is the node id of the transition that opened the owning epoch.
	// It is a plain back-reference; use an EpochIndex to look the epoch up.
	EpochId contract.NodeId

	// No is the sequential number of the operation within its epoch.
	No uint64

	ContractId contract.ContractId

	// Closes is the outpoint whose burn/replace-right seal was closed to
	// authorize this operation.
	Closes wire.OutPoint

	// DoesReplacement reports whether the operation re-issues part of the
	// burned assets, as opposed to a pure burn.
	DoesReplacement bool

	// BurnedAmount is the amount burned by this operation. For burn & replace
	// operations this is not the net amount removed from circulation, since
	// part of it may be replaced with newly issued assets.
	BurnedAmount contract.AtomicValue

	// ReplacedAmount is the amount re-issued by this operation; zero for pure
	// burns.
	ReplacedAmount contract.AtomicValue

	// SupplyChange is the net amount removed from circulation:
	// BurnedAmount - ReplacedAmount.
	SupplyChange contract.AtomicValue

	// Seal controls the next burn/replace operation of the epoch. Nil means
	// the operation is terminal for its epoch.
	Seal *wire.OutPoint

	// Witness transaction anchoring the operation.
	Witness chainhash.Hash
}

// NewBurnReplace extracts a burn/replace record from a burn or
// burn-and-replace transition. epochId identifies the epoch the operation
// belongs to; closes is the outpoint whose spend authorized it.
func NewBurnReplace(contractId contract.ContractId, epochId contract.NodeId, no uint64, closes wire.OutPoint, transition *contract.Transition, witness chainhash.Hash) (BurnReplace, error) {
	seals, err := transition.RevealedSeals(contract.RightTypeBurnReplace)
	if err != nil {
		return BurnReplace{}, errors.Wrapf(ErrBurnSealConfidential, "transition %s", transition.NodeId)
	}

	doesReplacement := transition.Type == contract.TransitionTypeBurnAndReplace

	burned, ok := transition.Metadata.FirstU64(contract.FieldTypeBurnedSupply)
	if !ok {
		return BurnReplace{}, errors.Wrapf(ErrUnsatisfiedSchemaRequirement, "transition %s has no burned-supply field", transition.NodeId)
	}
	replaced, ok := transition.Metadata.FirstU64(contract.FieldTypeIssuedSupply)
	if !ok {
		// A missing issued-supply field is only tolerated on pure burns.
		if doesReplacement {
			return BurnReplace{}, errors.Wrapf(ErrUnsatisfiedSchemaRequirement, "transition %s has no issued-supply field", transition.NodeId)
		}
		replaced = 0
	}
	if replaced > burned {
		return BurnReplace{}, errors.Wrapf(ErrReplaceExceedsBurn, "transition %s burns %d but replaces %d", transition.NodeId, burned, replaced)
	}

	return BurnReplace{
		NodeId:          transition.NodeId,
		EpochId:         epochId,
		No:              no,
		ContractId:      contractId,
		Closes:          closes,
		DoesReplacement: doesReplacement,
		BurnedAmount:    contract.AtomicValue(burned),
		ReplacedAmount:  contract.AtomicValue(replaced),
		SupplyChange:    contract.AtomicValue(burned - replaced),
		Seal:            firstResolved(seals, witness),
		Witness:         witness,
	}, nil
}

// IsFinal reports whether no further burn/replace operation can follow this
// one within its epoch.
func (b BurnReplace) IsFinal() bool {
	return b.Seal == nil
}
