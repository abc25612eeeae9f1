package contract

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/cockroachdb/errors"
)

var (
	// ErrSealRequiresWitness is returned when a witness-relative seal is
	// resolved without a witness transaction. Genesis seals must be absolute.
	ErrSealRequiresWitness = errors.New("witness-relative seal cannot be resolved without a witness transaction")

	// ErrConfidentialAssignment is returned when a revealed seal or amount is
	// requested from an assignment that is still blinded.
	ErrConfidentialAssignment = errors.New("assignment is confidential")
)

// SealReveal is a revealed single-use seal definition. The seal points either
// at an absolute transaction output or, when Txid is nil, at an output of its
// own witness transaction.
type SealReveal struct {
	Txid *chainhash.Hash `json:"txid,omitempty"`
	Vout uint32          `json:"vout"`
}

// Resolve returns the absolute outpoint the seal is bound to, substituting the
// witness transaction id for witness-relative seals.
func (s SealReveal) Resolve(witness chainhash.Hash) wire.OutPoint {
	if s.Txid != nil {
		return wire.OutPoint{Hash: *s.Txid, Index: s.Vout}
	}
	return wire.OutPoint{Hash: witness, Index: s.Vout}
}

// Outpoint returns the absolute outpoint of a seal that carries its own txid.
// Witness-relative seals fail with ErrSealRequiresWitness.
func (s SealReveal) Outpoint() (wire.OutPoint, error) {
	if s.Txid == nil {
		return wire.OutPoint{}, errors.WithStack(ErrSealRequiresWitness)
	}
	return wire.OutPoint{Hash: *s.Txid, Index: s.Vout}, nil
}

// ValueAssignment is a single owned-right slot of an operation: a
// (seal, amount) pair that is either revealed or still blinded upstream.
// Confidential slots carry no usable seal or amount.
type ValueAssignment struct {
	Confidential bool        `json:"confidential,omitempty"`
	Seal         SealReveal  `json:"seal"`
	Amount       AtomicValue `json:"amount"`
}

// RevealedValue is a revealed (seal, amount) pair extracted from an owned
// right.
type RevealedValue struct {
	Seal   SealReveal
	Amount AtomicValue
}

// RevealedSeals extracts the seals of the given assignments, failing with
// ErrConfidentialAssignment if any slot is blinded.
func RevealedSeals(assignments []ValueAssignment) ([]SealReveal, error) {
	seals := make([]SealReveal, 0, len(assignments))
	for _, assignment := range assignments {
		if assignment.Confidential {
			return nil, errors.WithStack(ErrConfidentialAssignment)
		}
		seals = append(seals, assignment.Seal)
	}
	return seals, nil
}

// RevealedValues extracts the (seal, amount) pairs of the given assignments in
// encoding order, failing with ErrConfidentialAssignment if any slot is
// blinded.
func RevealedValues(assignments []ValueAssignment) ([]RevealedValue, error) {
	values := make([]RevealedValue, 0, len(assignments))
	for _, assignment := range assignments {
		if assignment.Confidential {
			return nil, errors.WithStack(ErrConfidentialAssignment)
		}
		values = append(values, RevealedValue{Seal: assignment.Seal, Amount: assignment.Amount})
	}
	return values, nil
}
