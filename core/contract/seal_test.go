package contract

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealRevealResolve(t *testing.T) {
	t.Parallel()

	witness := chainhash.Hash{0xAA}
	txid := chainhash.Hash{0xBB}

	absolute := SealReveal{Txid: &txid, Vout: 1}
	assert.Equal(t, wire.OutPoint{Hash: txid, Index: 1}, absolute.Resolve(witness))

	relative := SealReveal{Vout: 2}
	assert.Equal(t, wire.OutPoint{Hash: witness, Index: 2}, relative.Resolve(witness))
}

func TestSealRevealOutpoint(t *testing.T) {
	t.Parallel()

	txid := chainhash.Hash{0xBB}
	absolute := SealReveal{Txid: &txid, Vout: 1}
	outPoint, err := absolute.Outpoint()
	require.NoError(t, err)
	assert.Equal(t, wire.OutPoint{Hash: txid, Index: 1}, outPoint)

	relative := SealReveal{Vout: 2}
	_, err = relative.Outpoint()
	assert.ErrorIs(t, err, ErrSealRequiresWitness)
}

func TestRevealedValues(t *testing.T) {
	t.Parallel()

	txid := chainhash.Hash{0xBB}
	assignments := []ValueAssignment{
		{Seal: SealReveal{Txid: &txid, Vout: 0}, Amount: 10},
		{Seal: SealReveal{Vout: 1}, Amount: 20},
	}

	values, err := RevealedValues(assignments)
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, AtomicValue(10), values[0].Amount)
	assert.Equal(t, AtomicValue(20), values[1].Amount)

	_, err = RevealedValues(append(assignments, ValueAssignment{Confidential: true}))
	assert.ErrorIs(t, err, ErrConfidentialAssignment)

	seals, err := RevealedSeals(assignments)
	require.NoError(t, err)
	assert.Len(t, seals, 2)

	_, err = RevealedSeals([]ValueAssignment{{Confidential: true}})
	assert.ErrorIs(t, err, ErrConfidentialAssignment)
}
