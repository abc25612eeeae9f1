package asset

import (
	"testing"

	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veriseal-network/supply-indexer/core/contract"
)

func TestNewEpoch(t *testing.T) {
	t.Parallel()

	closes := wire.OutPoint{Hash: testSealTxid, Index: 3}

	t.Run("open epoch with successor and operation seals", func(t *testing.T) {
		t.Parallel()
		transition := &contract.Transition{
			NodeId: contract.NodeId{0x10},
			Type:   contract.TransitionTypeEpoch,
			OwnedRights: map[contract.RightType][]contract.ValueAssignment{
				contract.RightTypeOpenEpoch:   {{Seal: contract.SealReveal{Vout: 0}}},
				contract.RightTypeBurnReplace: {{Seal: contract.SealReveal{Txid: &testSealTxid, Vout: 1}}},
			},
		}

		epoch, err := NewEpoch(testContractId, 1, closes, transition, nil, testWitness)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), epoch.No)
		assert.Equal(t, closes, epoch.Closes)
		require.NotNil(t, epoch.EpochSeal)
		assert.Equal(t, wire.OutPoint{Hash: testWitness, Index: 0}, *epoch.EpochSeal)
		require.NotNil(t, epoch.Seal)
		assert.Equal(t, wire.OutPoint{Hash: testSealTxid, Index: 1}, *epoch.Seal)
		assert.False(t, epoch.IsFinal())
		assert.True(t, epoch.IsUnlocked())
		assert.Equal(t, testWitness, epoch.Witness)
	})

	t.Run("final locked epoch", func(t *testing.T) {
		t.Parallel()
		transition := &contract.Transition{
			NodeId: contract.NodeId{0x11},
			Type:   contract.TransitionTypeEpoch,
		}

		epoch, err := NewEpoch(testContractId, 2, closes, transition, nil, testWitness)
		require.NoError(t, err)
		assert.Nil(t, epoch.EpochSeal)
		assert.Nil(t, epoch.Seal)
		assert.True(t, epoch.IsFinal())
		assert.False(t, epoch.IsUnlocked())
	})

	t.Run("confidential epoch seal", func(t *testing.T) {
		t.Parallel()
		transition := &contract.Transition{
			NodeId: contract.NodeId{0x12},
			Type:   contract.TransitionTypeEpoch,
			OwnedRights: map[contract.RightType][]contract.ValueAssignment{
				contract.RightTypeOpenEpoch: {{Confidential: true}},
			},
		}

		_, err := NewEpoch(testContractId, 1, closes, transition, nil, testWitness)
		assert.ErrorIs(t, err, ErrEpochSealConfidential)
	})

	t.Run("confidential burn seal", func(t *testing.T) {
		t.Parallel()
		transition := &contract.Transition{
			NodeId: contract.NodeId{0x13},
			Type:   contract.TransitionTypeEpoch,
			OwnedRights: map[contract.RightType][]contract.ValueAssignment{
				contract.RightTypeBurnReplace: {{Confidential: true}},
			},
		}

		_, err := NewEpoch(testContractId, 1, closes, transition, nil, testWitness)
		assert.ErrorIs(t, err, ErrBurnSealConfidential)
	})

	t.Run("eagerly attached operations are kept", func(t *testing.T) {
		t.Parallel()
		transition := &contract.Transition{
			NodeId: contract.NodeId{0x14},
			Type:   contract.TransitionTypeEpoch,
		}
		operations := []BurnReplace{{NodeId: contract.NodeId{0x20}, EpochId: contract.NodeId{0x14}, No: 1}}

		epoch, err := NewEpoch(testContractId, 1, closes, transition, operations, testWitness)
		require.NoError(t, err)
		assert.Equal(t, operations, epoch.KnownOperations)
	})
}

func TestEpochIndex(t *testing.T) {
	t.Parallel()

	epochs := []Epoch{
		{NodeId: contract.NodeId{0x10}, No: 1},
		{NodeId: contract.NodeId{0x11}, No: 2},
	}
	index := NewEpochIndex(epochs)

	first, err := index.Get(contract.NodeId{0x10})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), first.No)

	require.NoError(t, index.Attach(BurnReplace{NodeId: contract.NodeId{0x20}, EpochId: contract.NodeId{0x11}, No: 1}))
	require.NoError(t, index.Attach(BurnReplace{NodeId: contract.NodeId{0x21}, EpochId: contract.NodeId{0x11}, No: 2}))

	second, err := index.Get(contract.NodeId{0x11})
	require.NoError(t, err)
	require.Len(t, second.KnownOperations, 2)
	assert.Equal(t, uint64(1), second.KnownOperations[0].No)

	err = index.Attach(BurnReplace{NodeId: contract.NodeId{0x22}, EpochId: contract.NodeId{0xFF}})
	assert.Error(t, err)
}
