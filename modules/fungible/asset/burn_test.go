package asset

import (
	"testing"

	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veriseal-network/supply-indexer/core/contract"
)

func TestNewBurnReplace(t *testing.T) {
	t.Parallel()

	epochId := contract.NodeId{0x10}
	closes := wire.OutPoint{Hash: testSealTxid, Index: 5}

	type testcase struct {
		name                string
		transitionType      contract.TransitionType
		metadata            contract.Metadata
		withSuccessorSeal   bool
		expectedBurned      contract.AtomicValue
		expectedReplaced    contract.AtomicValue
		expectedChange      contract.AtomicValue
		expectedReplacement bool
		expectedErr         error
	}
	testcases := []testcase{
		{
			name:           "pure burn without issued-supply field",
			transitionType: contract.TransitionTypeBurn,
			metadata:       u64Metadata(map[contract.FieldType]uint64{contract.FieldTypeBurnedSupply: 500}),
			expectedBurned: 500,
			expectedChange: 500,
		},
		{
			name:           "pure burn with explicit zero replacement",
			transitionType: contract.TransitionTypeBurn,
			metadata: u64Metadata(map[contract.FieldType]uint64{
				contract.FieldTypeBurnedSupply: 500,
				contract.FieldTypeIssuedSupply: 0,
			}),
			expectedBurned: 500,
			expectedChange: 500,
		},
		{
			name:           "burn and replace",
			transitionType: contract.TransitionTypeBurnAndReplace,
			metadata: u64Metadata(map[contract.FieldType]uint64{
				contract.FieldTypeBurnedSupply: 500,
				contract.FieldTypeIssuedSupply: 200,
			}),
			withSuccessorSeal:   true,
			expectedBurned:      500,
			expectedReplaced:    200,
			expectedChange:      300,
			expectedReplacement: true,
		},
		{
			name:           "burn and replace without issued-supply field",
			transitionType: contract.TransitionTypeBurnAndReplace,
			metadata:       u64Metadata(map[contract.FieldType]uint64{contract.FieldTypeBurnedSupply: 500}),
			expectedErr:    ErrUnsatisfiedSchemaRequirement,
		},
		{
			name:           "missing burned-supply field",
			transitionType: contract.TransitionTypeBurn,
			metadata:       u64Metadata(map[contract.FieldType]uint64{contract.FieldTypeIssuedSupply: 100}),
			expectedErr:    ErrUnsatisfiedSchemaRequirement,
		},
		{
			name:           "replaced amount exceeds burned amount",
			transitionType: contract.TransitionTypeBurnAndReplace,
			metadata: u64Metadata(map[contract.FieldType]uint64{
				contract.FieldTypeBurnedSupply: 200,
				contract.FieldTypeIssuedSupply: 500,
			}),
			expectedErr: ErrReplaceExceedsBurn,
		},
	}

	for _, tc := range testcases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			transition := &contract.Transition{
				NodeId:   contract.NodeId{0x20},
				Type:     tc.transitionType,
				Metadata: tc.metadata,
			}
			if tc.withSuccessorSeal {
				transition.OwnedRights = map[contract.RightType][]contract.ValueAssignment{
					contract.RightTypeBurnReplace: {{Seal: contract.SealReveal{Vout: 2}}},
				}
			}

			operation, err := NewBurnReplace(testContractId, epochId, 1, closes, transition, testWitness)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, epochId, operation.EpochId)
			assert.Equal(t, closes, operation.Closes)
			assert.Equal(t, tc.expectedBurned, operation.BurnedAmount)
			assert.Equal(t, tc.expectedReplaced, operation.ReplacedAmount)
			assert.Equal(t, tc.expectedChange, operation.SupplyChange)
			assert.Equal(t, tc.expectedReplacement, operation.DoesReplacement)
			if tc.withSuccessorSeal {
				require.NotNil(t, operation.Seal)
				assert.Equal(t, wire.OutPoint{Hash: testWitness, Index: 2}, *operation.Seal)
				assert.False(t, operation.IsFinal())
			} else {
				assert.Nil(t, operation.Seal)
				assert.True(t, operation.IsFinal())
			}
		})
	}

	t.Run("confidential successor seal", func(t *testing.T) {
		t.Parallel()
		transition := &contract.Transition{
			NodeId:   contract.NodeId{0x20},
			Type:     contract.TransitionTypeBurn,
			Metadata: u64Metadata(map[contract.FieldType]uint64{contract.FieldTypeBurnedSupply: 1}),
			OwnedRights: map[contract.RightType][]contract.ValueAssignment{
				contract.RightTypeBurnReplace: {{Confidential: true}},
			},
		}

		_, err := NewBurnReplace(testContractId, epochId, 1, closes, transition, testWitness)
		assert.ErrorIs(t, err, ErrBurnSealConfidential)
	})
}
