package asset

import (
	"math"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veriseal-network/supply-indexer/common/errs"
	"github.com/veriseal-network/supply-indexer/core/contract"
)

var (
	testContractId = contract.ContractId{0xC0}
	testWitness    = chainhash.Hash{0xAA}
	testSealTxid   = chainhash.Hash{0xBB}
)

func u64Metadata(fields map[contract.FieldType]uint64) contract.Metadata {
	u64 := make(map[contract.FieldType][]uint64, len(fields))
	for field, value := range fields {
		u64[field] = []uint64{value}
	}
	return contract.Metadata{U64: u64}
}

func TestNewIssueFromGenesis(t *testing.T) {
	t.Parallel()

	t.Run("primary issue without inflation rights", func(t *testing.T) {
		t.Parallel()
		genesis := &contract.Genesis{
			NodeId:     contract.NodeId{0x01},
			ContractId: testContractId,
			Metadata:   u64Metadata(map[contract.FieldType]uint64{contract.FieldTypeIssuedSupply: 1000}),
		}

		issue, err := NewIssueFromGenesis(genesis)
		require.NoError(t, err)
		assert.Equal(t, contract.NodeId{0x01}, issue.NodeId)
		assert.Equal(t, testContractId, issue.ContractId)
		assert.Equal(t, contract.AtomicValue(1000), issue.Amount)
		assert.Empty(t, issue.Closes)
		assert.Empty(t, issue.InflationAssignments)
		assert.Nil(t, issue.Witness)
		assert.True(t, issue.IsPrimary())
		assert.False(t, issue.IsSecondary())
	})

	t.Run("missing issued supply", func(t *testing.T) {
		t.Parallel()
		genesis := &contract.Genesis{NodeId: contract.NodeId{0x01}, ContractId: testContractId}

		_, err := NewIssueFromGenesis(genesis)
		assert.ErrorIs(t, err, ErrUnsatisfiedSchemaRequirement)
	})

	t.Run("confidential inflation assignment", func(t *testing.T) {
		t.Parallel()
		genesis := &contract.Genesis{
			NodeId:     contract.NodeId{0x01},
			ContractId: testContractId,
			Metadata:   u64Metadata(map[contract.FieldType]uint64{contract.FieldTypeIssuedSupply: 1000}),
			OwnedRights: map[contract.RightType][]contract.ValueAssignment{
				contract.RightTypeInflation: {{Confidential: true}},
			},
		}

		_, err := NewIssueFromGenesis(genesis)
		assert.ErrorIs(t, err, ErrInflationAssignmentConfidential)
	})

	t.Run("witness-relative inflation seal fails for genesis", func(t *testing.T) {
		t.Parallel()
		genesis := &contract.Genesis{
			NodeId:     contract.NodeId{0x01},
			ContractId: testContractId,
			Metadata:   u64Metadata(map[contract.FieldType]uint64{contract.FieldTypeIssuedSupply: 1000}),
			OwnedRights: map[contract.RightType][]contract.ValueAssignment{
				contract.RightTypeInflation: {{Seal: contract.SealReveal{Vout: 1}, Amount: 10}},
			},
		}

		_, err := NewIssueFromGenesis(genesis)
		assert.ErrorIs(t, err, contract.ErrSealRequiresWitness)
	})
}

func TestNewIssueFromTransition(t *testing.T) {
	t.Parallel()

	closes := []wire.OutPoint{{Hash: testSealTxid, Index: 0}}

	t.Run("secondary issue carries witness and closes", func(t *testing.T) {
		t.Parallel()
		transition := &contract.Transition{
			NodeId:   contract.NodeId{0x02},
			Type:     contract.TransitionTypeIssue,
			Metadata: u64Metadata(map[contract.FieldType]uint64{contract.FieldTypeIssuedSupply: 250}),
		}

		issue, err := NewIssueFromTransition(testContractId, closes, transition, testWitness)
		require.NoError(t, err)
		assert.Equal(t, contract.AtomicValue(250), issue.Amount)
		assert.Equal(t, closes, issue.Closes)
		require.NotNil(t, issue.Witness)
		assert.Equal(t, testWitness, *issue.Witness)
		assert.True(t, issue.IsSecondary())
		assert.False(t, issue.IsPrimary())
	})

	t.Run("duplicate destination seals are summed in encounter order", func(t *testing.T) {
		t.Parallel()
		sharedSeal := contract.SealReveal{Txid: &testSealTxid, Vout: 7}
		otherSeal := contract.SealReveal{Vout: 2} // witness-relative
		transition := &contract.Transition{
			NodeId:   contract.NodeId{0x02},
			Type:     contract.TransitionTypeIssue,
			Metadata: u64Metadata(map[contract.FieldType]uint64{contract.FieldTypeIssuedSupply: 100}),
			OwnedRights: map[contract.RightType][]contract.ValueAssignment{
				contract.RightTypeInflation: {
					{Seal: sharedSeal, Amount: 30},
					{Seal: otherSeal, Amount: 5},
					{Seal: sharedSeal, Amount: 70},
				},
			},
		}

		issue, err := NewIssueFromTransition(testContractId, closes, transition, testWitness)
		require.NoError(t, err)
		require.Len(t, issue.InflationAssignments, 2)

		shared := issue.InflationAssignments[wire.OutPoint{Hash: testSealTxid, Index: 7}]
		assert.Equal(t, contract.AtomicValue(100), shared.Amount)
		assert.Equal(t, []uint16{0, 2}, shared.Indices)

		// witness-relative seal resolves against the witness transaction
		other := issue.InflationAssignments[wire.OutPoint{Hash: testWitness, Index: 2}]
		assert.Equal(t, contract.AtomicValue(5), other.Amount)
		assert.Equal(t, []uint16{1}, other.Indices)
	})

	t.Run("overflowing inflation sum", func(t *testing.T) {
		t.Parallel()
		seal := contract.SealReveal{Txid: &testSealTxid, Vout: 0}
		transition := &contract.Transition{
			NodeId:   contract.NodeId{0x02},
			Type:     contract.TransitionTypeIssue,
			Metadata: u64Metadata(map[contract.FieldType]uint64{contract.FieldTypeIssuedSupply: 1}),
			OwnedRights: map[contract.RightType][]contract.ValueAssignment{
				contract.RightTypeInflation: {
					{Seal: seal, Amount: math.MaxUint64},
					{Seal: seal, Amount: 1},
				},
			},
		}

		_, err := NewIssueFromTransition(testContractId, closes, transition, testWitness)
		assert.ErrorIs(t, err, errs.OverflowUint64)
	})

	t.Run("missing issued supply", func(t *testing.T) {
		t.Parallel()
		transition := &contract.Transition{NodeId: contract.NodeId{0x02}, Type: contract.TransitionTypeIssue}

		_, err := NewIssueFromTransition(testContractId, closes, transition, testWitness)
		assert.ErrorIs(t, err, ErrUnsatisfiedSchemaRequirement)
	})

	t.Run("error message carries the node id", func(t *testing.T) {
		t.Parallel()
		transition := &contract.Transition{
			NodeId:   contract.NodeId{0x02},
			Type:     contract.TransitionTypeIssue,
			Metadata: u64Metadata(map[contract.FieldType]uint64{contract.FieldTypeIssuedSupply: 1}),
			OwnedRights: map[contract.RightType][]contract.ValueAssignment{
				contract.RightTypeInflation: {{Confidential: true}},
			},
		}

		_, err := NewIssueFromTransition(testContractId, closes, transition, testWitness)
		require.ErrorIs(t, err, ErrInflationAssignmentConfidential)
		assert.Contains(t, err.Error(), contract.NodeId{0x02}.String())
	})
}
