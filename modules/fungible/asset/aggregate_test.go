package asset

import (
	"math"
	"testing"

	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veriseal-network/supply-indexer/common/errs"
	"github.com/veriseal-network/supply-indexer/core/contract"
)

func TestCompute(t *testing.T) {
	t.Parallel()

	genesisIssue := Issue{
		NodeId: contract.NodeId{0x01},
		Amount: 1000,
		InflationAssignments: map[wire.OutPoint]InflationAssignment{
			{Hash: testSealTxid, Index: 0}: {Amount: 500, Indices: []uint16{0}},
			{Hash: testSealTxid, Index: 1}: {Amount: 300, Indices: []uint16{1}},
		},
	}
	secondaryIssue := Issue{
		NodeId:  contract.NodeId{0x02},
		Amount:  400,
		Closes:  []wire.OutPoint{{Hash: testSealTxid, Index: 0}},
		Witness: &testWitness,
	}

	t.Run("issue limit sums genesis and inflation allowances", func(t *testing.T) {
		t.Parallel()
		supply, err := Compute([]Issue{genesisIssue}, nil, KnowledgeUnassessed)
		require.NoError(t, err)
		assert.Equal(t, contract.AtomicValue(1800), supply.IssueLimit)
		assert.Equal(t, contract.AtomicValue(1000), supply.KnownCirculating)
	})

	t.Run("burns and replacements net out of circulation", func(t *testing.T) {
		t.Parallel()
		epochs := []Epoch{{
			NodeId: contract.NodeId{0x10},
			No:     1,
			KnownOperations: []BurnReplace{
				{NodeId: contract.NodeId{0x20}, No: 1, BurnedAmount: 500, SupplyChange: 500},
				{NodeId: contract.NodeId{0x21}, No: 2, BurnedAmount: 500, ReplacedAmount: 200, SupplyChange: 300, DoesReplacement: true},
			},
		}}

		supply, err := Compute([]Issue{genesisIssue, secondaryIssue}, epochs, KnowledgeComplete)
		require.NoError(t, err)
		assert.Equal(t, contract.AtomicValue(600), supply.KnownCirculating)

		total, ok := supply.TotalCirculating()
		require.True(t, ok)
		assert.Equal(t, contract.AtomicValue(600), total)
	})

	t.Run("secondary issues do not raise the issue limit", func(t *testing.T) {
		t.Parallel()
		supply, err := Compute([]Issue{genesisIssue, secondaryIssue}, nil, KnowledgeIncomplete)
		require.NoError(t, err)
		assert.Equal(t, contract.AtomicValue(1800), supply.IssueLimit)
		assert.Equal(t, contract.AtomicValue(1400), supply.KnownCirculating)
	})

	t.Run("burns exceeding issuance fail", func(t *testing.T) {
		t.Parallel()
		epochs := []Epoch{{
			NodeId:          contract.NodeId{0x10},
			KnownOperations: []BurnReplace{{NodeId: contract.NodeId{0x20}, SupplyChange: 2000}},
		}}

		_, err := Compute([]Issue{genesisIssue}, epochs, KnowledgeUnassessed)
		assert.ErrorIs(t, err, errs.UnderflowUint64)
	})

	t.Run("issue limit saturates at max atomic value", func(t *testing.T) {
		t.Parallel()
		uncapped := Issue{
			NodeId: contract.NodeId{0x01},
			Amount: 1,
			InflationAssignments: map[wire.OutPoint]InflationAssignment{
				{Hash: testSealTxid, Index: 0}: {Amount: math.MaxUint64, Indices: []uint16{0}},
			},
		}

		supply, err := Compute([]Issue{uncapped}, nil, KnowledgeUnassessed)
		require.NoError(t, err)
		assert.Equal(t, contract.MaxAtomicValue, supply.IssueLimit)
	})

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()
		supply, err := Compute(nil, nil, KnowledgeUnassessed)
		require.NoError(t, err)
		assert.Equal(t, contract.AtomicValue(0), supply.KnownCirculating)
		assert.Equal(t, contract.AtomicValue(0), supply.IssueLimit)
		_, ok := supply.TotalCirculating()
		assert.False(t, ok)
	})
}
