package usecase

import (
	"context"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veriseal-network/supply-indexer/common/errs"
	"github.com/veriseal-network/supply-indexer/core/contract"
	"github.com/veriseal-network/supply-indexer/modules/fungible/asset"
	"github.com/veriseal-network/supply-indexer/modules/fungible/datagateway"
	"github.com/veriseal-network/supply-indexer/modules/fungible/internal/entity"
)

var (
	testContractId = contract.ContractId{0xC0}
	testWitness    = chainhash.Hash{0xAA}
	testSealTxid   = chainhash.Hash{0xBB}
)

// fakeDataGateway is an in-memory FungibleDataGateway. Writes inside a
// transaction are buffered and only become visible on Commit.
type fakeDataGateway struct {
	contracts map[contract.ContractId]*entity.Contract
	issues    []*asset.Issue
	epochs    []*asset.Epoch
	burns     []*asset.BurnReplace
}

func newFakeDataGateway() *fakeDataGateway {
	return &fakeDataGateway{
		contracts: make(map[contract.ContractId]*entity.Contract),
	}
}

func (f *fakeDataGateway) BeginFungibleTx(ctx context.Context) (datagateway.FungibleDataGatewayWithTx, error) {
	return &fakeTx{parent: f, staged: newFakeDataGateway()}, nil
}

func (f *fakeDataGateway) GetContract(ctx context.Context, contractId contract.ContractId) (*entity.Contract, error) {
	contractEntry, ok := f.contracts[contractId]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	return contractEntry, nil
}

func (f *fakeDataGateway) GetContracts(ctx context.Context, limit int32, offset int32) ([]*entity.Contract, error) {
	result := make([]*entity.Contract, 0, len(f.contracts))
	for _, contractEntry := range f.contracts {
		result = append(result, contractEntry)
	}
	return result, nil
}

func (f *fakeDataGateway) GetIssuesByContract(ctx context.Context, contractId contract.ContractId) ([]*asset.Issue, error) {
	result := make([]*asset.Issue, 0)
	for _, issue := range f.issues {
		if issue.ContractId == contractId {
			result = append(result, issue)
		}
	}
	return result, nil
}

func (f *fakeDataGateway) GetEpoch(ctx context.Context, epochId contract.NodeId) (*asset.Epoch, error) {
	for _, epoch := range f.epochs {
		if epoch.NodeId == epochId {
			return epoch, nil
		}
	}
	return nil, errors.WithStack(errs.NotFound)
}

func (f *fakeDataGateway) GetEpochsByContract(ctx context.Context, contractId contract.ContractId) ([]*asset.Epoch, error) {
	result := make([]*asset.Epoch, 0)
	for _, epoch := range f.epochs {
		if epoch.ContractId == contractId {
			result = append(result, epoch)
		}
	}
	return result, nil
}

func (f *fakeDataGateway) GetBurnsByContract(ctx context.Context, contractId contract.ContractId) ([]*asset.BurnReplace, error) {
	result := make([]*asset.BurnReplace, 0)
	for _, operation := range f.burns {
		if operation.ContractId == contractId {
			result = append(result, operation)
		}
	}
	return result, nil
}

func (f *fakeDataGateway) CreateContract(ctx context.Context, contractEntry *entity.Contract) error {
	if _, ok := f.contracts[contractEntry.ContractId]; ok {
		return errors.WithStack(errs.Duplicate)
	}
	f.contracts[contractEntry.ContractId] = contractEntry
	return nil
}

func (f *fakeDataGateway) CreateIssue(ctx context.Context, issue *asset.Issue) error {
	f.issues = append(f.issues, issue)
	return nil
}

func (f *fakeDataGateway) CreateEpoch(ctx context.Context, epoch *asset.Epoch) error {
	f.epochs = append(f.epochs, epoch)
	return nil
}

func (f *fakeDataGateway) CreateBurnReplace(ctx context.Context, operation *asset.BurnReplace) error {
	f.burns = append(f.burns, operation)
	return nil
}

func (f *fakeDataGateway) SetSupplyKnowledge(ctx context.Context, contractId contract.ContractId, knowledge asset.Knowledge) error {
	contractEntry, ok := f.contracts[contractId]
	if !ok {
		return errors.WithStack(errs.NotFound)
	}
	contractEntry.SupplyKnowledge = knowledge
	return nil
}

type fakeTx struct {
	parent *fakeDataGateway
	staged *fakeDataGateway
	done   bool
}

func (t *fakeTx) BeginFungibleTx(ctx context.Context) (datagateway.FungibleDataGatewayWithTx, error) {
	return t, nil
}

func (t *fakeTx) Commit(ctx context.Context) error {
	for id, contractEntry := range t.staged.contracts {
		t.parent.contracts[id] = contractEntry
	}
	t.parent.issues = append(t.parent.issues, t.staged.issues...)
	t.parent.epochs = append(t.parent.epochs, t.staged.epochs...)
	t.parent.burns = append(t.parent.burns, t.staged.burns...)
	t.done = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.staged = newFakeDataGateway()
	t.done = true
	return nil
}

func (t *fakeTx) GetContract(ctx context.Context, contractId contract.ContractId) (*entity.Contract, error) {
	if contractEntry, err := t.staged.GetContract(ctx, contractId); err == nil {
		return contractEntry, nil
	}
	return t.parent.GetContract(ctx, contractId)
}

func (t *fakeTx) GetContracts(ctx context.Context, limit int32, offset int32) ([]*entity.Contract, error) {
	return t.parent.GetContracts(ctx, limit, offset)
}

func (t *fakeTx) GetIssuesByContract(ctx context.Context, contractId contract.ContractId) ([]*asset.Issue, error) {
	return t.parent.GetIssuesByContract(ctx, contractId)
}

func (t *fakeTx) GetEpoch(ctx context.Context, epochId contract.NodeId) (*asset.Epoch, error) {
	if epoch, err := t.staged.GetEpoch(ctx, epochId); err == nil {
		return epoch, nil
	}
	return t.parent.GetEpoch(ctx, epochId)
}

func (t *fakeTx) GetEpochsByContract(ctx context.Context, contractId contract.ContractId) ([]*asset.Epoch, error) {
	return t.parent.GetEpochsByContract(ctx, contractId)
}

func (t *fakeTx) GetBurnsByContract(ctx context.Context, contractId contract.ContractId) ([]*asset.BurnReplace, error) {
	return t.parent.GetBurnsByContract(ctx, contractId)
}

func (t *fakeTx) CreateContract(ctx context.Context, contractEntry *entity.Contract) error {
	if _, err := t.GetContract(ctx, contractEntry.ContractId); err == nil {
		return errors.WithStack(errs.Duplicate)
	}
	return t.staged.CreateContract(ctx, contractEntry)
}

func (t *fakeTx) CreateIssue(ctx context.Context, issue *asset.Issue) error {
	return t.staged.CreateIssue(ctx, issue)
}

func (t *fakeTx) CreateEpoch(ctx context.Context, epoch *asset.Epoch) error {
	return t.staged.CreateEpoch(ctx, epoch)
}

func (t *fakeTx) CreateBurnReplace(ctx context.Context, operation *asset.BurnReplace) error {
	return t.staged.CreateBurnReplace(ctx, operation)
}

func (t *fakeTx) SetSupplyKnowledge(ctx context.Context, contractId contract.ContractId, knowledge asset.Knowledge) error {
	return t.staged.SetSupplyKnowledge(ctx, contractId, knowledge)
}

func testGenesis() *contract.Genesis {
	return &contract.Genesis{
		NodeId:     contract.NodeId{0x01},
		ContractId: testContractId,
		Metadata: contract.Metadata{
			U64: map[contract.FieldType][]uint64{
				contract.FieldTypePrecision:    {8},
				contract.FieldTypeIssuedSupply: {1000},
			},
			Str: map[contract.FieldType][]string{
				contract.FieldTypeTicker: {"VRSL"},
				contract.FieldTypeName:   {"Veriseal Token"},
			},
		},
		OwnedRights: map[contract.RightType][]contract.ValueAssignment{
			contract.RightTypeInflation: {
				{Seal: contract.SealReveal{Txid: &testSealTxid, Vout: 0}, Amount: 500},
			},
		},
	}
}

func TestIndexGenesis(t *testing.T) {
	t.Parallel()

	dg := newFakeDataGateway()
	u := New(dg)
	ctx := context.Background()

	contractEntry, err := u.IndexGenesis(ctx, testGenesis())
	require.NoError(t, err)
	assert.Equal(t, "VRSL", contractEntry.Ticker)
	assert.Equal(t, "Veriseal Token", contractEntry.Name)
	assert.Equal(t, uint8(8), contractEntry.Precision)
	assert.Equal(t, asset.KnowledgeUnassessed, contractEntry.SupplyKnowledge)

	stored, err := dg.GetContract(ctx, testContractId)
	require.NoError(t, err)
	assert.Equal(t, contractEntry, stored)

	issues, err := dg.GetIssuesByContract(ctx, testContractId)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.True(t, issues[0].IsPrimary())
	assert.Equal(t, contract.AtomicValue(1000), issues[0].Amount)
}

func TestIndexGenesisMissingTicker(t *testing.T) {
	t.Parallel()

	dg := newFakeDataGateway()
	u := New(dg)
	ctx := context.Background()

	genesis := testGenesis()
	delete(genesis.Metadata.Str, contract.FieldTypeTicker)

	_, err := u.IndexGenesis(ctx, genesis)
	require.ErrorIs(t, err, asset.ErrUnsatisfiedSchemaRequirement)

	// Nothing must be persisted on failure.
	_, err = dg.GetContract(ctx, testContractId)
	assert.ErrorIs(t, err, errs.NotFound)
	issues, err := dg.GetIssuesByContract(ctx, testContractId)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestIndexIssuance(t *testing.T) {
	t.Parallel()

	dg := newFakeDataGateway()
	u := New(dg)
	ctx := context.Background()

	_, err := u.IndexGenesis(ctx, testGenesis())
	require.NoError(t, err)

	transition := &contract.Transition{
		NodeId: contract.NodeId{0x02},
		Type:   contract.TransitionTypeIssue,
		Metadata: contract.Metadata{
			U64: map[contract.FieldType][]uint64{contract.FieldTypeIssuedSupply: {500}},
		},
	}
	closes := []wire.OutPoint{{Hash: testSealTxid, Index: 0}}
	issue, err := u.IndexIssuance(ctx, testContractId, closes, transition, testWitness)
	require.NoError(t, err)
	assert.True(t, issue.IsSecondary())

	issues, err := dg.GetIssuesByContract(ctx, testContractId)
	require.NoError(t, err)
	assert.Len(t, issues, 2)
}

func TestIndexIssuanceWrongTransitionType(t *testing.T) {
	t.Parallel()

	dg := newFakeDataGateway()
	u := New(dg)

	transition := &contract.Transition{NodeId: contract.NodeId{0x02}, Type: contract.TransitionTypeTransfer}
	_, err := u.IndexIssuance(context.Background(), testContractId, nil, transition, testWitness)
	assert.ErrorIs(t, err, errs.InvalidArgument)
}

func TestIndexIssuanceUnknownContract(t *testing.T) {
	t.Parallel()

	dg := newFakeDataGateway()
	u := New(dg)

	transition := &contract.Transition{
		NodeId: contract.NodeId{0x02},
		Type:   contract.TransitionTypeIssue,
		Metadata: contract.Metadata{
			U64: map[contract.FieldType][]uint64{contract.FieldTypeIssuedSupply: {500}},
		},
	}
	_, err := u.IndexIssuance(context.Background(), testContractId, nil, transition, testWitness)
	assert.ErrorIs(t, err, errs.NotFound)
}

func TestIndexEpochZero(t *testing.T) {
	t.Parallel()

	dg := newFakeDataGateway()
	u := New(dg)

	transition := &contract.Transition{NodeId: contract.NodeId{0x03}, Type: contract.TransitionTypeEpoch}
	_, err := u.IndexEpoch(context.Background(), testContractId, 0, wire.OutPoint{}, transition, testWitness)
	assert.ErrorIs(t, err, errs.InvalidArgument)
}

func TestIndexBurnUnknownEpoch(t *testing.T) {
	t.Parallel()

	dg := newFakeDataGateway()
	u := New(dg)
	ctx := context.Background()

	_, err := u.IndexGenesis(ctx, testGenesis())
	require.NoError(t, err)

	burnTransition := &contract.Transition{
		NodeId: contract.NodeId{0x04},
		Type:   contract.TransitionTypeBurn,
		Metadata: contract.Metadata{
			U64: map[contract.FieldType][]uint64{contract.FieldTypeBurnedSupply: {300}},
		},
	}
	_, err = u.IndexBurn(ctx, testContractId, contract.NodeId{0xEE}, 1, wire.OutPoint{Hash: testSealTxid, Index: 1}, burnTransition, testWitness)
	require.ErrorIs(t, err, errs.NotFound)

	// The orphan operation must not be persisted, and the contract must stay
	// readable.
	burns, err := dg.GetBurnsByContract(ctx, testContractId)
	require.NoError(t, err)
	assert.Empty(t, burns)

	supply, err := u.GetSupply(ctx, testContractId)
	require.NoError(t, err)
	assert.Equal(t, contract.AtomicValue(1000), supply.KnownCirculating)
	_, err = u.GetEpochs(ctx, testContractId)
	require.NoError(t, err)
}

func TestIndexBurnEpochOfOtherContract(t *testing.T) {
	t.Parallel()

	dg := newFakeDataGateway()
	u := New(dg)
	ctx := context.Background()

	_, err := u.IndexGenesis(ctx, testGenesis())
	require.NoError(t, err)

	otherContractId := contract.ContractId{0xC1}
	otherGenesis := testGenesis()
	otherGenesis.NodeId = contract.NodeId{0x11}
	otherGenesis.ContractId = otherContractId
	_, err = u.IndexGenesis(ctx, otherGenesis)
	require.NoError(t, err)

	epochTransition := &contract.Transition{NodeId: contract.NodeId{0x13}, Type: contract.TransitionTypeEpoch}
	epoch, err := u.IndexEpoch(ctx, otherContractId, 1, wire.OutPoint{Hash: testSealTxid, Index: 1}, epochTransition, testWitness)
	require.NoError(t, err)

	burnTransition := &contract.Transition{
		NodeId: contract.NodeId{0x04},
		Type:   contract.TransitionTypeBurn,
		Metadata: contract.Metadata{
			U64: map[contract.FieldType][]uint64{contract.FieldTypeBurnedSupply: {300}},
		},
	}
	_, err = u.IndexBurn(ctx, testContractId, epoch.NodeId, 1, wire.OutPoint{Hash: testSealTxid, Index: 2}, burnTransition, testWitness)
	require.ErrorIs(t, err, errs.InvalidArgument)

	burns, err := dg.GetBurnsByContract(ctx, testContractId)
	require.NoError(t, err)
	assert.Empty(t, burns)
}

func TestSupplyLifecycle(t *testing.T) {
	t.Parallel()

	dg := newFakeDataGateway()
	u := New(dg)
	ctx := context.Background()

	_, err := u.IndexGenesis(ctx, testGenesis())
	require.NoError(t, err)

	issueTransition := &contract.Transition{
		NodeId: contract.NodeId{0x02},
		Type:   contract.TransitionTypeIssue,
		Metadata: contract.Metadata{
			U64: map[contract.FieldType][]uint64{contract.FieldTypeIssuedSupply: {500}},
		},
	}
	_, err = u.IndexIssuance(ctx, testContractId, []wire.OutPoint{{Hash: testSealTxid, Index: 0}}, issueTransition, testWitness)
	require.NoError(t, err)

	epochTransition := &contract.Transition{
		NodeId: contract.NodeId{0x03},
		Type:   contract.TransitionTypeEpoch,
		OwnedRights: map[contract.RightType][]contract.ValueAssignment{
			contract.RightTypeBurnReplace: {
				{Seal: contract.SealReveal{Vout: 1}},
			},
		},
	}
	epoch, err := u.IndexEpoch(ctx, testContractId, 1, wire.OutPoint{Hash: testSealTxid, Index: 1}, epochTransition, testWitness)
	require.NoError(t, err)
	assert.True(t, epoch.IsFinal())
	assert.True(t, epoch.IsUnlocked())

	burnTransition := &contract.Transition{
		NodeId: contract.NodeId{0x04},
		Type:   contract.TransitionTypeBurn,
		Metadata: contract.Metadata{
			U64: map[contract.FieldType][]uint64{contract.FieldTypeBurnedSupply: {300}},
		},
	}
	operation, err := u.IndexBurn(ctx, testContractId, epoch.NodeId, 1, wire.OutPoint{Hash: testWitness, Index: 1}, burnTransition, chainhash.Hash{0xCC})
	require.NoError(t, err)
	assert.Equal(t, contract.AtomicValue(300), operation.SupplyChange)

	supply, err := u.GetSupply(ctx, testContractId)
	require.NoError(t, err)
	assert.Equal(t, contract.AtomicValue(1200), supply.KnownCirculating)
	assert.Equal(t, contract.AtomicValue(1500), supply.IssueLimit)
	assert.Equal(t, asset.KnowledgeUnassessed, supply.Knowledge)
	_, ok := supply.TotalCirculating()
	assert.False(t, ok)

	require.NoError(t, u.AssessSupply(ctx, testContractId, asset.KnowledgeComplete))
	supply, err = u.GetSupply(ctx, testContractId)
	require.NoError(t, err)
	total, ok := supply.TotalCirculating()
	require.True(t, ok)
	assert.Equal(t, contract.AtomicValue(1200), total)

	epochs, err := u.GetEpochs(ctx, testContractId)
	require.NoError(t, err)
	require.Len(t, epochs, 1)
	require.Len(t, epochs[0].KnownOperations, 1)
	assert.Equal(t, contract.NodeId{0x04}, epochs[0].KnownOperations[0].NodeId)
}

func TestGetSupplyUnknownContract(t *testing.T) {
	t.Parallel()

	u := New(newFakeDataGateway())
	_, err := u.GetSupply(context.Background(), testContractId)
	assert.ErrorIs(t, err, errs.NotFound)
}
