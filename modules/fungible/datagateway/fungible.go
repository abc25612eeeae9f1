package datagateway

import (
	"context"

	"github.com/veriseal-network/supply-indexer/core/contract"
	"github.com/veriseal-network/supply-indexer/modules/fungible/asset"
	"github.com/veriseal-network/supply-indexer/modules/fungible/internal/entity"
)

type FungibleDataGateway interface {
	FungibleReaderDataGateway
	FungibleWriterDataGateway

	// BeginFungibleTx returns a new FungibleDataGateway with transaction enabled. All write operations performed in this datagateway must be committed to persist changes.
	BeginFungibleTx(ctx context.Context) (FungibleDataGatewayWithTx, error)
}

type FungibleDataGatewayWithTx interface {
	FungibleDataGateway
	Tx
}

type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type FungibleReaderDataGateway interface {
	// GetContract returns the indexed contract. Returns errs.NotFound if the contract is not indexed.
	GetContract(ctx context.Context, contractId contract.ContractId) (*entity.Contract, error)
	// GetContracts returns indexed contracts ordered by creation time. Use limit = -1 as no limit.
	GetContracts(ctx context.Context, limit int32, offset int32) ([]*entity.Contract, error)
	// GetIssuesByContract returns all known issues of the contract, genesis first.
	GetIssuesByContract(ctx context.Context, contractId contract.ContractId) ([]*asset.Issue, error)
	// GetEpoch returns the epoch opened by the transition with the given node
	// id. Returns errs.NotFound if the epoch is not indexed.
	GetEpoch(ctx context.Context, epochId contract.NodeId) (*asset.Epoch, error)
	// GetEpochsByContract returns all known epochs of the contract ordered by
	// sequence number, without burn/replace operations attached.
	GetEpochsByContract(ctx context.Context, contractId contract.ContractId) ([]*asset.Epoch, error)
	// GetBurnsByContract returns all known burn/replace operations of the
	// contract ordered by (epoch, sequence number).
	GetBurnsByContract(ctx context.Context, contractId contract.ContractId) ([]*asset.BurnReplace, error)
}

type FungibleWriterDataGateway interface {
	CreateContract(ctx context.Context, contractEntry *entity.Contract) error
	CreateIssue(ctx context.Context, issue *asset.Issue) error
	CreateEpoch(ctx context.Context, epoch *asset.Epoch) error
	CreateBurnReplace(ctx context.Context, operation *asset.BurnReplace) error
	// SetSupplyKnowledge records the completeness assessment for the contract.
	SetSupplyKnowledge(ctx context.Context, contractId contract.ContractId, knowledge asset.Knowledge) error
}
