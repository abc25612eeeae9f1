package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/veriseal-network/supply-indexer/core/contract"
	"github.com/veriseal-network/supply-indexer/modules/fungible/asset"
	"github.com/veriseal-network/supply-indexer/modules/fungible/internal/entity"
)

func (u *Usecase) GetContract(ctx context.Context, contractId contract.ContractId) (*entity.Contract, error) {
	contractEntry, err := u.fungibleDg.GetContract(ctx, contractId)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetContract")
	}
	return contractEntry, nil
}

func (u *Usecase) GetContracts(ctx context.Context, limit int32, offset int32) ([]*entity.Contract, error) {
	contractEntries, err := u.fungibleDg.GetContracts(ctx, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetContracts")
	}
	return contractEntries, nil
}

func (u *Usecase) GetIssues(ctx context.Context, contractId contract.ContractId) ([]asset.Issue, error) {
	issues, err := u.fungibleDg.GetIssuesByContract(ctx, contractId)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetIssuesByContract")
	}
	return lo.Map(issues, func(issue *asset.Issue, _ int) asset.Issue { return *issue }), nil
}

// GetEpochs returns the contract's epochs with their known burn/replace
// operations attached, ordered by sequence number.
func (u *Usecase) GetEpochs(ctx context.Context, contractId contract.ContractId) ([]asset.Epoch, error) {
	epochs, err := u.epochsWithOperations(ctx, contractId)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return epochs, nil
}
