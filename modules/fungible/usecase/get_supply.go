package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/veriseal-network/supply-indexer/core/contract"
	"github.com/veriseal-network/supply-indexer/modules/fungible/asset"
	"golang.org/x/sync/errgroup"
)

// GetSupply folds the whole known operation history of the contract into its
// current supply figures. The completeness verdict comes from the last
// recorded assessment, not from the fold itself.
func (u *Usecase) GetSupply(ctx context.Context, contractId contract.ContractId) (asset.Supply, error) {
	contractEntry, err := u.fungibleDg.GetContract(ctx, contractId)
	if err != nil {
		return asset.Supply{}, errors.Wrap(err, "error during GetContract")
	}

	var (
		issues []*asset.Issue
		epochs []asset.Epoch
	)
	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		issues, err = u.fungibleDg.GetIssuesByContract(egctx, contractId)
		if err != nil {
			return errors.Wrap(err, "error during GetIssuesByContract")
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		epochs, err = u.epochsWithOperations(egctx, contractId)
		if err != nil {
			return errors.Wrap(err, "cannot load epoch history")
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return asset.Supply{}, errors.WithStack(err)
	}

	issueValues := lo.Map(issues, func(issue *asset.Issue, _ int) asset.Issue { return *issue })
	supply, err := asset.Compute(issueValues, epochs, contractEntry.SupplyKnowledge)
	if err != nil {
		return asset.Supply{}, errors.Wrapf(err, "cannot fold supply of contract %s", contractId)
	}
	return supply, nil
}

// epochsWithOperations loads the contract's epochs and attaches every known
// burn/replace operation to its parent epoch.
func (u *Usecase) epochsWithOperations(ctx context.Context, contractId contract.ContractId) ([]asset.Epoch, error) {
	var (
		epochs []*asset.Epoch
		burns  []*asset.BurnReplace
	)
	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		epochs, err = u.fungibleDg.GetEpochsByContract(egctx, contractId)
		if err != nil {
			return errors.Wrap(err, "error during GetEpochsByContract")
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		burns, err = u.fungibleDg.GetBurnsByContract(egctx, contractId)
		if err != nil {
			return errors.Wrap(err, "error during GetBurnsByContract")
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, errors.WithStack(err)
	}

	index := asset.NewEpochIndex(lo.Map(epochs, func(epoch *asset.Epoch, _ int) asset.Epoch { return *epoch }))
	for _, operation := range burns {
		if err := index.Attach(*operation); err != nil {
			return nil, errors.Wrapf(err, "cannot attach operation %s to its epoch", operation.NodeId)
		}
	}
	return index.Epochs(), nil
}
