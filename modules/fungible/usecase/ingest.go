package usecase

import (
	"context"
	"math"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/cockroachdb/errors"
	"github.com/veriseal-network/supply-indexer/common/errs"
	"github.com/veriseal-network/supply-indexer/core/contract"
	"github.com/veriseal-network/supply-indexer/modules/fungible/asset"
	"github.com/veriseal-network/supply-indexer/modules/fungible/internal/entity"
	"github.com/veriseal-network/supply-indexer/pkg/logger"
	"github.com/veriseal-network/supply-indexer/pkg/logger/slogx"
)

// IndexGenesis registers a contract from its validated genesis operation,
// extracting the nomination fields and the primary issue.
func (u *Usecase) IndexGenesis(ctx context.Context, genesis *contract.Genesis) (*entity.Contract, error) {
	issue, err := asset.NewIssueFromGenesis(genesis)
	if err != nil {
		return nil, errors.Wrap(err, "cannot extract primary issue from genesis")
	}

	ticker, ok := genesis.Metadata.FirstStr(contract.FieldTypeTicker)
	if !ok {
		return nil, errors.Wrapf(asset.ErrUnsatisfiedSchemaRequirement, "genesis %s has no ticker field", genesis.NodeId)
	}
	name, ok := genesis.Metadata.FirstStr(contract.FieldTypeName)
	if !ok {
		return nil, errors.Wrapf(asset.ErrUnsatisfiedSchemaRequirement, "genesis %s has no name field", genesis.NodeId)
	}
	precision, ok := genesis.Metadata.FirstU64(contract.FieldTypePrecision)
	if !ok {
		precision = 0
	}
	if precision > math.MaxUint8 {
		return nil, errors.Wrapf(errs.InvalidArgument, "precision %d out of range", precision)
	}

	contractEntry := &entity.Contract{
		ContractId:      genesis.ContractId,
		Ticker:          ticker,
		Name:            name,
		Precision:       uint8(precision),
		SupplyKnowledge: asset.KnowledgeUnassessed,
		CreatedAt:       time.Now().UTC(),
	}

	tx, err := u.fungibleDg.BeginFungibleTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil {
			logger.WarnContext(ctx, "failed to rollback transaction", slogx.Error(err))
		}
	}()

	if err := tx.CreateContract(ctx, contractEntry); err != nil {
		return nil, errors.Wrap(err, "error during CreateContract")
	}
	if err := tx.CreateIssue(ctx, &issue); err != nil {
		return nil, errors.Wrap(err, "error during CreateIssue")
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit transaction")
	}
	return contractEntry, nil
}

// IndexIssuance records a secondary issue performed by an issue-type
// transition. closes is the set of outpoints whose inflation seals the
// transition closed; witness anchors it to the commitment medium.
func (u *Usecase) IndexIssuance(ctx context.Context, contractId contract.ContractId, closes []wire.OutPoint, transition *contract.Transition, witness chainhash.Hash) (*asset.Issue, error) {
	if transition.Type != contract.TransitionTypeIssue {
		return nil, errors.Wrapf(errs.InvalidArgument, "transition %s is not an issue transition", transition.NodeId)
	}
	if _, err := u.fungibleDg.GetContract(ctx, contractId); err != nil {
		return nil, errors.Wrap(err, "error during GetContract")
	}

	issue, err := asset.NewIssueFromTransition(contractId, closes, transition, witness)
	if err != nil {
		return nil, errors.Wrap(err, "cannot extract issue from transition")
	}
	if err := u.fungibleDg.CreateIssue(ctx, &issue); err != nil {
		return nil, errors.Wrap(err, "error during CreateIssue")
	}
	return &issue, nil
}

// IndexEpoch records a burn & replace epoch opened by an epoch-type
// transition. no is the epoch sequence number assigned by the caller's
// operation ordering; closes is the outpoint whose epoch seal was closed.
func (u *Usecase) IndexEpoch(ctx context.Context, contractId contract.ContractId, no uint64, closes wire.OutPoint, transition *contract.Transition, witness chainhash.Hash) (*asset.Epoch, error) {
	if transition.Type != contract.TransitionTypeEpoch {
		return nil, errors.Wrapf(errs.InvalidArgument, "transition %s is not an epoch transition", transition.NodeId)
	}
	if no == 0 {
		return nil, errors.Wrap(errs.InvalidArgument, "there is no epoch zero")
	}
	if _, err := u.fungibleDg.GetContract(ctx, contractId); err != nil {
		return nil, errors.Wrap(err, "error during GetContract")
	}

	epoch, err := asset.NewEpoch(contractId, no, closes, transition, nil, witness)
	if err != nil {
		return nil, errors.Wrap(err, "cannot extract epoch from transition")
	}
	if err := u.fungibleDg.CreateEpoch(ctx, &epoch); err != nil {
		return nil, errors.Wrap(err, "error during CreateEpoch")
	}
	return &epoch, nil
}

// IndexBurn records a burn or burn & replace operation within an epoch.
func (u *Usecase) IndexBurn(ctx context.Context, contractId contract.ContractId, epochId contract.NodeId, no uint64, closes wire.OutPoint, transition *contract.Transition, witness chainhash.Hash) (*asset.BurnReplace, error) {
	if transition.Type != contract.TransitionTypeBurn && transition.Type != contract.TransitionTypeBurnAndReplace {
		return nil, errors.Wrapf(errs.InvalidArgument, "transition %s is not a burn or burn-and-replace transition", transition.NodeId)
	}
	if _, err := u.fungibleDg.GetContract(ctx, contractId); err != nil {
		return nil, errors.Wrap(err, "error during GetContract")
	}
	// Orphan operations would poison every later supply fold; reject them at
	// the door.
	epoch, err := u.fungibleDg.GetEpoch(ctx, epochId)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errors.Wrapf(errs.NotFound, "epoch %s is not indexed", epochId)
		}
		return nil, errors.Wrap(err, "error during GetEpoch")
	}
	if epoch.ContractId != contractId {
		return nil, errors.Wrapf(errs.InvalidArgument, "epoch %s belongs to contract %s", epochId, epoch.ContractId)
	}

	operation, err := asset.NewBurnReplace(contractId, epochId, no, closes, transition, witness)
	if err != nil {
		return nil, errors.Wrap(err, "cannot extract burn/replace from transition")
	}
	if err := u.fungibleDg.CreateBurnReplace(ctx, &operation); err != nil {
		return nil, errors.Wrap(err, "error during CreateBurnReplace")
	}
	return &operation, nil
}

// AssessSupply records the completeness assessment produced by the external
// seal-scanning collaborator. The indexer never derives completeness itself.
func (u *Usecase) AssessSupply(ctx context.Context, contractId contract.ContractId, knowledge asset.Knowledge) error {
	if err := u.fungibleDg.SetSupplyKnowledge(ctx, contractId, knowledge); err != nil {
		return errors.Wrap(err, "error during SetSupplyKnowledge")
	}
	return nil
}
