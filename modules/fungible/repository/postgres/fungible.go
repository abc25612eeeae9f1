package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/veriseal-network/supply-indexer/common/errs"
	"github.com/veriseal-network/supply-indexer/core/contract"
	"github.com/veriseal-network/supply-indexer/modules/fungible/asset"
	"github.com/veriseal-network/supply-indexer/modules/fungible/datagateway"
	"github.com/veriseal-network/supply-indexer/modules/fungible/internal/entity"
)

var _ datagateway.FungibleDataGateway = (*Repository)(nil)

func (r *Repository) GetContract(ctx context.Context, contractId contract.ContractId) (*entity.Contract, error) {
	row := r.q().QueryRow(ctx, `
		SELECT contract_id, ticker, name, precision, supply_known, created_at
		FROM fungible_contracts
		WHERE contract_id = $1
	`, contractId.String())

	var model contractModel
	if err := row.Scan(&model.ContractId, &model.Ticker, &model.Name, &model.Precision, &model.SupplyKnown, &model.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	contractEntry, err := mapContractModelToType(model)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse contract model")
	}
	return contractEntry, nil
}

func (r *Repository) GetContracts(ctx context.Context, limit int32, offset int32) ([]*entity.Contract, error) {
	rows, err := r.q().Query(ctx, `
		SELECT contract_id, ticker, name, precision, supply_known, created_at
		FROM fungible_contracts
		ORDER BY created_at, contract_id
		LIMIT NULLIF($1::bigint, -1) OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	defer rows.Close()

	contractEntries := make([]*entity.Contract, 0)
	for rows.Next() {
		var model contractModel
		if err := rows.Scan(&model.ContractId, &model.Ticker, &model.Name, &model.Precision, &model.SupplyKnown, &model.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "error during scan")
		}
		contractEntry, err := mapContractModelToType(model)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse contract model")
		}
		contractEntries = append(contractEntries, contractEntry)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error during iteration")
	}
	return contractEntries, nil
}

func (r *Repository) GetIssuesByContract(ctx context.Context, contractId contract.ContractId) ([]*asset.Issue, error) {
	rows, err := r.q().Query(ctx, `
		SELECT node_id, contract_id, amount, closes, inflation_assignments, witness_tx_hash
		FROM fungible_issues
		WHERE contract_id = $1
		ORDER BY (witness_tx_hash IS NOT NULL), node_id
	`, contractId.String())
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	defer rows.Close()

	issues := make([]*asset.Issue, 0)
	for rows.Next() {
		var model issueModel
		if err := rows.Scan(&model.NodeId, &model.ContractId, &model.Amount, &model.Closes, &model.InflationAssignments, &model.WitnessTxHash); err != nil {
			return nil, errors.Wrap(err, "error during scan")
		}
		issue, err := mapIssueModelToType(model)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse issue model")
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error during iteration")
	}
	return issues, nil
}

func (r *Repository) GetEpoch(ctx context.Context, epochId contract.NodeId) (*asset.Epoch, error) {
	row := r.q().QueryRow(ctx, `
		SELECT node_id, contract_id, no, closes_tx_hash, closes_tx_idx, epoch_seal_tx_hash, epoch_seal_tx_idx, seal_tx_hash, seal_tx_idx, witness_tx_hash
		FROM fungible_epochs
		WHERE node_id = $1
	`, epochId.String())

	var model epochModel
	if err := row.Scan(&model.NodeId, &model.ContractId, &model.No, &model.ClosesTxHash, &model.ClosesTxIdx, &model.EpochSealTxHash, &model.EpochSealTxIdx, &model.SealTxHash, &model.SealTxIdx, &model.WitnessTxHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	epoch, err := mapEpochModelToType(model)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse epoch model")
	}
	return epoch, nil
}

func (r *Repository) GetEpochsByContract(ctx context.Context, contractId contract.ContractId) ([]*asset.Epoch, error) {
	rows, err := r.q().Query(ctx, `
		SELECT node_id, contract_id, no, closes_tx_hash, closes_tx_idx, epoch_seal_tx_hash, epoch_seal_tx_idx, seal_tx_hash, seal_tx_idx, witness_tx_hash
		FROM fungible_epochs
		WHERE contract_id = $1
		ORDER BY no
	`, contractId.String())
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	defer rows.Close()

	epochs := make([]*asset.Epoch, 0)
	for rows.Next() {
		var model epochModel
		if err := rows.Scan(&model.NodeId, &model.ContractId, &model.No, &model.ClosesTxHash, &model.ClosesTxIdx, &model.EpochSealTxHash, &model.EpochSealTxIdx, &model.SealTxHash, &model.SealTxIdx, &model.WitnessTxHash); err != nil {
			return nil, errors.Wrap(err, "error during scan")
		}
		epoch, err := mapEpochModelToType(model)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse epoch model")
		}
		epochs = append(epochs, epoch)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error during iteration")
	}
	return epochs, nil
}

func (r *Repository) GetBurnsByContract(ctx context.Context, contractId contract.ContractId) ([]*asset.BurnReplace, error) {
	rows, err := r.q().Query(ctx, `
		SELECT node_id, epoch_id, contract_id, no, closes_tx_hash, closes_tx_idx, does_replacement, burned_amount, replaced_amount, seal_tx_hash, seal_tx_idx, witness_tx_hash
		FROM fungible_burns
		WHERE contract_id = $1
		ORDER BY epoch_id, no
	`, contractId.String())
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	defer rows.Close()

	operations := make([]*asset.BurnReplace, 0)
	for rows.Next() {
		var model burnModel
		if err := rows.Scan(&model.NodeId, &model.EpochId, &model.ContractId, &model.No, &model.ClosesTxHash, &model.ClosesTxIdx, &model.DoesReplacement, &model.BurnedAmount, &model.ReplacedAmount, &model.SealTxHash, &model.SealTxIdx, &model.WitnessTxHash); err != nil {
			return nil, errors.Wrap(err, "error during scan")
		}
		operation, err := mapBurnModelToType(model)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse burn model")
		}
		operations = append(operations, operation)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error during iteration")
	}
	return operations, nil
}

func (r *Repository) CreateContract(ctx context.Context, contractEntry *entity.Contract) error {
	model := mapContractTypeToModel(*contractEntry)
	_, err := r.q().Exec(ctx, `
		INSERT INTO fungible_contracts (contract_id, ticker, name, precision, supply_known, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, model.ContractId, model.Ticker, model.Name, model.Precision, model.SupplyKnown, model.CreatedAt)
	if err != nil {
		return errors.Wrap(wrapDuplicate(err), "error during exec")
	}
	return nil
}

func (r *Repository) CreateIssue(ctx context.Context, issue *asset.Issue) error {
	model, err := mapIssueTypeToModel(*issue)
	if err != nil {
		return errors.Wrap(err, "failed to convert issue")
	}
	_, err = r.q().Exec(ctx, `
		INSERT INTO fungible_issues (node_id, contract_id, amount, closes, inflation_assignments, witness_tx_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, model.NodeId, model.ContractId, model.Amount, model.Closes, model.InflationAssignments, model.WitnessTxHash)
	if err != nil {
		return errors.Wrap(wrapDuplicate(err), "error during exec")
	}
	return nil
}

func (r *Repository) CreateEpoch(ctx context.Context, epoch *asset.Epoch) error {
	model := mapEpochTypeToModel(*epoch)
	_, err := r.q().Exec(ctx, `
		INSERT INTO fungible_epochs (node_id, contract_id, no, closes_tx_hash, closes_tx_idx, epoch_seal_tx_hash, epoch_seal_tx_idx, seal_tx_hash, seal_tx_idx, witness_tx_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, model.NodeId, model.ContractId, model.No, model.ClosesTxHash, model.ClosesTxIdx, model.EpochSealTxHash, model.EpochSealTxIdx, model.SealTxHash, model.SealTxIdx, model.WitnessTxHash)
	if err != nil {
		return errors.Wrap(wrapDuplicate(err), "error during exec")
	}
	return nil
}

func (r *Repository) CreateBurnReplace(ctx context.Context, operation *asset.BurnReplace) error {
	model, err := mapBurnTypeToModel(*operation)
	if err != nil {
		return errors.Wrap(err, "failed to convert burn/replace operation")
	}
	_, err = r.q().Exec(ctx, `
		INSERT INTO fungible_burns (node_id, epoch_id, contract_id, no, closes_tx_hash, closes_tx_idx, does_replacement, burned_amount, replaced_amount, seal_tx_hash, seal_tx_idx, witness_tx_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, model.NodeId, model.EpochId, model.ContractId, model.No, model.ClosesTxHash, model.ClosesTxIdx, model.DoesReplacement, model.BurnedAmount, model.ReplacedAmount, model.SealTxHash, model.SealTxIdx, model.WitnessTxHash)
	if err != nil {
		return errors.Wrap(wrapDuplicate(err), "error during exec")
	}
	return nil
}

func (r *Repository) SetSupplyKnowledge(ctx context.Context, contractId contract.ContractId, knowledge asset.Knowledge) error {
	supplyKnown := pgBoolFromKnowledge(knowledge)
	tag, err := r.q().Exec(ctx, `
		UPDATE fungible_contracts SET supply_known = $2 WHERE contract_id = $1
	`, contractId.String(), supplyKnown)
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	if tag.RowsAffected() == 0 {
		return errors.WithStack(errs.NotFound)
	}
	return nil
}

// wrapDuplicate maps postgres unique violations to errs.Duplicate so callers
// do not depend on driver error codes.
func wrapDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return errors.Mark(err, errs.Duplicate)
	}
	return err
}
