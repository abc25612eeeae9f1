package postgres

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/veriseal-network/supply-indexer/common/errs"
	"github.com/veriseal-network/supply-indexer/core/contract"
	"github.com/veriseal-network/supply-indexer/modules/fungible/asset"
	"github.com/veriseal-network/supply-indexer/modules/fungible/internal/entity"
)

func numericFromUint64(src uint64) (pgtype.Numeric, error) {
	var result pgtype.Numeric
	if err := result.UnmarshalJSON([]byte(strconv.FormatUint(src, 10))); err != nil {
		return pgtype.Numeric{}, errors.WithStack(err)
	}
	return result, nil
}

func uint64FromNumeric(src pgtype.Numeric) (uint64, error) {
	if !src.Valid {
		return 0, errors.New("numeric value is null")
	}
	bytes, err := src.MarshalJSON()
	if err != nil {
		return 0, errors.WithStack(err)
	}
	result, err := strconv.ParseUint(string(bytes), 10, 64)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return result, nil
}

func modelFromOutPoint(src wire.OutPoint) outPointModel {
	return outPointModel{
		TxHash: src.Hash.String(),
		TxIdx:  src.Index,
	}
}

func outPointFromModel(src outPointModel) (wire.OutPoint, error) {
	hash, err := chainhash.NewHashFromStr(src.TxHash)
	if err != nil {
		return wire.OutPoint{}, errors.Wrap(err, "failed to parse tx hash")
	}
	return wire.OutPoint{Hash: *hash, Index: src.TxIdx}, nil
}

// sealColumns splits an optional outpoint into its nullable column pair.
func sealColumns(src *wire.OutPoint) (pgtype.Text, pgtype.Int4) {
	if src == nil {
		return pgtype.Text{}, pgtype.Int4{}
	}
	return pgtype.Text{String: src.Hash.String(), Valid: true}, pgtype.Int4{Int32: int32(src.Index), Valid: true}
}

func sealFromColumns(txHash pgtype.Text, txIdx pgtype.Int4) (*wire.OutPoint, error) {
	if !txHash.Valid {
		return nil, nil
	}
	hash, err := chainhash.NewHashFromStr(txHash.String)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse seal tx hash")
	}
	return &wire.OutPoint{Hash: *hash, Index: uint32(txIdx.Int32)}, nil
}

// pgBoolFromKnowledge maps the tri-state onto the nullable supply_known
// column: null = unassessed, false = incomplete, true = complete.
func pgBoolFromKnowledge(src asset.Knowledge) pgtype.Bool {
	if known := src.NullableBool(); known != nil {
		return pgtype.Bool{Bool: *known, Valid: true}
	}
	return pgtype.Bool{}
}

func mapContractTypeToModel(src entity.Contract) contractModel {
	supplyKnown := pgBoolFromKnowledge(src.SupplyKnowledge)
	return contractModel{
		ContractId:  src.ContractId.String(),
		Ticker:      src.Ticker,
		Name:        src.Name,
		Precision:   int16(src.Precision),
		SupplyKnown: supplyKnown,
		CreatedAt:   pgtype.Timestamptz{Time: src.CreatedAt, Valid: true},
	}
}

func mapContractModelToType(src contractModel) (*entity.Contract, error) {
	contractId, err := contract.NewContractIdFromString(src.ContractId)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse contract id")
	}
	var known *bool
	if src.SupplyKnown.Valid {
		known = &src.SupplyKnown.Bool
	}
	return &entity.Contract{
		ContractId:      contractId,
		Ticker:          src.Ticker,
		Name:            src.Name,
		Precision:       uint8(src.Precision),
		SupplyKnowledge: asset.NewKnowledgeFromNullableBool(known),
		CreatedAt:       src.CreatedAt.Time.UTC(),
	}, nil
}

func mapIssueTypeToModel(src asset.Issue) (issueModel, error) {
	amount, err := numericFromUint64(uint64(src.Amount))
	if err != nil {
		return issueModel{}, errors.Wrap(err, "failed to convert amount")
	}

	closesModels := make([]outPointModel, 0, len(src.Closes))
	for _, outPoint := range src.Closes {
		closesModels = append(closesModels, modelFromOutPoint(outPoint))
	}
	closes, err := json.Marshal(closesModels)
	if err != nil {
		return issueModel{}, errors.Wrap(err, "failed to marshal closes")
	}

	assignmentModels := make([]inflationAssignmentModel, 0, len(src.InflationAssignments))
	for outPoint, assignment := range src.InflationAssignments {
		assignmentModels = append(assignmentModels, inflationAssignmentModel{
			TxHash:  outPoint.Hash.String(),
			TxIdx:   outPoint.Index,
			Amount:  strconv.FormatUint(uint64(assignment.Amount), 10),
			Indices: assignment.Indices,
		})
	}
	// Map iteration order is random; keep the stored form deterministic.
	sort.Slice(assignmentModels, func(i, j int) bool {
		if assignmentModels[i].TxHash != assignmentModels[j].TxHash {
			return assignmentModels[i].TxHash < assignmentModels[j].TxHash
		}
		return assignmentModels[i].TxIdx < assignmentModels[j].TxIdx
	})
	assignments, err := json.Marshal(assignmentModels)
	if err != nil {
		return issueModel{}, errors.Wrap(err, "failed to marshal inflation assignments")
	}

	witness := pgtype.Text{}
	if src.Witness != nil {
		witness = pgtype.Text{String: src.Witness.String(), Valid: true}
	}
	return issueModel{
		NodeId:               src.NodeId.String(),
		ContractId:           src.ContractId.String(),
		Amount:               amount,
		Closes:               closes,
		InflationAssignments: assignments,
		WitnessTxHash:        witness,
	}, nil
}

func mapIssueModelToType(src issueModel) (*asset.Issue, error) {
	nodeId, err := contract.NewNodeIdFromString(src.NodeId)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse node id")
	}
	contractId, err := contract.NewContractIdFromString(src.ContractId)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse contract id")
	}
	amount, err := uint64FromNumeric(src.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse amount")
	}

	var closesModels []outPointModel
	if err := json.Unmarshal(src.Closes, &closesModels); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal closes")
	}
	var closes []wire.OutPoint
	for _, model := range closesModels {
		outPoint, err := outPointFromModel(model)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse closed outpoint")
		}
		closes = append(closes, outPoint)
	}

	var assignmentModels []inflationAssignmentModel
	if err := json.Unmarshal(src.InflationAssignments, &assignmentModels); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal inflation assignments")
	}
	assignments := make(map[wire.OutPoint]asset.InflationAssignment, len(assignmentModels))
	for _, model := range assignmentModels {
		outPoint, err := outPointFromModel(outPointModel{TxHash: model.TxHash, TxIdx: model.TxIdx})
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse assignment outpoint")
		}
		assignmentAmount, err := strconv.ParseUint(model.Amount, 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse assignment amount")
		}
		assignments[outPoint] = asset.InflationAssignment{
			Amount:  contract.AtomicValue(assignmentAmount),
			Indices: model.Indices,
		}
	}

	var witness *chainhash.Hash
	if src.WitnessTxHash.Valid {
		witness, err = chainhash.NewHashFromStr(src.WitnessTxHash.String)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse witness tx hash")
		}
	}
	return &asset.Issue{
		NodeId:               nodeId,
		ContractId:           contractId,
		Amount:               contract.AtomicValue(amount),
		Closes:               closes,
		InflationAssignments: assignments,
		Witness:              witness,
	}, nil
}

func mapEpochTypeToModel(src asset.Epoch) epochModel {
	epochSealTxHash, epochSealTxIdx := sealColumns(src.EpochSeal)
	sealTxHash, sealTxIdx := sealColumns(src.Seal)
	return epochModel{
		NodeId:          src.NodeId.String(),
		ContractId:      src.ContractId.String(),
		No:              int64(src.No),
		ClosesTxHash:    src.Closes.Hash.String(),
		ClosesTxIdx:     int32(src.Closes.Index),
		EpochSealTxHash: epochSealTxHash,
		EpochSealTxIdx:  epochSealTxIdx,
		SealTxHash:      sealTxHash,
		SealTxIdx:       sealTxIdx,
		WitnessTxHash:   src.Witness.String(),
	}
}

func mapEpochModelToType(src epochModel) (*asset.Epoch, error) {
	nodeId, err := contract.NewNodeIdFromString(src.NodeId)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse node id")
	}
	contractId, err := contract.NewContractIdFromString(src.ContractId)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse contract id")
	}
	closes, err := outPointFromModel(outPointModel{TxHash: src.ClosesTxHash, TxIdx: uint32(src.ClosesTxIdx)})
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse closed outpoint")
	}
	epochSeal, err := sealFromColumns(src.EpochSealTxHash, src.EpochSealTxIdx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse epoch seal")
	}
	seal, err := sealFromColumns(src.SealTxHash, src.SealTxIdx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse burn seal")
	}
	witness, err := chainhash.NewHashFromStr(src.WitnessTxHash)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse witness tx hash")
	}
	return &asset.Epoch{
		NodeId:     nodeId,
		No:         uint64(src.No),
		ContractId: contractId,
		Closes:     closes,
		EpochSeal:  epochSeal,
		Seal:       seal,
		Witness:    *witness,
	}, nil
}

func mapBurnTypeToModel(src asset.BurnReplace) (burnModel, error) {
	burned, err := numericFromUint64(uint64(src.BurnedAmount))
	if err != nil {
		return burnModel{}, errors.Wrap(err, "failed to convert burned amount")
	}
	replaced, err := numericFromUint64(uint64(src.ReplacedAmount))
	if err != nil {
		return burnModel{}, errors.Wrap(err, "failed to convert replaced amount")
	}
	sealTxHash, sealTxIdx := sealColumns(src.Seal)
	return burnModel{
		NodeId:          src.NodeId.String(),
		EpochId:         src.EpochId.String(),
		ContractId:      src.ContractId.String(),
		No:              int64(src.No),
		ClosesTxHash:    src.Closes.Hash.String(),
		ClosesTxIdx:     int32(src.Closes.Index),
		DoesReplacement: src.DoesReplacement,
		BurnedAmount:    burned,
		ReplacedAmount:  replaced,
		SealTxHash:      sealTxHash,
		SealTxIdx:       sealTxIdx,
		WitnessTxHash:   src.Witness.String(),
	}, nil
}

func mapBurnModelToType(src burnModel) (*asset.BurnReplace, error) {
	nodeId, err := contract.NewNodeIdFromString(src.NodeId)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse node id")
	}
	epochId, err := contract.NewNodeIdFromString(src.EpochId)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse epoch id")
	}
	contractId, err := contract.NewContractIdFromString(src.ContractId)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse contract id")
	}
	closes, err := outPointFromModel(outPointModel{TxHash: src.ClosesTxHash, TxIdx: uint32(src.ClosesTxIdx)})
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse closed outpoint")
	}
	burned, err := uint64FromNumeric(src.BurnedAmount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse burned amount")
	}
	replaced, err := uint64FromNumeric(src.ReplacedAmount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse replaced amount")
	}
	seal, err := sealFromColumns(src.SealTxHash, src.SealTxIdx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse burn seal")
	}
	witness, err := chainhash.NewHashFromStr(src.WitnessTxHash)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse witness tx hash")
	}
	if replaced > burned {
		return nil, errors.Wrapf(errs.UnderflowUint64, "burn %s: replaced amount %d exceeds burned amount %d", src.NodeId, replaced, burned)
	}
	return &asset.BurnReplace{
		NodeId:          nodeId,
		EpochId:         epochId,
		No:              uint64(src.No),
		ContractId:      contractId,
		Closes:          closes,
		DoesReplacement: src.DoesReplacement,
		BurnedAmount:    contract.AtomicValue(burned),
		ReplacedAmount:  contract.AtomicValue(replaced),
		SupplyChange:    contract.AtomicValue(burned - replaced),
		Seal:            seal,
		Witness:         *witness,
	}, nil
}
