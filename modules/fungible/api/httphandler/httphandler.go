package httphandler

import (
	"sort"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/veriseal-network/supply-indexer/core/contract"
	"github.com/veriseal-network/supply-indexer/modules/fungible/asset"
	"github.com/veriseal-network/supply-indexer/modules/fungible/internal/entity"
	"github.com/veriseal-network/supply-indexer/modules/fungible/usecase"
)

type HttpHandler struct {
	usecase *usecase.Usecase
}

func New(usecase *usecase.Usecase) *HttpHandler {
	return &HttpHandler{
		usecase: usecase,
	}
}

type HttpResponse[T any] struct {
	Error  *string `json:"error"`
	Result *T      `json:"result,omitempty"`
}

// sealDto is the request form of a revealed seal. An empty txid means the
// seal is relative to its own witness transaction.
type sealDto struct {
	Txid string `json:"txid,omitempty"`
	Vout uint32 `json:"vout"`
}

func (d sealDto) ToSealReveal() (contract.SealReveal, error) {
	if d.Txid == "" {
		return contract.SealReveal{Vout: d.Vout}, nil
	}
	txid, err := chainhash.NewHashFromStr(d.Txid)
	if err != nil {
		return contract.SealReveal{}, errors.Wrapf(err, "invalid seal txid %q", d.Txid)
	}
	return contract.SealReveal{Txid: txid, Vout: d.Vout}, nil
}

type valueAssignmentDto struct {
	Confidential bool    `json:"confidential,omitempty"`
	Seal         sealDto `json:"seal"`
	Amount       uint64  `json:"amount"`
}

func (d valueAssignmentDto) ToValueAssignment() (contract.ValueAssignment, error) {
	seal, err := d.Seal.ToSealReveal()
	if err != nil {
		return contract.ValueAssignment{}, errors.WithStack(err)
	}
	return contract.ValueAssignment{
		Confidential: d.Confidential,
		Seal:         seal,
		Amount:       contract.AtomicValue(d.Amount),
	}, nil
}

func toValueAssignments(dtos []valueAssignmentDto) ([]contract.ValueAssignment, error) {
	assignments := make([]contract.ValueAssignment, 0, len(dtos))
	for _, dto := range dtos {
		assignment, err := dto.ToValueAssignment()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		assignments = append(assignments, assignment)
	}
	return assignments, nil
}

type outPointDto struct {
	TxHash string `json:"txHash"`
	TxIdx  uint32 `json:"txIdx"`
}

func (d outPointDto) ToOutPoint() (wire.OutPoint, error) {
	hash, err := chainhash.NewHashFromStr(d.TxHash)
	if err != nil {
		return wire.OutPoint{}, errors.Wrapf(err, "invalid tx hash %q", d.TxHash)
	}
	return wire.OutPoint{Hash: *hash, Index: d.TxIdx}, nil
}

func outPointDtoFrom(outPoint wire.OutPoint) outPointDto {
	return outPointDto{TxHash: outPoint.Hash.String(), TxIdx: outPoint.Index}
}

func optionalOutPointDto(outPoint *wire.OutPoint) *outPointDto {
	if outPoint == nil {
		return nil
	}
	return lo.ToPtr(outPointDtoFrom(*outPoint))
}

type contractResult struct {
	Id              string `json:"id"`
	Ticker          string `json:"ticker"`
	Name            string `json:"name"`
	Precision       uint8  `json:"precision"`
	SupplyKnowledge string `json:"supplyKnowledge"`
	CreatedAt       int64  `json:"createdAt"` // unix timestamp
}

func contractResultFrom(contractEntry *entity.Contract) contractResult {
	return contractResult{
		Id:              contractEntry.ContractId.String(),
		Ticker:          contractEntry.Ticker,
		Name:            contractEntry.Name,
		Precision:       contractEntry.Precision,
		SupplyKnowledge: contractEntry.SupplyKnowledge.String(),
		CreatedAt:       contractEntry.CreatedAt.Unix(),
	}
}

type inflationAssignmentResult struct {
	TxHash  string   `json:"txHash"`
	TxIdx   uint32   `json:"txIdx"`
	Amount  uint64   `json:"amount"`
	Indices []uint16 `json:"indices"`
}

type issueResult struct {
	NodeId               string                      `json:"nodeId"`
	ContractId           string                      `json:"contractId"`
	Amount               uint64                      `json:"amount"`
	IsPrimary            bool                        `json:"isPrimary"`
	Closes               []outPointDto               `json:"closes"`
	InflationAssignments []inflationAssignmentResult `json:"inflationAssignments"`
	WitnessTxHash        *string                     `json:"witnessTxHash"`
}

func issueResultFrom(issue asset.Issue) issueResult {
	closes := lo.Map(issue.Closes, func(outPoint wire.OutPoint, _ int) outPointDto {
		return outPointDtoFrom(outPoint)
	})
	assignments := make([]inflationAssignmentResult, 0, len(issue.InflationAssignments))
	for outPoint, assignment := range issue.InflationAssignments {
		assignments = append(assignments, inflationAssignmentResult{
			TxHash:  outPoint.Hash.String(),
			TxIdx:   outPoint.Index,
			Amount:  uint64(assignment.Amount),
			Indices: assignment.Indices,
		})
	}
	sort.Slice(assignments, func(i, j int) bool {
		if assignments[i].TxHash != assignments[j].TxHash {
			return assignments[i].TxHash < assignments[j].TxHash
		}
		return assignments[i].TxIdx < assignments[j].TxIdx
	})
	var witness *string
	if issue.Witness != nil {
		witness = lo.ToPtr(issue.Witness.String())
	}
	return issueResult{
		NodeId:               issue.NodeId.String(),
		ContractId:           issue.ContractId.String(),
		Amount:               uint64(issue.Amount),
		IsPrimary:            issue.IsPrimary(),
		Closes:               closes,
		InflationAssignments: assignments,
		WitnessTxHash:        witness,
	}
}

type burnResult struct {
	NodeId          string       `json:"nodeId"`
	EpochId         string       `json:"epochId"`
	No              uint64       `json:"no"`
	DoesReplacement bool         `json:"doesReplacement"`
	BurnedAmount    uint64       `json:"burnedAmount"`
	ReplacedAmount  uint64       `json:"replacedAmount"`
	SupplyChange    uint64       `json:"supplyChange"`
	Closes          outPointDto  `json:"closes"`
	Seal            *outPointDto `json:"seal"`
	IsFinal         bool         `json:"isFinal"`
	WitnessTxHash   string       `json:"witnessTxHash"`
}

func burnResultFrom(operation asset.BurnReplace) burnResult {
	return burnResult{
		NodeId:          operation.NodeId.String(),
		EpochId:         operation.EpochId.String(),
		No:              operation.No,
		DoesReplacement: operation.DoesReplacement,
		BurnedAmount:    uint64(operation.BurnedAmount),
		ReplacedAmount:  uint64(operation.ReplacedAmount),
		SupplyChange:    uint64(operation.SupplyChange),
		Closes:          outPointDtoFrom(operation.Closes),
		Seal:            optionalOutPointDto(operation.Seal),
		IsFinal:         operation.IsFinal(),
		WitnessTxHash:   operation.Witness.String(),
	}
}

type epochResult struct {
	NodeId        string       `json:"nodeId"`
	ContractId    string       `json:"contractId"`
	No            uint64       `json:"no"`
	Closes        outPointDto  `json:"closes"`
	EpochSeal     *outPointDto `json:"epochSeal"`
	Seal          *outPointDto `json:"seal"`
	IsFinal       bool         `json:"isFinal"`
	IsUnlocked    bool         `json:"isUnlocked"`
	Operations    []burnResult `json:"operations"`
	WitnessTxHash string       `json:"witnessTxHash"`
}

func epochResultFrom(epoch asset.Epoch) epochResult {
	return epochResult{
		NodeId:     epoch.NodeId.String(),
		ContractId: epoch.ContractId.String(),
		No:         epoch.No,
		Closes:     outPointDtoFrom(epoch.Closes),
		EpochSeal:  optionalOutPointDto(epoch.EpochSeal),
		Seal:       optionalOutPointDto(epoch.Seal),
		IsFinal:    epoch.IsFinal(),
		IsUnlocked: epoch.IsUnlocked(),
		Operations: lo.Map(epoch.KnownOperations, func(operation asset.BurnReplace, _ int) burnResult {
			return burnResultFrom(operation)
		}),
		WitnessTxHash: epoch.Witness.String(),
	}
}
