package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/veriseal-network/supply-indexer/common/errs"
	"github.com/veriseal-network/supply-indexer/core/contract"
	"github.com/veriseal-network/supply-indexer/modules/fungible/asset"
)

type getSupplyRequest struct {
	ContractId string `params:"contractId"`
	Measure    string `query:"measure"`
}

func (r getSupplyRequest) Validate() error {
	var errList []error
	if _, err := contract.NewContractIdFromString(r.ContractId); err != nil {
		errList = append(errList, errors.Errorf("contractId '%s' is not a valid contract id", r.ContractId))
	}
	if r.Measure != "" {
		if _, err := asset.NewSupplyMeasureFromString(r.Measure); err != nil {
			errList = append(errList, errors.Errorf("measure '%s' is not a valid supply measure", r.Measure))
		}
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getSupplyResult struct {
	ContractId       string  `json:"contractId"`
	Knowledge        string  `json:"knowledge"`
	KnownCirculating uint64  `json:"knownCirculating"`
	TotalCirculating *uint64 `json:"totalCirculating"`
	IssueLimit       uint64  `json:"issueLimit"`

	// Measure and Amount are only set when a specific measure was requested.
	Measure *string `json:"measure,omitempty"`
	Amount  *uint64 `json:"amount,omitempty"`
}

type getSupplyResponse = HttpResponse[getSupplyResult]

func (h *HttpHandler) GetSupply(ctx *fiber.Ctx) (err error) {
	var req getSupplyRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	contractId, _ := contract.NewContractIdFromString(req.ContractId)

	supply, err := h.usecase.GetSupply(ctx.UserContext(), contractId)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError("contract not found")
		}
		return errors.Wrap(err, "error during GetSupply")
	}

	var total *uint64
	if totalCirculating, ok := supply.TotalCirculating(); ok {
		total = lo.ToPtr(uint64(totalCirculating))
	}
	result := getSupplyResult{
		ContractId:       req.ContractId,
		Knowledge:        supply.Knowledge.String(),
		KnownCirculating: uint64(supply.KnownCirculating),
		TotalCirculating: total,
		IssueLimit:       uint64(supply.IssueLimit),
	}
	if req.Measure != "" {
		measure, _ := asset.NewSupplyMeasureFromString(req.Measure)
		amount, ok := supply.Figure(measure)
		if !ok {
			return errs.NewPublicError("requested supply figure is not determinable without complete supply knowledge")
		}
		result.Measure = lo.ToPtr(measure.String())
		result.Amount = lo.ToPtr(uint64(amount))
	}

	resp := getSupplyResponse{Result: &result}
	return errors.WithStack(ctx.JSON(resp))
}
