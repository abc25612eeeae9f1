package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/veriseal-network/supply-indexer/common/errs"
	"github.com/veriseal-network/supply-indexer/core/contract"
	"github.com/veriseal-network/supply-indexer/modules/fungible/asset"
)

type assessSupplyRequest struct {
	ContractId string `params:"contractId"`
	Knowledge  string `json:"knowledge"`
}

func (r assessSupplyRequest) Validate() error {
	var errList []error
	if _, err := contract.NewContractIdFromString(r.ContractId); err != nil {
		errList = append(errList, errors.Errorf("contractId '%s' is not a valid contract id", r.ContractId))
	}
	if _, err := asset.NewKnowledgeFromString(r.Knowledge); err != nil {
		errList = append(errList, errors.Errorf("knowledge '%s' is not a valid knowledge state", r.Knowledge))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type assessSupplyResult struct {
	ContractId string `json:"contractId"`
	Knowledge  string `json:"knowledge"`
}

type assessSupplyResponse = HttpResponse[assessSupplyResult]

func (h *HttpHandler) AssessSupply(ctx *fiber.Ctx) (err error) {
	var req assessSupplyRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	contractId, _ := contract.NewContractIdFromString(req.ContractId)
	knowledge, _ := asset.NewKnowledgeFromString(req.Knowledge)

	if err := h.usecase.AssessSupply(ctx.UserContext(), contractId, knowledge); err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError("contract not found")
		}
		return errors.Wrap(err, "error during AssessSupply")
	}

	resp := assessSupplyResponse{
		Result: lo.ToPtr(assessSupplyResult{
			ContractId: req.ContractId,
			Knowledge:  knowledge.String(),
		}),
	}
	return errors.WithStack(ctx.JSON(resp))
}
