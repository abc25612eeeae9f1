package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/veriseal-network/supply-indexer/common/errs"
	"github.com/veriseal-network/supply-indexer/core/contract"
)

type getContractRequest struct {
	ContractId string `params:"contractId"`
}

func (r getContractRequest) Validate() error {
	var errList []error
	if _, err := contract.NewContractIdFromString(r.ContractId); err != nil {
		errList = append(errList, errors.Errorf("contractId '%s' is not a valid contract id", r.ContractId))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getContractResponse = HttpResponse[contractResult]

func (h *HttpHandler) GetContract(ctx *fiber.Ctx) (err error) {
	var req getContractRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	contractId, _ := contract.NewContractIdFromString(req.ContractId)

	contractEntry, err := h.usecase.GetContract(ctx.UserContext(), contractId)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError("contract not found")
		}
		return errors.Wrap(err, "error during GetContract")
	}

	resp := getContractResponse{Result: lo.ToPtr(contractResultFrom(contractEntry))}
	return errors.WithStack(ctx.JSON(resp))
}
