package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/veriseal-network/supply-indexer/common/errs"
	"github.com/veriseal-network/supply-indexer/core/contract"
	"github.com/veriseal-network/supply-indexer/modules/fungible/asset"
)

type getEpochsRequest struct {
	ContractId string `params:"contractId"`
}

func (r getEpochsRequest) Validate() error {
	var errList []error
	if _, err := contract.NewContractIdFromString(r.ContractId); err != nil {
		errList = append(errList, errors.Errorf("contractId '%s' is not a valid contract id", r.ContractId))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getEpochsResult struct {
	Epochs []epochResult `json:"epochs"`
}

type getEpochsResponse = HttpResponse[getEpochsResult]

func (h *HttpHandler) GetEpochs(ctx *fiber.Ctx) (err error) {
	var req getEpochsRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	contractId, _ := contract.NewContractIdFromString(req.ContractId)

	epochs, err := h.usecase.GetEpochs(ctx.UserContext(), contractId)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError("contract not found")
		}
		return errors.Wrap(err, "error during GetEpochs")
	}

	resp := getEpochsResponse{
		Result: &getEpochsResult{
			Epochs: lo.Map(epochs, func(epoch asset.Epoch, _ int) epochResult {
				return epochResultFrom(epoch)
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
