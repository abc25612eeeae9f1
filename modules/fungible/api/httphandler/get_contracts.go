package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/veriseal-network/supply-indexer/common/errs"
	"github.com/veriseal-network/supply-indexer/modules/fungible/internal/entity"
)

const (
	getContractsMaxLimit     = 1000
	getContractsDefaultLimit = 100
)

type getContractsRequest struct {
	Limit  int32 `query:"limit"`
	Offset int32 `query:"offset"`
}

func (r *getContractsRequest) Validate() error {
	var errList []error
	if r.Limit < 0 {
		errList = append(errList, errors.New("'limit' must be non-negative"))
	}
	if r.Limit > getContractsMaxLimit {
		errList = append(errList, errors.Errorf("'limit' cannot exceed %d", getContractsMaxLimit))
	}
	if r.Offset < 0 {
		errList = append(errList, errors.New("'offset' must be non-negative"))
	}
	if r.Limit == 0 {
		r.Limit = getContractsDefaultLimit
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getContractsResult struct {
	Contracts []contractResult `json:"contracts"`
}

type getContractsResponse = HttpResponse[getContractsResult]

func (h *HttpHandler) GetContracts(ctx *fiber.Ctx) (err error) {
	var req getContractsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	contractEntries, err := h.usecase.GetContracts(ctx.UserContext(), req.Limit, req.Offset)
	if err != nil {
		return errors.Wrap(err, "error during GetContracts")
	}

	resp := getContractsResponse{
		Result: &getContractsResult{
			Contracts: lo.Map(contractEntries, func(contractEntry *entity.Contract, _ int) contractResult {
				return contractResultFrom(contractEntry)
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
