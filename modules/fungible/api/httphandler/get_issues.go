package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/veriseal-network/supply-indexer/common/errs"
	"github.com/veriseal-network/supply-indexer/core/contract"
	"github.com/veriseal-network/supply-indexer/modules/fungible/asset"
)

type getIssuesRequest struct {
	ContractId string `params:"contractId"`
}

func (r getIssuesRequest) Validate() error {
	var errList []error
	if _, err := contract.NewContractIdFromString(r.ContractId); err != nil {
		errList = append(errList, errors.Errorf("contractId '%s' is not a valid contract id", r.ContractId))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getIssuesResult struct {
	Issues []issueResult `json:"issues"`
}

type getIssuesResponse = HttpResponse[getIssuesResult]

func (h *HttpHandler) GetIssues(ctx *fiber.Ctx) (err error) {
	var req getIssuesRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	contractId, _ := contract.NewContractIdFromString(req.ContractId)

	issues, err := h.usecase.GetIssues(ctx.UserContext(), contractId)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError("contract not found")
		}
		return errors.Wrap(err, "error during GetIssues")
	}

	resp := getIssuesResponse{
		Result: &getIssuesResult{
			Issues: lo.Map(issues, func(issue asset.Issue, _ int) issueResult {
				return issueResultFrom(issue)
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
