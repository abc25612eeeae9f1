package httphandler

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/veriseal-network/supply-indexer/common/errs"
	"github.com/veriseal-network/supply-indexer/core/contract"
	"github.com/veriseal-network/supply-indexer/modules/fungible/asset"
)

type indexIssuanceRequest struct {
	NodeId               string               `json:"nodeId"`
	ContractId           string               `json:"contractId"`
	IssuedSupply         uint64               `json:"issuedSupply"`
	Closes               []outPointDto        `json:"closes"`
	InflationAssignments []valueAssignmentDto `json:"inflationAssignments"`
	WitnessTxHash        string               `json:"witnessTxHash"`
}

func (r indexIssuanceRequest) Validate() error {
	var errList []error
	if _, err := contract.NewNodeIdFromString(r.NodeId); err != nil {
		errList = append(errList, errors.Errorf("nodeId '%s' is not a valid node id", r.NodeId))
	}
	if _, err := contract.NewContractIdFromString(r.ContractId); err != nil {
		errList = append(errList, errors.Errorf("contractId '%s' is not a valid contract id", r.ContractId))
	}
	if _, err := chainhash.NewHashFromStr(r.WitnessTxHash); err != nil {
		errList = append(errList, errors.Errorf("witnessTxHash '%s' is not a valid tx hash", r.WitnessTxHash))
	}
	if len(r.Closes) == 0 {
		errList = append(errList, errors.New("an issuance must close at least one inflation seal"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (r indexIssuanceRequest) ToTransition() (*contract.Transition, []wire.OutPoint, chainhash.Hash, error) {
	nodeId, err := contract.NewNodeIdFromString(r.NodeId)
	if err != nil {
		return nil, nil, chainhash.Hash{}, errors.WithStack(err)
	}
	witness, err := chainhash.NewHashFromStr(r.WitnessTxHash)
	if err != nil {
		return nil, nil, chainhash.Hash{}, errors.WithStack(err)
	}
	closes := make([]wire.OutPoint, 0, len(r.Closes))
	for _, dto := range r.Closes {
		outPoint, err := dto.ToOutPoint()
		if err != nil {
			return nil, nil, chainhash.Hash{}, errors.WithStack(err)
		}
		closes = append(closes, outPoint)
	}
	assignments, err := toValueAssignments(r.InflationAssignments)
	if err != nil {
		return nil, nil, chainhash.Hash{}, errors.WithStack(err)
	}

	transition := &contract.Transition{
		NodeId: nodeId,
		Type:   contract.TransitionTypeIssue,
		Metadata: contract.Metadata{
			U64: map[contract.FieldType][]uint64{
				contract.FieldTypeIssuedSupply: {r.IssuedSupply},
			},
		},
	}
	if len(assignments) > 0 {
		transition.OwnedRights = map[contract.RightType][]contract.ValueAssignment{
			contract.RightTypeInflation: assignments,
		}
	}
	return transition, closes, *witness, nil
}

type indexIssuanceResponse = HttpResponse[issueResult]

func (h *HttpHandler) IndexIssuance(ctx *fiber.Ctx) (err error) {
	var req indexIssuanceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	transition, closes, witness, err := req.ToTransition()
	if err != nil {
		return errs.WithPublicMessage(err, "invalid issuance payload")
	}
	contractId, _ := contract.NewContractIdFromString(req.ContractId)

	issue, err := h.usecase.IndexIssuance(ctx.UserContext(), contractId, closes, transition, witness)
	if err != nil {
		switch {
		case errors.Is(err, errs.NotFound):
			return errs.NewPublicError("contract not found")
		case errors.Is(err, asset.ErrUnsatisfiedSchemaRequirement):
			return errs.WithPublicMessage(err, "transition does not satisfy the fungible asset schema")
		case errors.Is(err, asset.ErrInflationAssignmentConfidential):
			return errs.WithPublicMessage(err, "inflation assignments must be revealed")
		case errors.Is(err, errs.Duplicate):
			return errs.NewPublicError("issuance is already indexed")
		}
		return errors.Wrap(err, "error during IndexIssuance")
	}

	resp := indexIssuanceResponse{Result: lo.ToPtr(issueResultFrom(*issue))}
	return errors.WithStack(ctx.Status(fiber.StatusCreated).JSON(resp))
}
