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

type indexBurnRequest struct {
	NodeId         string      `json:"nodeId"`
	ContractId     string      `json:"contractId"`
	EpochId        string      `json:"epochId"`
	No             uint64      `json:"no"`
	Closes         outPointDto `json:"closes"`
	BurnedSupply   uint64      `json:"burnedSupply"`
	ReplacedSupply *uint64     `json:"replacedSupply"`
	NextSeal       *sealDto    `json:"nextSeal"`
	WitnessTxHash  string      `json:"witnessTxHash"`
}

func (r indexBurnRequest) Validate() error {
	var errList []error
	if _, err := contract.NewNodeIdFromString(r.NodeId); err != nil {
		errList = append(errList, errors.Errorf("nodeId '%s' is not a valid node id", r.NodeId))
	}
	if _, err := contract.NewContractIdFromString(r.ContractId); err != nil {
		errList = append(errList, errors.Errorf("contractId '%s' is not a valid contract id", r.ContractId))
	}
	if _, err := contract.NewNodeIdFromString(r.EpochId); err != nil {
		errList = append(errList, errors.Errorf("epochId '%s' is not a valid node id", r.EpochId))
	}
	if _, err := chainhash.NewHashFromStr(r.WitnessTxHash); err != nil {
		errList = append(errList, errors.Errorf("witnessTxHash '%s' is not a valid tx hash", r.WitnessTxHash))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (r indexBurnRequest) ToTransition() (*contract.Transition, wire.OutPoint, chainhash.Hash, error) {
	nodeId, err := contract.NewNodeIdFromString(r.NodeId)
	if err != nil {
		return nil, wire.OutPoint{}, chainhash.Hash{}, errors.WithStack(err)
	}
	witness, err := chainhash.NewHashFromStr(r.WitnessTxHash)
	if err != nil {
		return nil, wire.OutPoint{}, chainhash.Hash{}, errors.WithStack(err)
	}
	closes, err := r.Closes.ToOutPoint()
	if err != nil {
		return nil, wire.OutPoint{}, chainhash.Hash{}, errors.WithStack(err)
	}

	metadata := contract.Metadata{
		U64: map[contract.FieldType][]uint64{
			contract.FieldTypeBurnedSupply: {r.BurnedSupply},
		},
	}
	transitionType := contract.TransitionTypeBurn
	if r.ReplacedSupply != nil {
		transitionType = contract.TransitionTypeBurnAndReplace
		metadata.U64[contract.FieldTypeIssuedSupply] = []uint64{*r.ReplacedSupply}
	}

	transition := &contract.Transition{
		NodeId:   nodeId,
		Type:     transitionType,
		Metadata: metadata,
	}
	if r.NextSeal != nil {
		seal, err := r.NextSeal.ToSealReveal()
		if err != nil {
			return nil, wire.OutPoint{}, chainhash.Hash{}, errors.WithStack(err)
		}
		transition.OwnedRights = map[contract.RightType][]contract.ValueAssignment{
			contract.RightTypeBurnReplace: {{Seal: seal}},
		}
	}
	return transition, closes, *witness, nil
}

type indexBurnResponse = HttpResponse[burnResult]

func (h *HttpHandler) IndexBurn(ctx *fiber.Ctx) (err error) {
	var req indexBurnRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	transition, closes, witness, err := req.ToTransition()
	if err != nil {
		return errs.WithPublicMessage(err, "invalid burn payload")
	}
	contractId, _ := contract.NewContractIdFromString(req.ContractId)
	epochId, _ := contract.NewNodeIdFromString(req.EpochId)

	operation, err := h.usecase.IndexBurn(ctx.UserContext(), contractId, epochId, req.No, closes, transition, witness)
	if err != nil {
		switch {
		case errors.Is(err, errs.NotFound):
			return errs.NewPublicError("contract or epoch not found")
		case errors.Is(err, errs.InvalidArgument):
			return errs.WithPublicMessage(err, "invalid burn request")
		case errors.Is(err, asset.ErrUnsatisfiedSchemaRequirement):
			return errs.WithPublicMessage(err, "transition does not satisfy the fungible asset schema")
		case errors.Is(err, asset.ErrReplaceExceedsBurn):
			return errs.WithPublicMessage(err, "replaced supply cannot exceed burned supply")
		case errors.Is(err, asset.ErrBurnSealConfidential):
			return errs.WithPublicMessage(err, "burn seals must be revealed")
		case errors.Is(err, errs.Duplicate):
			return errs.NewPublicError("burn operation is already indexed")
		}
		return errors.Wrap(err, "error during IndexBurn")
	}

	resp := indexBurnResponse{Result: lo.ToPtr(burnResultFrom(*operation))}
	return errors.WithStack(ctx.Status(fiber.StatusCreated).JSON(resp))
}
