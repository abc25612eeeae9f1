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

type indexEpochRequest struct {
	NodeId        string      `json:"nodeId"`
	ContractId    string      `json:"contractId"`
	No            uint64      `json:"no"`
	Closes        outPointDto `json:"closes"`
	EpochSeal     *sealDto    `json:"epochSeal"`
	BurnSeal      *sealDto    `json:"burnSeal"`
	WitnessTxHash string      `json:"witnessTxHash"`
}

func (r indexEpochRequest) Validate() error {
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
	if r.No == 0 {
		errList = append(errList, errors.New("'no' must be positive, there is no epoch zero"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (r indexEpochRequest) ToTransition() (*contract.Transition, wire.OutPoint, chainhash.Hash, error) {
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

	ownedRights := make(map[contract.RightType][]contract.ValueAssignment)
	if r.EpochSeal != nil {
		seal, err := r.EpochSeal.ToSealReveal()
		if err != nil {
			return nil, wire.OutPoint{}, chainhash.Hash{}, errors.WithStack(err)
		}
		ownedRights[contract.RightTypeOpenEpoch] = []contract.ValueAssignment{{Seal: seal}}
	}
	if r.BurnSeal != nil {
		seal, err := r.BurnSeal.ToSealReveal()
		if err != nil {
			return nil, wire.OutPoint{}, chainhash.Hash{}, errors.WithStack(err)
		}
		ownedRights[contract.RightTypeBurnReplace] = []contract.ValueAssignment{{Seal: seal}}
	}

	transition := &contract.Transition{
		NodeId: nodeId,
		Type:   contract.TransitionTypeEpoch,
	}
	if len(ownedRights) > 0 {
		transition.OwnedRights = ownedRights
	}
	return transition, closes, *witness, nil
}

type indexEpochResponse = HttpResponse[epochResult]

func (h *HttpHandler) IndexEpoch(ctx *fiber.Ctx) (err error) {
	var req indexEpochRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	transition, closes, witness, err := req.ToTransition()
	if err != nil {
		return errs.WithPublicMessage(err, "invalid epoch payload")
	}
	contractId, _ := contract.NewContractIdFromString(req.ContractId)

	epoch, err := h.usecase.IndexEpoch(ctx.UserContext(), contractId, req.No, closes, transition, witness)
	if err != nil {
		switch {
		case errors.Is(err, errs.NotFound):
			return errs.NewPublicError("contract not found")
		case errors.Is(err, asset.ErrEpochSealConfidential), errors.Is(err, asset.ErrBurnSealConfidential):
			return errs.WithPublicMessage(err, "epoch seals must be revealed")
		case errors.Is(err, errs.Duplicate):
			return errs.NewPublicError("epoch is already indexed")
		}
		return errors.Wrap(err, "error during IndexEpoch")
	}

	resp := indexEpochResponse{Result: lo.ToPtr(epochResultFrom(*epoch))}
	return errors.WithStack(ctx.Status(fiber.StatusCreated).JSON(resp))
}
