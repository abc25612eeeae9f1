package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/veriseal-network/supply-indexer/common/errs"
	"github.com/veriseal-network/supply-indexer/core/contract"
	"github.com/veriseal-network/supply-indexer/modules/fungible/asset"
)

type indexGenesisRequest struct {
	NodeId               string               `json:"nodeId"`
	ContractId           string               `json:"contractId"`
	Ticker               string               `json:"ticker"`
	Name                 string               `json:"name"`
	Precision            *uint64              `json:"precision"`
	IssuedSupply         uint64               `json:"issuedSupply"`
	InflationAssignments []valueAssignmentDto `json:"inflationAssignments"`
}

func (r indexGenesisRequest) Validate() error {
	var errList []error
	if _, err := contract.NewNodeIdFromString(r.NodeId); err != nil {
		errList = append(errList, errors.Errorf("nodeId '%s' is not a valid node id", r.NodeId))
	}
	if _, err := contract.NewContractIdFromString(r.ContractId); err != nil {
		errList = append(errList, errors.Errorf("contractId '%s' is not a valid contract id", r.ContractId))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

// ToGenesis rebuilds the genesis operation the validation engine surfaced.
func (r indexGenesisRequest) ToGenesis() (*contract.Genesis, error) {
	nodeId, err := contract.NewNodeIdFromString(r.NodeId)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	contractId, err := contract.NewContractIdFromString(r.ContractId)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	assignments, err := toValueAssignments(r.InflationAssignments)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	metadata := contract.Metadata{
		U64: map[contract.FieldType][]uint64{
			contract.FieldTypeIssuedSupply: {r.IssuedSupply},
		},
		Str: map[contract.FieldType][]string{},
	}
	if r.Precision != nil {
		metadata.U64[contract.FieldTypePrecision] = []uint64{*r.Precision}
	}
	if r.Ticker != "" {
		metadata.Str[contract.FieldTypeTicker] = []string{r.Ticker}
	}
	if r.Name != "" {
		metadata.Str[contract.FieldTypeName] = []string{r.Name}
	}

	genesis := &contract.Genesis{
		NodeId:     nodeId,
		ContractId: contractId,
		Metadata:   metadata,
	}
	if len(assignments) > 0 {
		genesis.OwnedRights = map[contract.RightType][]contract.ValueAssignment{
			contract.RightTypeInflation: assignments,
		}
	}
	return genesis, nil
}

type indexGenesisResponse = HttpResponse[contractResult]

func (h *HttpHandler) IndexGenesis(ctx *fiber.Ctx) (err error) {
	var req indexGenesisRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	genesis, err := req.ToGenesis()
	if err != nil {
		return errs.WithPublicMessage(err, "invalid genesis payload")
	}

	contractEntry, err := h.usecase.IndexGenesis(ctx.UserContext(), genesis)
	if err != nil {
		switch {
		case errors.Is(err, asset.ErrUnsatisfiedSchemaRequirement):
			return errs.WithPublicMessage(err, "genesis does not satisfy the fungible asset schema")
		case errors.Is(err, asset.ErrInflationAssignmentConfidential):
			return errs.WithPublicMessage(err, "genesis inflation assignments must be revealed")
		case errors.Is(err, contract.ErrSealRequiresWitness):
			return errs.WithPublicMessage(err, "genesis seals must carry an explicit txid")
		case errors.Is(err, errs.Duplicate):
			return errs.NewPublicError("contract is already indexed")
		}
		return errors.Wrap(err, "error during IndexGenesis")
	}

	resp := indexGenesisResponse{Result: lo.ToPtr(contractResultFrom(contractEntry))}
	return errors.WithStack(ctx.Status(fiber.StatusCreated).JSON(resp))
}
