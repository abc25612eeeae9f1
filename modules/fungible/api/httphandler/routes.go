package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/v1/fungible")

	r.Get("/contracts", h.GetContracts)
	r.Get("/contracts/:contractId", h.GetContract)
	r.Get("/supply/:contractId", h.GetSupply)
	r.Get("/issues/:contractId", h.GetIssues)
	r.Get("/epochs/:contractId", h.GetEpochs)

	r.Post("/genesis", h.IndexGenesis)
	r.Post("/issues", h.IndexIssuance)
	r.Post("/epochs", h.IndexEpoch)
	r.Post("/burns", h.IndexBurn)
	r.Put("/supply/:contractId/knowledge", h.AssessSupply)
	return nil
}
