package api

import (
	"github.com/veriseal-network/supply-indexer/modules/fungible/api/httphandler"
	"github.com/veriseal-network/supply-indexer/modules/fungible/usecase"
)

func NewHTTPHandler(usecase *usecase.Usecase) *httphandler.HttpHandler {
	return httphandler.New(usecase)
}
