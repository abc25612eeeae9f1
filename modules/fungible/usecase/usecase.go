package usecase

import (
	"github.com/veriseal-network/supply-indexer/modules/fungible/datagateway"
)

type Usecase struct {
	fungibleDg datagateway.FungibleDataGateway
}

func New(fungibleDg datagateway.FungibleDataGateway) *Usecase {
	return &Usecase{
		fungibleDg: fungibleDg,
	}
}
