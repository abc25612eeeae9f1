package entity

import (
	"time"

	"github.com/veriseal-network/supply-indexer/core/contract"
	"github.com/veriseal-network/supply-indexer/modules/fungible/asset"
)

// Contract is the indexed view of an asset contract: the genesis-declared
// nomination fields plus the latest supply-knowledge assessment recorded for
// it.
type Contract struct {
	ContractId contract.ContractId
	Ticker     string
	Name       string
	Precision  uint8
	// SupplyKnowledge is the latest completeness assessment supplied by the
	// seal-scanning collaborator. Unassessed until one is recorded.
	SupplyKnowledge asset.Knowledge
	CreatedAt       time.Time
}
