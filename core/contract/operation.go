package contract

// Genesis is the contract-defining operation, as surfaced by the validation
// engine after commitment and schema checks. The indexer treats it as already
// valid and only extracts data from it.
type Genesis struct {
	NodeId      NodeId                          `json:"nodeId"`
	ContractId  ContractId                      `json:"contractId"`
	Metadata    Metadata                        `json:"metadata"`
	OwnedRights map[RightType][]ValueAssignment `json:"ownedRights,omitempty"`
}

// Transition is a validated state transition. The contract it belongs to is
// not part of the transition itself; callers carry it alongside.
type Transition struct {
	NodeId      NodeId                          `json:"nodeId"`
	Type        TransitionType                  `json:"type"`
	Metadata    Metadata                        `json:"metadata"`
	OwnedRights map[RightType][]ValueAssignment `json:"ownedRights,omitempty"`
}

// RevealedSeals returns the revealed seals assigned under the given right
// type, in encoding order.
func (g *Genesis) RevealedSeals(right RightType) ([]SealReveal, error) {
	return RevealedSeals(g.OwnedRights[right])
}

// RevealedValues returns the revealed (seal, amount) pairs assigned under the
// given right type, in encoding order.
func (g *Genesis) RevealedValues(right RightType) ([]RevealedValue, error) {
	return RevealedValues(g.OwnedRights[right])
}

func (t *Transition) RevealedSeals(right RightType) ([]SealReveal, error) {
	return RevealedSeals(t.OwnedRights[right])
}

func (t *Transition) RevealedValues(right RightType) ([]RevealedValue, error) {
	return RevealedValues(t.OwnedRights[right])
}
