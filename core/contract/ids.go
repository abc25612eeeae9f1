package contract

import (
	"encoding/hex"
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// NodeId is the identity of a contract operation (genesis or state
// transition). It is assigned by the validation engine and only ever
// compared by equality.
type NodeId [32]byte

// ContractId is the identity of a contract, derived from its genesis.
type ContractId [32]byte

func NewNodeIdFromString(s string) (NodeId, error) {
	var id NodeId
	if err := decodeId(id[:], s); err != nil {
		return NodeId{}, errors.Wrap(err, "cannot parse node id")
	}
	return id, nil
}

func NewContractIdFromString(s string) (ContractId, error) {
	var id ContractId
	if err := decodeId(id[:], s); err != nil {
		return ContractId{}, errors.Wrap(err, "cannot parse contract id")
	}
	return id, nil
}

func (id NodeId) String() string {
	return hex.EncodeToString(id[:])
}

func (id ContractId) String() string {
	return hex.EncodeToString(id[:])
}

func (id NodeId) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id *NodeId) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.WithStack(err)
	}
	parsed, err := NewNodeIdFromString(s)
	if err != nil {
		return errors.WithStack(err)
	}
	*id = parsed
	return nil
}

func (id ContractId) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id *ContractId) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.WithStack(err)
	}
	parsed, err := NewContractIdFromString(s)
	if err != nil {
		return errors.WithStack(err)
	}
	*id = parsed
	return nil
}

func decodeId(dst []byte, s string) error {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return errors.WithStack(err)
	}
	if len(raw) != len(dst) {
		return errors.Errorf("invalid id length: expected %d bytes, got %d", len(dst), len(raw))
	}
	copy(dst, raw)
	return nil
}
