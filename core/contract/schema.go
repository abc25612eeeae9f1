package contract

import "math"

// AtomicValue is an amount expressed in the smallest indivisible unit of an
// asset.
type AtomicValue uint64

// MaxAtomicValue is the de facto issue limit for assets without a declared cap.
const MaxAtomicValue AtomicValue = math.MaxUint64

// FieldType tags a metadata field of an operation. Values are opaque schema
// constants; the indexer never interprets them beyond equality.
type FieldType uint16

const (
	FieldTypeTicker       FieldType = 0
	FieldTypeName         FieldType = 1
	FieldTypePrecision    FieldType = 3
	FieldTypeTimestamp    FieldType = 4
	FieldTypeIssuedSupply FieldType = 160
	FieldTypeBurnedSupply FieldType = 161
)

// RightType tags a category of owned rights assigned by an operation.
type RightType uint16

const (
	RightTypeInflation   RightType = 1
	RightTypeAsset       RightType = 2
	RightTypeOpenEpoch   RightType = 3
	RightTypeBurnReplace RightType = 4
)

// TransitionType is the declared subtype of a state transition.
type TransitionType uint16

const (
	TransitionTypeIssue          TransitionType = 0
	TransitionTypeTransfer       TransitionType = 1
	TransitionTypeEpoch          TransitionType = 2
	TransitionTypeBurn           TransitionType = 3
	TransitionTypeBurnAndReplace TransitionType = 4
)

// Metadata holds the typed metadata fields of an operation, keyed by field
// type. Multiple values per field are allowed by the encoding; schema
// requirements that expect a single value read the first one.
type Metadata struct {
	U64 map[FieldType][]uint64 `json:"u64,omitempty"`
	Str map[FieldType][]string `json:"str,omitempty"`
}

// FirstU64 returns the first u64 value of the given field, if present.
func (m Metadata) FirstU64(field FieldType) (uint64, bool) {
	values := m.U64[field]
	if len(values) == 0 {
		return 0, false
	}
	return values[0], true
}

// FirstStr returns the first string value of the given field, if present.
func (m Metadata) FirstStr(field FieldType) (string, bool) {
	values := m.Str[field]
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}
