package asset

import (
	"github.com/cockroachdb/errors"
	"github.com/veriseal-network/supply-indexer/core/contract"
)

// SupplyMeasure selects which supply figure a caller is asking for. It is a
// pure dispatch key and carries no behavior of its own.
type SupplyMeasure uint8

const (
	// MeasureKnownCirculating is the supply known to be issued, minus all
	// known burns, plus known replacements.
	MeasureKnownCirculating SupplyMeasure = iota

	// MeasureTotalCirculating is the precise circulating supply; only
	// available when all supply-changing operations are known.
	MeasureTotalCirculating

	// MeasureIssueLimit is the maximum amount that could ever be issued:
	// genesis issuance plus all genesis-declared inflation allowances.
	MeasureIssueLimit
)

func (m SupplyMeasure) String() string {
	switch m {
	case MeasureKnownCirculating:
		return "knownCirculating"
	case MeasureTotalCirculating:
		return "totalCirculating"
	case MeasureIssueLimit:
		return "issueLimit"
	}
	return "unknown"
}

// NewSupplyMeasureFromString parses the string form produced by
// SupplyMeasure.String.
func NewSupplyMeasureFromString(s string) (SupplyMeasure, error) {
	switch s {
	case "knownCirculating":
		return MeasureKnownCirculating, nil
	case "totalCirculating":
		return MeasureTotalCirculating, nil
	case "issueLimit":
		return MeasureIssueLimit, nil
	}
	return 0, errors.Errorf("unknown supply measure %q", s)
}

// Knowledge states how far visibility into a contract's supply-changing
// operations has been assessed. The assessment itself needs blockchain
// scanning and is supplied by an external collaborator; this package only
// carries the result.
type Knowledge uint8

const (
	// KnowledgeUnassessed means visibility was never assessed: the commitment
	// medium has not been scanned for closed seals, so it is unknown whether
	// the record set is complete.
	KnowledgeUnassessed Knowledge = iota

	// KnowledgeIncomplete means the assessment found supply-changing
	// operations for which no client-validated data is available.
	KnowledgeIncomplete

	// KnowledgeComplete means the record set is known to be exhaustive and the
	// known circulating supply equals the true circulating supply.
	KnowledgeComplete
)

func (k Knowledge) String() string {
	switch k {
	case KnowledgeIncomplete:
		return "incomplete"
	case KnowledgeComplete:
		return "complete"
	}
	return "unassessed"
}

func NewKnowledgeFromString(s string) (Knowledge, error) {
	switch s {
	case "unassessed":
		return KnowledgeUnassessed, nil
	case "incomplete":
		return KnowledgeIncomplete, nil
	case "complete":
		return KnowledgeComplete, nil
	}
	return 0, errors.Errorf("unknown knowledge state %q", s)
}

// NewKnowledgeFromNullableBool maps the nullable-boolean storage form back to
// the tri-state: nil = unassessed, false = incomplete, true = complete.
func NewKnowledgeFromNullableBool(known *bool) Knowledge {
	switch {
	case known == nil:
		return KnowledgeUnassessed
	case *known:
		return KnowledgeComplete
	default:
		return KnowledgeIncomplete
	}
}

// NullableBool is the inverse of NewKnowledgeFromNullableBool.
func (k Knowledge) NullableBool() *bool {
	switch k {
	case KnowledgeIncomplete:
		known := false
		return &known
	case KnowledgeComplete:
		known := true
		return &known
	}
	return nil
}

// Supply is a point-in-time snapshot of a contract's supply state, derived
// from whatever contract data the indexer has seen. It is never updated in
// place; a new snapshot is computed when the underlying history grows.
type Supply struct {
	// KnownCirculating is the sum of known issuances minus the net effect of
	// known burn/replace operations.
	KnownCirculating contract.AtomicValue

	// Knowledge states whether KnownCirculating covers every supply-changing
	// operation of the contract.
	Knowledge Knowledge

	// IssueLimit is the maximum supply that might ever be issued. Assets
	// without a declared cap are capped by the representable maximum.
	IssueLimit contract.AtomicValue
}

// TotalCirculating returns the precise circulating supply. It is only
// available when the record set is known to be complete.
func (s Supply) TotalCirculating() (contract.AtomicValue, bool) {
	if s.Knowledge != KnowledgeComplete {
		return 0, false
	}
	return s.KnownCirculating, true
}

// Figure returns the requested supply figure. The boolean is false when the
// figure is not determinable from the current knowledge state.
func (s Supply) Figure(measure SupplyMeasure) (contract.AtomicValue, bool) {
	switch measure {
	case MeasureKnownCirculating:
		return s.KnownCirculating, true
	case MeasureTotalCirculating:
		return s.TotalCirculating()
	case MeasureIssueLimit:
		return s.IssueLimit, true
	}
	return 0, false
}
