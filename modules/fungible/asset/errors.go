package asset

import "github.com/cockroachdb/errors"

// Extraction errors. All of them are data-integrity failures on operations the
// validation engine already accepted: the caller decides whether to skip the
// record or abort the whole supply computation. Nothing here is retried.
var (
	// ErrUnsatisfiedSchemaRequirement is returned when an operation is missing
	// a metadata field its type must structurally carry.
	ErrUnsatisfiedSchemaRequirement = errors.New("operation is missing a schema-required metadata field")

	// ErrInflationAssignmentConfidential is returned when an inflation right
	// expected to be revealed is still blinded. Supply accounting needs the
	// revealed seal and amount.
	ErrInflationAssignmentConfidential = errors.New("inflation assignment is confidential")

	// ErrEpochSealConfidential is returned when an epoch-opening seal is
	// expected revealed but is blinded.
	ErrEpochSealConfidential = errors.New("epoch-opening seal is confidential")

	// ErrBurnSealConfidential is returned when a burn/replace-enabling seal is
	// expected revealed but is blinded.
	ErrBurnSealConfidential = errors.New("burn/replace seal is confidential")

	// ErrReplaceExceedsBurn is returned when a burn & replace operation
	// declares a replaced amount larger than its burned amount. A conforming
	// operation never does; the guard keeps the supply delta from
	// underflowing.
	ErrReplaceExceedsBurn = errors.New("replaced amount exceeds burned amount")
)
