package errs

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// NotFound is returned when a requested record is not found.
	NotFound        = ErrorKind("Not Found")
	Duplicate       = ErrorKind("Duplicate")
	InvalidArgument = ErrorKind("Invalid Argument")
	Unsupported     = ErrorKind("Unsupported")
	OverflowUint64  = ErrorKind("overflow uint64")
	UnderflowUint64 = ErrorKind("underflow uint64")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}
