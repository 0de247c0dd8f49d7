package rawimage

import "errors"

// Sentinel errors for the failure classes a raw decoder call site can
// run into. Call sites wrap these with fmt.Errorf("...: %w", ...) to
// add position/field context rather than inventing new error types.
var (
	// ErrValidation marks a request that is structurally invalid
	// before any bytes are even consumed (bad dimensions, bad cpp/bpp).
	ErrValidation = errors.New("rawimage: validation failed")

	// ErrMalformedInput marks bytes that were consumed but do not
	// decode to anything sensible (bad marker, bad tag, bad table).
	ErrMalformedInput = errors.New("rawimage: malformed input")

	// ErrUnexpectedEOF marks a stream that ran out of bytes mid-decode.
	ErrUnexpectedEOF = errors.New("rawimage: unexpected end of input")

	// ErrResourceExhaustion marks a request whose claimed size would
	// exceed a safety bound (image too large, too many bad pixels).
	ErrResourceExhaustion = errors.New("rawimage: resource exhaustion")
)
