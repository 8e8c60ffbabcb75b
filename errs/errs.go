// Package errs defines the sentinel errors returned by chaoscodec packages.
//
// Callers should match errors with errors.Is; most errors returned by the
// codec wrap one of these sentinels with additional context such as the
// sample index or the offending size.
package errs

import "errors"

// Input validation errors.
var (
	// ErrInvalidInput is the parent of every input validation failure.
	ErrInvalidInput = errors.New("invalid input")
	// ErrSignalTooShort is returned when a signal has fewer than three samples.
	ErrSignalTooShort = wrap(ErrInvalidInput, "signal must contain at least 3 samples")
	// ErrNonFiniteSample is returned when a signal contains NaN or ±Inf.
	ErrNonFiniteSample = wrap(ErrInvalidInput, "signal contains a non-finite sample")
	// ErrLengthMismatch is returned when two index-aligned series differ in length.
	ErrLengthMismatch = wrap(ErrInvalidInput, "series length mismatch")
	// ErrFeatureWidth is returned when a model's coefficient count does not match its feature width.
	ErrFeatureWidth = wrap(ErrInvalidInput, "coefficient count does not match feature width")
)

// Configuration errors.
var (
	ErrInvalidScale       = errors.New("quantization scale must be finite and positive")
	ErrInvalidPrecision   = errors.New("invalid parameter precision")
	ErrInvalidCompression = errors.New("invalid compression type")
	ErrInvalidMirrorMode  = errors.New("invalid mirror source")
)

// Pipeline errors.
var (
	// ErrNumericalDivergence is returned when the autoregressive reconstruction
	// produces a non-finite value. It is never clamped away.
	ErrNumericalDivergence = errors.New("numerical divergence during reconstruction")
	// ErrReferenceRequired is returned by the decoder when the mirror stage was
	// trained on the original signal and no reference signal was supplied.
	ErrReferenceRequired = errors.New("decoder requires the original signal as mirror reference")
)

// Payload and container errors.
var (
	// ErrPayloadCorrupt is returned when a payload block fails to decompress or
	// does not have the fixed record shape.
	ErrPayloadCorrupt = errors.New("payload corrupt")
	// ErrInvalidHeader is returned when a container header has a bad magic number,
	// an unsupported version or unknown flag values.
	ErrInvalidHeader = errors.New("invalid container header")
	// ErrChecksumMismatch is returned when the container checksum does not match its blocks.
	ErrChecksumMismatch = errors.New("container checksum mismatch")
)

type wrappedError struct {
	parent error
	msg    string
}

func wrap(parent error, msg string) error {
	return &wrappedError{parent: parent, msg: msg}
}

func (e *wrappedError) Error() string { return e.msg }

func (e *wrappedError) Unwrap() error { return e.parent }
