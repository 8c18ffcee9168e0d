package cpu

import "errors"

// Sentinel errors for errors.Is matching by callers (the CLI collaborator,
// IOFailure-wrapping host callbacks) per the taxonomy this emulator exposes.
var (
	ErrOutOfBounds          = errors.New("cpu: address out of bounds")
	ErrImageTooLarge        = errors.New("cpu: ROM image exceeds 65536 bytes")
	ErrInvalidArgument      = errors.New("cpu: invalid argument")
	ErrUnhandledInstruction = errors.New("cpu: unhandled instruction")
	ErrIOFailure            = errors.New("cpu: I/O port callback failed")
)
