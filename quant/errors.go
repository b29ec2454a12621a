package quant

import "errors"

var (
	// ErrUnknownScheme is returned for scheme values or names outside the declared set.
	ErrUnknownScheme = errors.New("quant: unknown scheme")
	// ErrUndefinedTransition is returned when a quantized scheme is switched back to Undefined.
	ErrUndefinedTransition = errors.New("quant: cannot return to undefined scheme")
)
