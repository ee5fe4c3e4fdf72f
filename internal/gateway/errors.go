package gateway

import "errors"

var (
	// ErrQuoteUnavailable marks a single symbol whose quote could not
	// be resolved. The symbol is skipped and reported for the cycle,
	// never defaulted to zero values.
	ErrQuoteUnavailable = errors.New("quote unavailable")

	// ErrGatewayUnavailable marks a whole-batch failure. The cycle is
	// aborted and the previously published result is retained.
	ErrGatewayUnavailable = errors.New("gateway unavailable")
)
