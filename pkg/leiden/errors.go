package leiden

import "errors"

// Sentinel errors returned by graph construction and Run. Callers can
// match them with errors.Is; the wrapped message carries the detail.
var (
	// ErrMalformedGraph indicates a negative or non-finite edge weight,
	// an out-of-range node index, or a graph with no nodes.
	ErrMalformedGraph = errors.New("leiden: malformed graph")

	// ErrInvalidParameter indicates an out-of-domain algorithm parameter
	// (non-positive resolution, negative randomness, zero max levels).
	ErrInvalidParameter = errors.New("leiden: invalid parameter")
)
