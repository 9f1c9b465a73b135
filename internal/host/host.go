// Package host defines the capability contracts the replicated ledger host
// supplies to the bazaar core: caller authorization, a logical clock, and a
// deterministic pseudo-random source.
//
// The core never reaches for ambient time or randomness; every capability is
// injected so state transitions stay pure and independently testable.
package host

import "context"

// Principal identifies an account issued by the host's access layer.
// The core uses it only as an opaque map key.
type Principal string

// Access reports whether a caller has cryptographically proven control of a
// principal. Implementations live in the access subpackage.
type Access interface {
	// Authorize returns nil when the calling context has proven control of
	// p, and an UNAUTHORIZED domain error otherwise.
	Authorize(ctx context.Context, p Principal) error
}

// Clock supplies the host's logical time as whole seconds. Values are
// non-decreasing across calls.
type Clock interface {
	Now() uint64
}

// Random supplies uniformly distributed integers from the host's
// deterministic pseudo-random source.
type Random interface {
	// IntN returns a uniform integer in [0, n). It panics when n <= 0,
	// mirroring math/rand; callers guard the empty case first.
	IntN(n int) int
}
