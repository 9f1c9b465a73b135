// Package access provides host.Access implementations.
//
// Signature verification proper belongs to the host; these implementations
// cover the two deployments the repo ships: local operator tools (Static) and
// embedding hosts that hand the core a bearer token (JWT).
package access

import (
	"context"

	"github.com/PinoyQ8/trust-bazaar/internal/host"
	apperrors "github.com/PinoyQ8/trust-bazaar/internal/platform/errors"
)

// Static authorizes a fixed set of principals. The zero value authorizes
// nobody; AllowAll authorizes everyone.
type Static struct {
	allowAll   bool
	principals map[host.Principal]struct{}
}

// AllowAll returns an Access that authorizes every principal. Operator tools
// use it because the operator already holds the raw store files.
func AllowAll() *Static {
	return &Static{allowAll: true}
}

// Allow returns an Access that authorizes exactly the given principals.
func Allow(principals ...host.Principal) *Static {
	set := make(map[host.Principal]struct{}, len(principals))
	for _, p := range principals {
		set[p] = struct{}{}
	}
	return &Static{principals: set}
}

// Authorize implements host.Access.
func (s *Static) Authorize(_ context.Context, p host.Principal) error {
	if s == nil {
		return apperrors.New(apperrors.CodeUnauthorized, "access is not configured")
	}
	if s.allowAll {
		return nil
	}
	if _, ok := s.principals[p]; ok {
		return nil
	}
	return apperrors.WithMetadata(apperrors.CodeUnauthorized, "principal is not authorized", map[string]string{
		"Principal": string(p),
	})
}

var _ host.Access = (*Static)(nil)
