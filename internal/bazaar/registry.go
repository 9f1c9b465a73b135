package bazaar

import (
	"context"
	"strings"

	"github.com/PinoyQ8/trust-bazaar/internal/host"
	apperrors "github.com/PinoyQ8/trust-bazaar/internal/platform/errors"
)

// BuyBadge burns the badge price and grants the named badge to the caller.
// Buying a badge twice burns twice; ownership is a flag, not a count.
func (c *Core) BuyBadge(ctx context.Context, caller host.Principal, badge string) error {
	if err := c.authorize(ctx, caller); err != nil {
		return err
	}
	if err := c.gate(ctx); err != nil {
		return err
	}
	badge = strings.TrimSpace(badge)
	if badge == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "badge name is required")
	}
	if err := c.burn(ctx, caller, BadgeCost); err != nil {
		return err
	}
	if err := c.ledger.PutBadge(ctx, caller, badge); err != nil {
		return err
	}
	c.publish(ctx, "badge.buy", []host.Principal{caller}, map[string]string{
		"badge": badge,
	})
	return nil
}

// HasBadge reports whether p owns the named badge.
func (c *Core) HasBadge(ctx context.Context, p host.Principal, badge string) (bool, error) {
	return c.ledger.HasBadge(ctx, p, strings.TrimSpace(badge))
}

// RaiseDispute flags target as disputed on behalf of the accuser.
func (c *Core) RaiseDispute(ctx context.Context, accuser, target host.Principal) error {
	if err := c.authorize(ctx, accuser); err != nil {
		return err
	}
	if err := c.gate(ctx); err != nil {
		return err
	}
	if target == "" {
		return ErrInvalidPrincipal
	}
	if err := c.ledger.PutDispute(ctx, target); err != nil {
		return err
	}
	c.publish(ctx, "dispute.raise", []host.Principal{accuser, target}, nil)
	return nil
}

// ResolveDispute clears target's dispute flag. Admin-only.
func (c *Core) ResolveDispute(ctx context.Context, caller, target host.Principal) error {
	if err := c.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if err := c.gate(ctx); err != nil {
		return err
	}
	if err := c.ledger.RemoveDispute(ctx, target); err != nil {
		return err
	}
	c.publish(ctx, "dispute.resolve", []host.Principal{caller, target}, nil)
	return nil
}

// IsDisputed reports whether target is currently flagged.
func (c *Core) IsDisputed(ctx context.Context, target host.Principal) (bool, error) {
	return c.ledger.Disputed(ctx, target)
}

// SetNickname claims a display name for the caller and updates the reverse
// directory. Re-claiming releases the caller's previous name.
func (c *Core) SetNickname(ctx context.Context, caller host.Principal, name string) error {
	if err := c.authorize(ctx, caller); err != nil {
		return err
	}
	if err := c.gate(ctx); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "nickname is required")
	}
	return c.ledger.PutNickname(ctx, caller, name)
}

// GetNickname returns p's display name, "User" when never set.
func (c *Core) GetNickname(ctx context.Context, p host.Principal) (string, error) {
	return c.ledger.Nickname(ctx, p)
}

// LookupNickname resolves a display name to its owner.
func (c *Core) LookupNickname(ctx context.Context, name string) (host.Principal, bool, error) {
	return c.ledger.PrincipalByNickname(ctx, strings.TrimSpace(name))
}
