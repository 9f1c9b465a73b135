package bazaar

import (
	"context"
	"strconv"

	"github.com/PinoyQ8/trust-bazaar/internal/host"
)

// Subscribe burns the subscription cost and extends the caller's entitlement
// window. Renewing before expiry extends from the current expiry, so no
// granted time is lost; renewing after expiry starts fresh from now.
func (c *Core) Subscribe(ctx context.Context, caller host.Principal) error {
	if err := c.authorize(ctx, caller); err != nil {
		return err
	}
	if err := c.gate(ctx); err != nil {
		return err
	}
	if err := c.burn(ctx, caller, SubscriptionCost); err != nil {
		return err
	}
	expiry, err := c.ledger.Subscription(ctx, caller)
	if err != nil {
		return err
	}
	now := c.clock.Now()
	base := now
	if expiry > now {
		base = expiry
	}
	newExpiry := base + SubscriptionTermSeconds
	if err := c.ledger.PutSubscription(ctx, caller, newExpiry); err != nil {
		return err
	}
	c.publish(ctx, "subscription.renew", []host.Principal{caller}, map[string]string{
		"expires_at": strconv.FormatUint(newExpiry, 10),
	})
	return nil
}

// IsSubscribed reports whether p's entitlement window is still open.
func (c *Core) IsSubscribed(ctx context.Context, p host.Principal) (bool, error) {
	expiry, err := c.ledger.Subscription(ctx, p)
	if err != nil {
		return false, err
	}
	return expiry > c.clock.Now(), nil
}
