package bazaar

import (
	"context"
	"strconv"

	"github.com/PinoyQ8/trust-bazaar/internal/host"
)

// DepositCrowdfund burns funds from the caller and credits the pooled
// crowdfund balance.
func (c *Core) DepositCrowdfund(ctx context.Context, caller host.Principal, amount uint64) error {
	if err := c.authorize(ctx, caller); err != nil {
		return err
	}
	if err := c.gate(ctx); err != nil {
		return err
	}
	if err := c.burn(ctx, caller, amount); err != nil {
		return err
	}
	pool, err := c.ledger.Crowdfund(ctx)
	if err != nil {
		return err
	}
	if err := c.ledger.PutCrowdfund(ctx, pool+amount); err != nil {
		return err
	}
	c.publish(ctx, "crowdfund.deposit", []host.Principal{caller}, map[string]string{
		"amount": strconv.FormatUint(amount, 10),
	})
	return nil
}

// CrowdfundBalance returns the pooled crowdfund balance.
func (c *Core) CrowdfundBalance(ctx context.Context) (uint64, error) {
	return c.ledger.Crowdfund(ctx)
}
