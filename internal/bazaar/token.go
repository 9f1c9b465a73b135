package bazaar

import (
	"context"
	"strconv"

	"github.com/PinoyQ8/trust-bazaar/internal/host"
)

// mint credits amount to p. Only reward-paying flows call it; there is no
// public mint entry point.
func (c *Core) mint(ctx context.Context, p host.Principal, amount uint64) error {
	balance, err := c.ledger.Balance(ctx, p)
	if err != nil {
		return err
	}
	return c.ledger.PutBalance(ctx, p, balance+amount)
}

// burn debits amount from p, failing when the balance cannot cover it.
func (c *Core) burn(ctx context.Context, p host.Principal, amount uint64) error {
	balance, err := c.ledger.Balance(ctx, p)
	if err != nil {
		return err
	}
	if balance < amount {
		return ErrInsufficientBalance
	}
	return c.ledger.PutBalance(ctx, p, balance-amount)
}

// Transfer moves amount from one principal to another. It requires the
// sender's authorization and conserves total supply.
func (c *Core) Transfer(ctx context.Context, from, to host.Principal, amount uint64) error {
	if err := c.authorize(ctx, from); err != nil {
		return err
	}
	if err := c.gate(ctx); err != nil {
		return err
	}
	if to == "" {
		return ErrInvalidPrincipal
	}
	fromBalance, err := c.ledger.Balance(ctx, from)
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return ErrInsufficientBalance
	}
	// A self-transfer conserves supply trivially; skip the writes so the
	// two balance updates cannot double-apply.
	if from == to {
		return nil
	}
	toBalance, err := c.ledger.Balance(ctx, to)
	if err != nil {
		return err
	}
	if err := c.ledger.PutBalance(ctx, from, fromBalance-amount); err != nil {
		return err
	}
	if err := c.ledger.PutBalance(ctx, to, toBalance+amount); err != nil {
		return err
	}
	c.publish(ctx, "bzr.transfer", []host.Principal{from, to}, map[string]string{
		"amount": strconv.FormatUint(amount, 10),
	})
	return nil
}

// BalanceOf returns p's BZR balance, zero for unknown principals.
func (c *Core) BalanceOf(ctx context.Context, p host.Principal) (uint64, error) {
	return c.ledger.Balance(ctx, p)
}
