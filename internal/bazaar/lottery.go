package bazaar

import (
	"context"
	"strconv"

	"github.com/PinoyQ8/trust-bazaar/internal/host"
)

// BuyTicket burns the ticket price and appends the caller to the pool once
// per ticket. A principal may hold several entries; odds scale with tickets.
func (c *Core) BuyTicket(ctx context.Context, caller host.Principal) error {
	if err := c.authorize(ctx, caller); err != nil {
		return err
	}
	if err := c.gate(ctx); err != nil {
		return err
	}
	if err := c.burn(ctx, caller, TicketPrice); err != nil {
		return err
	}
	pool, err := c.ledger.LotteryPool(ctx)
	if err != nil {
		return err
	}
	return c.ledger.PutLotteryPool(ctx, append(pool, caller))
}

// RunLottery draws one uniform winner over ticket entries and repays the
// entire pool value to them, then clears the pool. Admin-only. Duplicate
// entries raise a principal's odds proportionally; that is the design, not
// an accident.
func (c *Core) RunLottery(ctx context.Context, caller host.Principal) (host.Principal, error) {
	if err := c.requireAdmin(ctx, caller); err != nil {
		return "", err
	}
	if err := c.gate(ctx); err != nil {
		return "", err
	}
	pool, err := c.ledger.LotteryPool(ctx)
	if err != nil {
		return "", err
	}
	if len(pool) == 0 {
		return "", ErrNoParticipants
	}

	winner := pool[c.random.IntN(len(pool))]
	prize := uint64(len(pool)) * TicketPrice
	if err := c.mint(ctx, winner, prize); err != nil {
		return "", err
	}
	if err := c.ledger.ClearLotteryPool(ctx); err != nil {
		return "", err
	}
	c.publish(ctx, "lottery.win", []host.Principal{winner}, map[string]string{
		"prize":   strconv.FormatUint(prize, 10),
		"tickets": strconv.Itoa(len(pool)),
	})
	return winner, nil
}

// LotteryInfo returns the number of tickets currently in the pool.
func (c *Core) LotteryInfo(ctx context.Context) (int, error) {
	pool, err := c.ledger.LotteryPool(ctx)
	if err != nil {
		return 0, err
	}
	return len(pool), nil
}
