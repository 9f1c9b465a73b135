package bazaar

import (
	"context"
	"strconv"

	"github.com/PinoyQ8/trust-bazaar/internal/bazaar/state"
	"github.com/PinoyQ8/trust-bazaar/internal/host"
)

// CreateEscrow opens a two-party conditional settlement. The buyer is debited
// the moment the record is created; funds stay recorded as a liability on the
// escrow record until dual approval releases them to the seller. There is no
// cancellation path, so the buyer bears custody risk until settlement.
func (c *Core) CreateEscrow(ctx context.Context, buyer, seller host.Principal, amount uint64) (uint64, error) {
	if err := c.authorize(ctx, buyer); err != nil {
		return 0, err
	}
	if err := c.gate(ctx); err != nil {
		return 0, err
	}
	if seller == "" {
		return 0, ErrInvalidPrincipal
	}
	if err := c.burn(ctx, buyer, amount); err != nil {
		return 0, err
	}
	id, err := c.ledger.NextEscrowID(ctx)
	if err != nil {
		return 0, err
	}
	escrow := state.Escrow{
		ID:     id,
		Buyer:  buyer,
		Seller: seller,
		Amount: amount,
	}
	if err := c.ledger.PutEscrow(ctx, escrow); err != nil {
		return 0, err
	}
	c.publish(ctx, "escrow.create", []host.Principal{buyer, seller}, map[string]string{
		"escrow_id": strconv.FormatUint(id, 10),
		"amount":    strconv.FormatUint(amount, 10),
	})
	return id, nil
}

// ApproveEscrow records one party's approval. Re-approving before the
// counterparty is an idempotent no-op. Dual approval settles exactly once:
// the seller is credited and the record is deleted, so any later approval
// fails with NotFound.
func (c *Core) ApproveEscrow(ctx context.Context, id uint64, caller host.Principal) error {
	if err := c.authorize(ctx, caller); err != nil {
		return err
	}
	if err := c.gate(ctx); err != nil {
		return err
	}
	escrow, err := c.ledger.Escrow(ctx, id)
	if err != nil {
		return notFound(err)
	}
	switch caller {
	case escrow.Buyer:
		escrow.BuyerOK = true
	case escrow.Seller:
		escrow.SellerOK = true
	default:
		return ErrUnauthorized
	}

	if !escrow.BuyerOK || !escrow.SellerOK {
		return c.ledger.PutEscrow(ctx, escrow)
	}

	// Dual approval: single irreversible transfer, then delete the record.
	if err := c.mint(ctx, escrow.Seller, escrow.Amount); err != nil {
		return err
	}
	if err := c.ledger.RemoveEscrow(ctx, id); err != nil {
		return err
	}
	c.publish(ctx, "escrow.release", []host.Principal{escrow.Buyer, escrow.Seller}, map[string]string{
		"escrow_id": strconv.FormatUint(id, 10),
		"amount":    strconv.FormatUint(escrow.Amount, 10),
	})
	return nil
}

// EscrowStatus returns the live flags for an open escrow. Settled escrows are
// deleted, so the call fails with NotFound after release.
func (c *Core) EscrowStatus(ctx context.Context, id uint64) (state.Escrow, error) {
	escrow, err := c.ledger.Escrow(ctx, id)
	if err != nil {
		return state.Escrow{}, notFound(err)
	}
	return escrow, nil
}
