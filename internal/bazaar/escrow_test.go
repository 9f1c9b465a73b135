package bazaar

import (
	"context"
	"errors"
	"testing"
)

func TestEscrowSettlement(t *testing.T) {
	c := newTestCore(t)
	ctx := context.Background()
	fund(t, c, "buyer", 100)

	id, err := c.CreateEscrow(ctx, "buyer", "seller", 50)
	if err != nil {
		t.Fatalf("create escrow: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected first escrow id 1, got %d", id)
	}
	buyerBalance, err := c.BalanceOf(ctx, "buyer")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if buyerBalance != 50 {
		t.Fatalf("expected buyer debited to 50, got %d", buyerBalance)
	}

	if err := c.ApproveEscrow(ctx, id, "buyer"); err != nil {
		t.Fatalf("buyer approve: %v", err)
	}
	escrow, err := c.EscrowStatus(ctx, id)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !escrow.BuyerOK || escrow.SellerOK {
		t.Fatalf("expected only buyer approval, got %+v", escrow)
	}
	sellerBalance, err := c.BalanceOf(ctx, "seller")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if sellerBalance != 0 {
		t.Fatalf("expected no payout before dual approval, got %d", sellerBalance)
	}

	if err := c.ApproveEscrow(ctx, id, "seller"); err != nil {
		t.Fatalf("seller approve: %v", err)
	}
	sellerBalance, err = c.BalanceOf(ctx, "seller")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if sellerBalance != 50 {
		t.Fatalf("expected seller credited 50, got %d", sellerBalance)
	}
	if _, err := c.EscrowStatus(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected NotFound after release, got %v", err)
	}
}

func TestEscrowRepeatedApprovalIsIdempotent(t *testing.T) {
	c := newTestCore(t)
	ctx := context.Background()
	fund(t, c, "buyer", 20)

	id, err := c.CreateEscrow(ctx, "buyer", "seller", 20)
	if err != nil {
		t.Fatalf("create escrow: %v", err)
	}
	if err := c.ApproveEscrow(ctx, id, "buyer"); err != nil {
		t.Fatalf("first approve: %v", err)
	}
	if err := c.ApproveEscrow(ctx, id, "buyer"); err != nil {
		t.Fatalf("repeat approve: %v", err)
	}
	escrow, err := c.EscrowStatus(ctx, id)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !escrow.BuyerOK || escrow.SellerOK {
		t.Fatalf("expected buyer-only approval after repeats, got %+v", escrow)
	}
}

func TestEscrowRejectsNonParty(t *testing.T) {
	c := newTestCore(t)
	ctx := context.Background()
	fund(t, c, "buyer", 10)

	id, err := c.CreateEscrow(ctx, "buyer", "seller", 10)
	if err != nil {
		t.Fatalf("create escrow: %v", err)
	}
	if err := c.ApproveEscrow(ctx, id, "mallory"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestCreateEscrowRequiresFunds(t *testing.T) {
	c := newTestCore(t)
	ctx := context.Background()

	if _, err := c.CreateEscrow(ctx, "buyer", "seller", 5); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
}

func TestApproveEscrowUnknownID(t *testing.T) {
	c := newTestCore(t)

	if err := c.ApproveEscrow(context.Background(), 99, "buyer"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
