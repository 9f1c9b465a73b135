package bazaar

import (
	"context"
	"errors"
	"testing"
)

func TestCrowdfundAccumulatesDeposits(t *testing.T) {
	c := newTestCore(t)
	ctx := context.Background()
	fund(t, c, "alice", 20)
	fund(t, c, "bob", 10)

	if err := c.DepositCrowdfund(ctx, "alice", 15); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if err := c.DepositCrowdfund(ctx, "bob", 10); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	pool, err := c.CrowdfundBalance(ctx)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	if pool != 25 {
		t.Fatalf("expected pool 25, got %d", pool)
	}
	aliceBalance, err := c.BalanceOf(ctx, "alice")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if aliceBalance != 5 {
		t.Fatalf("expected alice debited to 5, got %d", aliceBalance)
	}
}

func TestCrowdfundDepositRequiresFunds(t *testing.T) {
	c := newTestCore(t)

	if err := c.DepositCrowdfund(context.Background(), "pauper", 1); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
}
