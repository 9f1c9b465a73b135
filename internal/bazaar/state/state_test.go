package state

import (
	"context"
	"errors"
	"testing"

	"github.com/PinoyQ8/trust-bazaar/internal/host"
	"github.com/PinoyQ8/trust-bazaar/internal/host/store"
	"github.com/PinoyQ8/trust-bazaar/internal/host/store/memory"
)

func newTestLedger() *Ledger {
	return NewLedger(memory.New())
}

func TestLedgerLazyDefaults(t *testing.T) {
	l := newTestLedger()
	ctx := context.Background()

	profile, err := l.TrustProfile(ctx, "alice")
	if err != nil {
		t.Fatalf("trust profile: %v", err)
	}
	if profile != (TrustProfile{}) {
		t.Fatalf("expected zero profile, got %+v", profile)
	}
	balance, err := l.Balance(ctx, "alice")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 0 {
		t.Fatalf("expected zero balance, got %d", balance)
	}
	name, err := l.Nickname(ctx, "alice")
	if err != nil {
		t.Fatalf("nickname: %v", err)
	}
	if name != DefaultNickname {
		t.Fatalf("expected %q, got %q", DefaultNickname, name)
	}
	tally, err := l.Tally(ctx, 1)
	if err != nil {
		t.Fatalf("tally: %v", err)
	}
	if tally != (Tally{}) {
		t.Fatalf("expected zero tally, got %+v", tally)
	}
}

func TestLedgerRoundTripsProfile(t *testing.T) {
	l := newTestLedger()
	ctx := context.Background()

	want := TrustProfile{Score: 52, LastPulse: 99, Bonded: true, BondedAt: 42}
	if err := l.PutTrustProfile(ctx, "alice", want); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := l.TrustProfile(ctx, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestIDCountersAreIndependent(t *testing.T) {
	l := newTestLedger()
	ctx := context.Background()

	escrowID, err := l.NextEscrowID(ctx)
	if err != nil {
		t.Fatalf("escrow id: %v", err)
	}
	if escrowID != 1 {
		t.Fatalf("expected first escrow id 1, got %d", escrowID)
	}
	escrowID, err = l.NextEscrowID(ctx)
	if err != nil {
		t.Fatalf("escrow id: %v", err)
	}
	if escrowID != 2 {
		t.Fatalf("expected second escrow id 2, got %d", escrowID)
	}

	// Other namespaces keep their own counters.
	walletID, err := l.NextWalletID(ctx)
	if err != nil {
		t.Fatalf("wallet id: %v", err)
	}
	if walletID != 1 {
		t.Fatalf("expected first wallet id 1, got %d", walletID)
	}
	proposalID, err := l.NextProposalID(ctx)
	if err != nil {
		t.Fatalf("proposal id: %v", err)
	}
	if proposalID != 1 {
		t.Fatalf("expected first proposal id 1, got %d", proposalID)
	}
}

func TestEscrowRemoveIsTerminal(t *testing.T) {
	l := newTestLedger()
	ctx := context.Background()

	if err := l.PutEscrow(ctx, Escrow{ID: 7, Buyer: "b", Seller: "s", Amount: 3}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := l.Escrow(ctx, 7); err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := l.RemoveEscrow(ctx, 7); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := l.Escrow(ctx, 7); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestNicknameReverseIndex(t *testing.T) {
	l := newTestLedger()
	ctx := context.Background()

	if err := l.PutNickname(ctx, "alice", "Prime"); err != nil {
		t.Fatalf("put: %v", err)
	}
	owner, found, err := l.PrincipalByNickname(ctx, "Prime")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !found || owner != "alice" {
		t.Fatalf("expected alice, got %q (found=%v)", owner, found)
	}

	if err := l.PutNickname(ctx, "alice", "Depot"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if _, found, err := l.PrincipalByNickname(ctx, "Prime"); err != nil {
		t.Fatalf("lookup: %v", err)
	} else if found {
		t.Fatal("expected old name released")
	}
}

func TestWalletOwnerAndApprovalChecks(t *testing.T) {
	w := Wallet{Owners: []host.Principal{"a", "b"}, Threshold: 2}
	if !w.IsOwner("a") || w.IsOwner("z") {
		t.Fatalf("owner check failed for %+v", w)
	}
	tx := WalletTx{Approvals: []host.Principal{"a"}}
	if !tx.Approved("a") || tx.Approved("b") {
		t.Fatalf("approval check failed for %+v", tx)
	}
}

func TestMessagesAppendInOrder(t *testing.T) {
	l := newTestLedger()
	ctx := context.Background()

	if err := l.AppendMessage(ctx, Message{From: "a", To: "b", Text: "one", SentAt: 1}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := l.AppendMessage(ctx, Message{From: "c", To: "b", Text: "two", SentAt: 2}); err != nil {
		t.Fatalf("append: %v", err)
	}
	messages, err := l.Messages(ctx, "b")
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(messages) != 2 || messages[0].Text != "one" || messages[1].Text != "two" {
		t.Fatalf("unexpected inbox %+v", messages)
	}
}
