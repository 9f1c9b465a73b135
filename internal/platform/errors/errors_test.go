package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestIsMatchesByCode(t *testing.T) {
	sentinel := New(CodeInsufficientBalance, "balance is too low")
	err := WithMetadata(CodeInsufficientBalance, "cannot cover the transfer", map[string]string{"amount": "5"})

	if !stderrors.Is(err, sentinel) {
		t.Fatal("expected match on code")
	}
	if stderrors.Is(err, New(CodeUnauthorized, "nope")) {
		t.Fatal("expected mismatch on different code")
	}
}

func TestCodeOfWalksWrappedChain(t *testing.T) {
	cause := stderrors.New("disk full")
	err := fmt.Errorf("persist balance: %w", Wrap(CodeUnknown, "storage write failed", cause))

	inner := Wrap(CodeNotFound, "escrow missing", cause)
	wrapped := fmt.Errorf("approve: %w", inner)
	if CodeOf(wrapped) != CodeNotFound {
		t.Fatalf("expected not found, got %v", CodeOf(wrapped))
	}
	if CodeOf(err) != CodeUnknown {
		t.Fatalf("expected unknown, got %v", CodeOf(err))
	}
	if CodeOf(stderrors.New("plain")) != CodeUnknown {
		t.Fatal("expected unknown for plain error")
	}
	if CodeOf(nil) != CodeUnknown {
		t.Fatal("expected unknown for nil")
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := stderrors.New("root")
	err := Wrap(CodeUnknown, "wrapped", cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("expected cause reachable through Unwrap")
	}
}
