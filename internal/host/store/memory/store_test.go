package memory

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/PinoyQ8/trust-bazaar/internal/host/store"
)

func TestStoreRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()
	key := []byte("bzr\x1falice")

	if _, err := s.Get(ctx, key); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := s.Set(ctx, key, []byte("42")); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(value, []byte("42")) {
		t.Fatalf("expected 42, got %q", value)
	}
	found, err := s.Has(ctx, key)
	if err != nil {
		t.Fatalf("has: %v", err)
	}
	if !found {
		t.Fatal("expected key present")
	}

	if err := s.Remove(ctx, key); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := s.Get(ctx, key); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found after remove, got %v", err)
	}
	// Removing a missing key is not an error.
	if err := s.Remove(ctx, key); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
}

func TestStoreCopiesValues(t *testing.T) {
	s := New()
	ctx := context.Background()
	key := []byte("k")

	original := []byte("abc")
	if err := s.Set(ctx, key, original); err != nil {
		t.Fatalf("set: %v", err)
	}
	original[0] = 'z'

	value, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(value, []byte("abc")) {
		t.Fatalf("expected stored value isolated from caller, got %q", value)
	}
	value[0] = 'z'
	again, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(again, []byte("abc")) {
		t.Fatalf("expected returned value isolated from store, got %q", again)
	}
}

func TestStoreHonorsContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Set(ctx, []byte("k"), []byte("v")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}
