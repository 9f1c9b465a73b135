package events

import (
	"context"
	"testing"

	"github.com/PinoyQ8/trust-bazaar/internal/host"
)

func TestLogRecordsInOrder(t *testing.T) {
	log := NewLog()
	ctx := context.Background()

	if err := log.Publish(ctx, Event{Topic: "vouch", Principals: []host.Principal{"a", "b"}}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := log.Publish(ctx, Event{Topic: "bzr.transfer", Payload: map[string]string{"amount": "5"}}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	entries := log.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Topic != "vouch" || entries[1].Topic != "bzr.transfer" {
		t.Fatalf("unexpected order %v, %v", entries[0].Topic, entries[1].Topic)
	}
	if entries[1].Payload["amount"] != "5" {
		t.Fatalf("unexpected payload %v", entries[1].Payload)
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	log := NewLog()
	if err := log.Publish(context.Background(), Event{Topic: "vouch"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	entries := log.Entries()
	entries[0].Topic = "mutated"
	if log.Entries()[0].Topic != "vouch" {
		t.Fatal("expected log isolated from returned slice")
	}
}
