// Package events defines the host's append-only event log contract.
//
// Events are fire-and-forget signals for off-chain observers; they are not
// part of the core's consistency contract.
package events

import (
	"context"
	"sync"

	"github.com/PinoyQ8/trust-bazaar/internal/host"
)

// Event is one structured entry in the host's event log.
type Event struct {
	// ID uniquely identifies this entry. Journal implementations assign it.
	ID string
	// Topic names the state change, e.g. "vouch" or "lottery.win".
	Topic string
	// Principals lists the accounts involved, in operation order.
	Principals []host.Principal
	// Payload carries topic-specific attributes.
	Payload map[string]string
	// At is the host's logical time when the event was published.
	At uint64
}

// Publisher appends events to the host's log.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Log is an in-memory publisher that records events in order. Tests use it to
// assert on published topics and payloads.
type Log struct {
	mu      sync.Mutex
	entries []Event
}

// NewLog creates an empty in-memory event log.
func NewLog() *Log {
	return &Log{}
}

// Publish appends evt to the log.
func (l *Log) Publish(_ context.Context, evt Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, evt)
	return nil
}

// Entries returns a copy of the published events in publish order.
func (l *Log) Entries() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.entries...)
}

var _ Publisher = (*Log)(nil)
