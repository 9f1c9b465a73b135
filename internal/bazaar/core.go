// Package bazaar implements the trust-bazaar application state machine:
// reputation scoring, the BZR token ledger, and the multiparty financial
// primitives layered on it (escrow, multisig wallets, lottery, governance
// voting, subscriptions).
//
// Every public operation authenticates its principal, consults the global
// maintenance gate when it mutates economic state, reads the entities it
// needs, applies a pure transition, writes the results back, and optionally
// publishes an event. Calls are atomic only within themselves; the host
// serializes execution, so the core holds no locks.
package bazaar

import (
	"context"
	"errors"
	"fmt"

	"github.com/PinoyQ8/trust-bazaar/internal/bazaar/state"
	"github.com/PinoyQ8/trust-bazaar/internal/host"
	"github.com/PinoyQ8/trust-bazaar/internal/host/events"
	"github.com/PinoyQ8/trust-bazaar/internal/host/store"
)

// Fixed prices and rewards, in whole BZR units, and reputation policy knobs.
// Values follow the deployed contract.
const (
	// VouchReward is minted to the voucher on every successful vouch.
	VouchReward uint64 = 5
	// VouchTrustCost and VouchTrustGift move trust from voucher to target
	// when the voucher's score is at least VouchMinScore.
	VouchTrustCost uint32 = 2
	VouchTrustGift uint32 = 2
	VouchMinScore  uint32 = 52
	// TrustCeiling caps the target's score in the vouch path. Add-trust and
	// decay are deliberately uncapped.
	TrustCeiling uint32 = 100

	// StakeScore is the trust score granted by bonding.
	StakeScore uint32 = 10
	// ReferralReward is minted to the referrer named in a stake call.
	ReferralReward uint64 = 10
	// BondLockSeconds is how long a bond stays locked after staking.
	BondLockSeconds uint64 = 7 * 24 * 60 * 60

	// BadgeCost is burned when buying a badge.
	BadgeCost uint64 = 50
	// ProposalCost is burned when creating a governance proposal.
	ProposalCost uint64 = 100
	// TicketPrice is burned per lottery ticket.
	TicketPrice uint64 = 10
	// SubscriptionCost is burned per subscription term.
	SubscriptionCost uint64 = 50
	// SubscriptionTermSeconds is the entitlement window per renewal.
	SubscriptionTermSeconds uint64 = 30 * 24 * 60 * 60
)

// Core is the unified application state machine. It owns no state of its own;
// everything lives in the injected key-value store.
type Core struct {
	ledger *state.Ledger
	access host.Access
	clock  host.Clock
	random host.Random
	events events.Publisher
}

// Config wires the host capabilities into a Core.
type Config struct {
	Store  store.KV
	Access host.Access
	Clock  host.Clock
	Random host.Random
	// Events is optional; a nil publisher drops events. They are
	// fire-and-forget and never part of the consistency contract.
	Events events.Publisher
}

// New creates a Core from host capabilities.
func New(cfg Config) (*Core, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Access == nil {
		return nil, fmt.Errorf("access is required")
	}
	if cfg.Clock == nil {
		return nil, fmt.Errorf("clock is required")
	}
	if cfg.Random == nil {
		return nil, fmt.Errorf("random source is required")
	}
	return &Core{
		ledger: state.NewLedger(cfg.Store),
		access: cfg.Access,
		clock:  cfg.Clock,
		random: cfg.Random,
		events: cfg.Events,
	}, nil
}

// authorize verifies the caller has proven control of p.
func (c *Core) authorize(ctx context.Context, p host.Principal) error {
	if p == "" {
		return ErrInvalidPrincipal
	}
	return c.access.Authorize(ctx, p)
}

// gate fails when the global maintenance flag is set. Mutating operations
// call it before any other validation or side effect.
func (c *Core) gate(ctx context.Context) error {
	admin, err := c.ledger.Admin(ctx)
	if err != nil {
		return err
	}
	if admin.Maintenance {
		return ErrMaintenanceActive
	}
	return nil
}

// requireAdmin verifies the caller is the configured admin principal.
func (c *Core) requireAdmin(ctx context.Context, caller host.Principal) error {
	if err := c.authorize(ctx, caller); err != nil {
		return err
	}
	admin, err := c.ledger.Admin(ctx)
	if err != nil {
		return err
	}
	if admin.Admin == "" || admin.Admin != caller {
		return ErrUnauthorized
	}
	return nil
}

// publish emits a fire-and-forget event. Publish failures never abort the
// call that produced them.
func (c *Core) publish(ctx context.Context, topic string, principals []host.Principal, payload map[string]string) {
	if c.events == nil {
		return
	}
	_ = c.events.Publish(ctx, events.Event{
		Topic:      topic,
		Principals: principals,
		Payload:    payload,
		At:         c.clock.Now(),
	})
}

// notFound translates a storage miss into the domain NotFound error.
func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
