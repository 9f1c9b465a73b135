package bazaar

import (
	"context"
	"strconv"

	"github.com/PinoyQ8/trust-bazaar/internal/host"
)

// AddTrust increments the caller's trust score by one, uncapped.
func (c *Core) AddTrust(ctx context.Context, caller host.Principal) error {
	if err := c.authorize(ctx, caller); err != nil {
		return err
	}
	if err := c.gate(ctx); err != nil {
		return err
	}
	profile, err := c.ledger.TrustProfile(ctx, caller)
	if err != nil {
		return err
	}
	profile.Score++
	return c.ledger.PutTrustProfile(ctx, caller, profile)
}

// Decay decrements target's trust score by one, saturating at zero. Admin-only.
func (c *Core) Decay(ctx context.Context, caller, target host.Principal) error {
	if err := c.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if err := c.gate(ctx); err != nil {
		return err
	}
	profile, err := c.ledger.TrustProfile(ctx, target)
	if err != nil {
		return err
	}
	if profile.Score > 0 {
		profile.Score--
	}
	return c.ledger.PutTrustProfile(ctx, target, profile)
}

// GetTrust returns p's trust score, zero for unknown principals.
func (c *Core) GetTrust(ctx context.Context, p host.Principal) (uint32, error) {
	profile, err := c.ledger.TrustProfile(ctx, p)
	if err != nil {
		return 0, err
	}
	return profile.Score, nil
}

// Heartbeat records the caller's liveness pulse at the current logical time.
func (c *Core) Heartbeat(ctx context.Context, caller host.Principal) error {
	if err := c.authorize(ctx, caller); err != nil {
		return err
	}
	if err := c.gate(ctx); err != nil {
		return err
	}
	profile, err := c.ledger.TrustProfile(ctx, caller)
	if err != nil {
		return err
	}
	profile.LastPulse = c.clock.Now()
	return c.ledger.PutTrustProfile(ctx, caller, profile)
}

// Vouch lets one principal vouch for another. The voucher always earns the
// vouch reward; trust moves only while the voucher can afford the cost.
// Self-vouching is a silent no-op, never an error. That policy follows the
// deployed contract's early return and is applied uniformly.
func (c *Core) Vouch(ctx context.Context, voucher, target host.Principal) error {
	if err := c.authorize(ctx, voucher); err != nil {
		return err
	}
	if err := c.gate(ctx); err != nil {
		return err
	}
	if target == "" {
		return ErrInvalidPrincipal
	}
	if voucher == target {
		return nil
	}

	voucherProfile, err := c.ledger.TrustProfile(ctx, voucher)
	if err != nil {
		return err
	}
	targetProfile, err := c.ledger.TrustProfile(ctx, target)
	if err != nil {
		return err
	}

	trustMoved := false
	if voucherProfile.Score >= VouchMinScore {
		voucherProfile.Score -= VouchTrustCost
		targetProfile.Score += VouchTrustGift
		if targetProfile.Score > TrustCeiling {
			targetProfile.Score = TrustCeiling
		}
		if err := c.ledger.PutTrustProfile(ctx, voucher, voucherProfile); err != nil {
			return err
		}
		if err := c.ledger.PutTrustProfile(ctx, target, targetProfile); err != nil {
			return err
		}
		trustMoved = true
	}

	if err := c.mint(ctx, voucher, VouchReward); err != nil {
		return err
	}
	c.publish(ctx, "vouch", []host.Principal{voucher, target}, map[string]string{
		"reward":      strconv.FormatUint(VouchReward, 10),
		"trust_moved": formatBool(trustMoved),
	})
	return nil
}

// Stake bonds the caller: score jumps to the stake score and the bond locks
// for the lock window. Naming a referrer mints the referral reward to them.
func (c *Core) Stake(ctx context.Context, caller host.Principal, referrer *host.Principal) error {
	if err := c.authorize(ctx, caller); err != nil {
		return err
	}
	if err := c.gate(ctx); err != nil {
		return err
	}
	profile, err := c.ledger.TrustProfile(ctx, caller)
	if err != nil {
		return err
	}
	now := c.clock.Now()
	profile.Score = StakeScore
	profile.Bonded = true
	profile.BondedAt = now
	if err := c.ledger.PutTrustProfile(ctx, caller, profile); err != nil {
		return err
	}

	if referrer != nil && *referrer != "" && *referrer != caller {
		if err := c.mint(ctx, *referrer, ReferralReward); err != nil {
			return err
		}
		c.publish(ctx, "referral", []host.Principal{caller, *referrer}, map[string]string{
			"reward": strconv.FormatUint(ReferralReward, 10),
		})
	}
	return nil
}

// Withdraw releases the caller's bond after the lock window, dropping the
// bonded score back to zero.
func (c *Core) Withdraw(ctx context.Context, caller host.Principal) error {
	if err := c.authorize(ctx, caller); err != nil {
		return err
	}
	if err := c.gate(ctx); err != nil {
		return err
	}
	profile, err := c.ledger.TrustProfile(ctx, caller)
	if err != nil {
		return err
	}
	if !profile.Bonded {
		return ErrNotFound
	}
	if c.clock.Now() < profile.BondedAt+BondLockSeconds {
		return ErrBondLocked
	}
	profile.Bonded = false
	profile.BondedAt = 0
	profile.Score = 0
	return c.ledger.PutTrustProfile(ctx, caller, profile)
}

// ForceUnbond releases target's bond immediately. Admin-only.
func (c *Core) ForceUnbond(ctx context.Context, caller, target host.Principal) error {
	if err := c.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if err := c.gate(ctx); err != nil {
		return err
	}
	profile, err := c.ledger.TrustProfile(ctx, target)
	if err != nil {
		return err
	}
	profile.Bonded = false
	profile.BondedAt = 0
	profile.Score = 0
	return c.ledger.PutTrustProfile(ctx, target, profile)
}

// IsBonded reports whether p currently holds a bond.
func (c *Core) IsBonded(ctx context.Context, p host.Principal) (bool, error) {
	profile, err := c.ledger.TrustProfile(ctx, p)
	if err != nil {
		return false, err
	}
	return profile.Bonded, nil
}
