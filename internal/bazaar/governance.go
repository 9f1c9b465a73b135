package bazaar

import (
	"context"
	"strconv"

	"github.com/PinoyQ8/trust-bazaar/internal/bazaar/state"
	"github.com/PinoyQ8/trust-bazaar/internal/host"
)

// CreateProposal burns the proposal cost and allocates the next proposal id.
func (c *Core) CreateProposal(ctx context.Context, caller host.Principal) (uint64, error) {
	if err := c.authorize(ctx, caller); err != nil {
		return 0, err
	}
	if err := c.gate(ctx); err != nil {
		return 0, err
	}
	if err := c.burn(ctx, caller, ProposalCost); err != nil {
		return 0, err
	}
	id, err := c.ledger.NextProposalID(ctx)
	if err != nil {
		return 0, err
	}
	if err := c.ledger.PutTally(ctx, id, state.Tally{}); err != nil {
		return 0, err
	}
	c.publish(ctx, "proposal.create", []host.Principal{caller}, map[string]string{
		"proposal_id": strconv.FormatUint(id, 10),
	})
	return id, nil
}

// Vote adds the caller's current balance to the yes or no tally. Weight is
// snapshotted at vote time; later balance changes never revisit the tally. A
// vote record blocks repeats regardless of balance changes afterward.
func (c *Core) Vote(ctx context.Context, caller host.Principal, proposalID uint64, inFavor bool) error {
	if err := c.authorize(ctx, caller); err != nil {
		return err
	}
	if err := c.gate(ctx); err != nil {
		return err
	}
	voted, err := c.ledger.HasVote(ctx, proposalID, caller)
	if err != nil {
		return err
	}
	if voted {
		return ErrAlreadyVoted
	}
	weight, err := c.ledger.Balance(ctx, caller)
	if err != nil {
		return err
	}
	if weight == 0 {
		return ErrNoWeight
	}
	tally, err := c.ledger.Tally(ctx, proposalID)
	if err != nil {
		return err
	}
	if inFavor {
		tally.Yes += weight
	} else {
		tally.No += weight
	}
	if err := c.ledger.PutTally(ctx, proposalID, tally); err != nil {
		return err
	}
	if err := c.ledger.PutVote(ctx, proposalID, caller); err != nil {
		return err
	}
	c.publish(ctx, "vote", []host.Principal{caller}, map[string]string{
		"proposal_id": strconv.FormatUint(proposalID, 10),
		"in_favor":    formatBool(inFavor),
		"weight":      strconv.FormatUint(weight, 10),
	})
	return nil
}

// ProposalStats returns the yes and no tallies in BZR-balance units.
func (c *Core) ProposalStats(ctx context.Context, proposalID uint64) (uint64, uint64, error) {
	tally, err := c.ledger.Tally(ctx, proposalID)
	if err != nil {
		return 0, 0, err
	}
	return tally.Yes, tally.No, nil
}
