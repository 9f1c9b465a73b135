package bazaar

import (
	"context"
	"strconv"

	"github.com/PinoyQ8/trust-bazaar/internal/bazaar/state"
	"github.com/PinoyQ8/trust-bazaar/internal/host"
)

// CreateWallet creates a threshold wallet with an empty pooled balance.
// The creator is not required to be among the owners; that looseness is
// inherited from the deployed contract and kept as-is.
func (c *Core) CreateWallet(ctx context.Context, creator host.Principal, owners []host.Principal, threshold int) (uint64, error) {
	if err := c.authorize(ctx, creator); err != nil {
		return 0, err
	}
	if err := c.gate(ctx); err != nil {
		return 0, err
	}
	if threshold < 1 || threshold > len(owners) {
		return 0, ErrInvalidThreshold
	}
	for _, owner := range owners {
		if owner == "" {
			return 0, ErrInvalidPrincipal
		}
	}
	id, err := c.ledger.NextWalletID(ctx)
	if err != nil {
		return 0, err
	}
	wallet := state.Wallet{
		ID:        id,
		Owners:    append([]host.Principal(nil), owners...),
		Threshold: threshold,
	}
	if err := c.ledger.PutWallet(ctx, wallet); err != nil {
		return 0, err
	}
	return id, nil
}

// DepositWallet moves funds from the depositor's personal balance into the
// wallet's pooled sub-ledger.
func (c *Core) DepositWallet(ctx context.Context, caller host.Principal, walletID, amount uint64) error {
	if err := c.authorize(ctx, caller); err != nil {
		return err
	}
	if err := c.gate(ctx); err != nil {
		return err
	}
	wallet, err := c.ledger.Wallet(ctx, walletID)
	if err != nil {
		return notFound(err)
	}
	if err := c.burn(ctx, caller, amount); err != nil {
		return err
	}
	wallet.Balance += amount
	return c.ledger.PutWallet(ctx, wallet)
}

// ProposeTx records a payout proposal, pre-approved by its proposer. A
// single-signer wallet executes immediately through the approval path.
func (c *Core) ProposeTx(ctx context.Context, caller host.Principal, walletID uint64, to host.Principal, amount uint64) (uint64, error) {
	if err := c.authorize(ctx, caller); err != nil {
		return 0, err
	}
	if err := c.gate(ctx); err != nil {
		return 0, err
	}
	if to == "" {
		return 0, ErrInvalidPrincipal
	}
	wallet, err := c.ledger.Wallet(ctx, walletID)
	if err != nil {
		return 0, notFound(err)
	}
	if !wallet.IsOwner(caller) {
		return 0, ErrUnauthorized
	}
	id, err := c.ledger.NextWalletTxID(ctx)
	if err != nil {
		return 0, err
	}
	tx := state.WalletTx{
		ID:        id,
		WalletID:  walletID,
		To:        to,
		Amount:    amount,
		Approvals: []host.Principal{caller},
	}
	if err := c.settleWalletTx(ctx, wallet, &tx); err != nil {
		return 0, err
	}
	if err := c.ledger.PutWalletTx(ctx, tx); err != nil {
		return 0, err
	}
	return id, nil
}

// ApproveTx adds one owner approval. Repeat approvals by the same owner are
// set-semantics no-ops; approving an executed transaction is rejected. The
// threshold is re-evaluated on every approval against the wallet's live
// balance, and the record is persisted whichever branch is taken.
func (c *Core) ApproveTx(ctx context.Context, caller host.Principal, txID uint64) error {
	if err := c.authorize(ctx, caller); err != nil {
		return err
	}
	if err := c.gate(ctx); err != nil {
		return err
	}
	tx, err := c.ledger.WalletTx(ctx, txID)
	if err != nil {
		return notFound(err)
	}
	if tx.Executed {
		return ErrAlreadyExecuted
	}
	wallet, err := c.ledger.Wallet(ctx, tx.WalletID)
	if err != nil {
		return notFound(err)
	}
	if !wallet.IsOwner(caller) {
		return ErrUnauthorized
	}
	if !tx.Approved(caller) {
		tx.Approvals = append(tx.Approvals, caller)
	}
	if err := c.settleWalletTx(ctx, wallet, &tx); err != nil {
		// The approval itself still stands; keep state observable.
		if putErr := c.ledger.PutWalletTx(ctx, tx); putErr != nil {
			return putErr
		}
		return err
	}
	return c.ledger.PutWalletTx(ctx, tx)
}

// settleWalletTx executes the payout when approvals meet the threshold and
// the pooled balance covers the amount. It mutates tx in place and persists
// the wallet; callers persist the transaction record.
func (c *Core) settleWalletTx(ctx context.Context, wallet state.Wallet, tx *state.WalletTx) error {
	if tx.Executed || len(tx.Approvals) < wallet.Threshold {
		return nil
	}
	if wallet.Balance < tx.Amount {
		return ErrInsufficientBalance
	}
	wallet.Balance -= tx.Amount
	if err := c.ledger.PutWallet(ctx, wallet); err != nil {
		return err
	}
	if err := c.mint(ctx, tx.To, tx.Amount); err != nil {
		return err
	}
	tx.Executed = true
	c.publish(ctx, "multisig.execute", append(append([]host.Principal(nil), wallet.Owners...), tx.To), map[string]string{
		"wallet_id": strconv.FormatUint(wallet.ID, 10),
		"tx_id":     strconv.FormatUint(tx.ID, 10),
		"amount":    strconv.FormatUint(tx.Amount, 10),
	})
	return nil
}

// WalletInfo returns the wallet record for id.
func (c *Core) WalletInfo(ctx context.Context, id uint64) (state.Wallet, error) {
	wallet, err := c.ledger.Wallet(ctx, id)
	if err != nil {
		return state.Wallet{}, notFound(err)
	}
	return wallet, nil
}

// WalletTxInfo returns the wallet transaction record for id.
func (c *Core) WalletTxInfo(ctx context.Context, id uint64) (state.WalletTx, error) {
	tx, err := c.ledger.WalletTx(ctx, id)
	if err != nil {
		return state.WalletTx{}, notFound(err)
	}
	return tx, nil
}
