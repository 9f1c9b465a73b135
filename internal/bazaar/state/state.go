// Package state provides typed, lazily-defaulting accessors over the host's
// opaque key-value store.
//
// Every accessor re-reads the latest stored value; the package holds no
// in-process caches. Entities are encoded as JSON, matching how the host
// treats values: opaque bytes.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/PinoyQ8/trust-bazaar/internal/host"
	"github.com/PinoyQ8/trust-bazaar/internal/host/store"
)

// DefaultNickname is returned for principals that never set a nickname.
const DefaultNickname = "User"

// TrustProfile holds one principal's reputation record.
type TrustProfile struct {
	Score     uint32 `json:"score"`
	LastPulse uint64 `json:"last_pulse"`
	Bonded    bool   `json:"bonded"`
	BondedAt  uint64 `json:"bonded_at"`
}

// Escrow is a two-party conditional settlement record. Funds are held as a
// liability recorded here, debited from the buyer at creation time.
type Escrow struct {
	ID       uint64         `json:"id"`
	Buyer    host.Principal `json:"buyer"`
	Seller   host.Principal `json:"seller"`
	Amount   uint64         `json:"amount"`
	BuyerOK  bool           `json:"buyer_ok"`
	SellerOK bool           `json:"seller_ok"`
}

// Wallet is a threshold-approved pooled sub-ledger.
type Wallet struct {
	ID        uint64           `json:"id"`
	Owners    []host.Principal `json:"owners"`
	Threshold int              `json:"threshold"`
	Balance   uint64           `json:"balance"`
}

// IsOwner reports whether p is among the wallet owners.
func (w Wallet) IsOwner(p host.Principal) bool {
	for _, owner := range w.Owners {
		if owner == p {
			return true
		}
	}
	return false
}

// WalletTx is a proposed payout from a wallet. Once Executed is true the
// record is immutable to further approvals.
type WalletTx struct {
	ID        uint64           `json:"id"`
	WalletID  uint64           `json:"wallet_id"`
	To        host.Principal   `json:"to"`
	Amount    uint64           `json:"amount"`
	Approvals []host.Principal `json:"approvals"`
	Executed  bool             `json:"executed"`
}

// Approved reports whether p already approved this transaction.
func (t WalletTx) Approved(p host.Principal) bool {
	for _, approver := range t.Approvals {
		if approver == p {
			return true
		}
	}
	return false
}

// Tally accumulates proposal votes in BZR-balance units.
type Tally struct {
	Yes uint64 `json:"yes"`
	No  uint64 `json:"no"`
}

// AdminState is the global singleton configuration record.
type AdminState struct {
	Admin       host.Principal `json:"admin"`
	Maintenance bool           `json:"maintenance"`
}

// Message is one chat message, stored on the recipient's list.
type Message struct {
	From   host.Principal `json:"from"`
	To     host.Principal `json:"to"`
	Text   string         `json:"text"`
	SentAt uint64         `json:"sent_at"`
}

// Ledger exposes every entity the core persists. It is a thin layer over the
// host's KV store; all mutations flow through the single call that owns the
// current execution slot, so no locking happens here.
type Ledger struct {
	kv store.KV
}

// NewLedger creates a ledger over the given key-value store.
func NewLedger(kv store.KV) *Ledger {
	return &Ledger{kv: kv}
}

func (l *Ledger) getJSON(ctx context.Context, key []byte, target any) (bool, error) {
	raw, err := l.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return false, fmt.Errorf("decode %q: %w", key, err)
	}
	return true, nil
}

func (l *Ledger) setJSON(ctx context.Context, key []byte, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return l.kv.Set(ctx, key, raw)
}

// nextID increments and persists the id counter for a namespace. Allocated
// ids start at 1 and increase monotonically.
func (l *Ledger) nextID(ctx context.Context, namespace string) (uint64, error) {
	var current uint64
	if _, err := l.getJSON(ctx, key(namespace, seqKey), &current); err != nil {
		return 0, err
	}
	next := current + 1
	if err := l.setJSON(ctx, key(namespace, seqKey), next); err != nil {
		return 0, err
	}
	return next, nil
}

// TrustProfile returns p's reputation record, lazily defaulting to zero.
func (l *Ledger) TrustProfile(ctx context.Context, p host.Principal) (TrustProfile, error) {
	var profile TrustProfile
	if _, err := l.getJSON(ctx, key(nsTrust, string(p)), &profile); err != nil {
		return TrustProfile{}, err
	}
	return profile, nil
}

// PutTrustProfile stores p's reputation record.
func (l *Ledger) PutTrustProfile(ctx context.Context, p host.Principal, profile TrustProfile) error {
	return l.setJSON(ctx, key(nsTrust, string(p)), profile)
}

// Balance returns p's BZR balance, lazily defaulting to zero.
func (l *Ledger) Balance(ctx context.Context, p host.Principal) (uint64, error) {
	var balance uint64
	if _, err := l.getJSON(ctx, key(nsBalance, string(p)), &balance); err != nil {
		return 0, err
	}
	return balance, nil
}

// PutBalance stores p's BZR balance.
func (l *Ledger) PutBalance(ctx context.Context, p host.Principal, balance uint64) error {
	return l.setJSON(ctx, key(nsBalance, string(p)), balance)
}

// HasBadge reports whether p owns the named badge.
func (l *Ledger) HasBadge(ctx context.Context, p host.Principal, badge string) (bool, error) {
	return l.kv.Has(ctx, key(nsBadge, string(p), badge))
}

// PutBadge marks the named badge as owned by p.
func (l *Ledger) PutBadge(ctx context.Context, p host.Principal, badge string) error {
	return l.setJSON(ctx, key(nsBadge, string(p), badge), true)
}

// Disputed reports whether p is currently flagged.
func (l *Ledger) Disputed(ctx context.Context, p host.Principal) (bool, error) {
	return l.kv.Has(ctx, key(nsDispute, string(p)))
}

// PutDispute flags p as disputed.
func (l *Ledger) PutDispute(ctx context.Context, p host.Principal) error {
	return l.setJSON(ctx, key(nsDispute, string(p)), true)
}

// RemoveDispute clears p's dispute flag.
func (l *Ledger) RemoveDispute(ctx context.Context, p host.Principal) error {
	return l.kv.Remove(ctx, key(nsDispute, string(p)))
}

// Nickname returns p's nickname, defaulting to DefaultNickname.
func (l *Ledger) Nickname(ctx context.Context, p host.Principal) (string, error) {
	var name string
	found, err := l.getJSON(ctx, key(nsNickname, string(p)), &name)
	if err != nil {
		return "", err
	}
	if !found {
		return DefaultNickname, nil
	}
	return name, nil
}

// PutNickname stores p's nickname and maintains the reverse index, releasing
// any name p held before.
func (l *Ledger) PutNickname(ctx context.Context, p host.Principal, name string) error {
	var previous string
	hadPrevious, err := l.getJSON(ctx, key(nsNickname, string(p)), &previous)
	if err != nil {
		return err
	}
	if err := l.setJSON(ctx, key(nsNickname, string(p)), name); err != nil {
		return err
	}
	if hadPrevious && previous != name {
		if err := l.kv.Remove(ctx, key(nsNicknameIdx, previous)); err != nil {
			return err
		}
	}
	return l.setJSON(ctx, key(nsNicknameIdx, name), p)
}

// PrincipalByNickname resolves a nickname to its owner, if claimed.
func (l *Ledger) PrincipalByNickname(ctx context.Context, name string) (host.Principal, bool, error) {
	var p host.Principal
	found, err := l.getJSON(ctx, key(nsNicknameIdx, name), &p)
	if err != nil {
		return "", false, err
	}
	return p, found, nil
}

// NextEscrowID allocates the next escrow id.
func (l *Ledger) NextEscrowID(ctx context.Context) (uint64, error) {
	return l.nextID(ctx, nsEscrow)
}

// Escrow returns the escrow record for id, or store.ErrNotFound.
func (l *Ledger) Escrow(ctx context.Context, id uint64) (Escrow, error) {
	var escrow Escrow
	found, err := l.getJSON(ctx, key(nsEscrow, formatID(id)), &escrow)
	if err != nil {
		return Escrow{}, err
	}
	if !found {
		return Escrow{}, store.ErrNotFound
	}
	return escrow, nil
}

// PutEscrow stores an escrow record.
func (l *Ledger) PutEscrow(ctx context.Context, escrow Escrow) error {
	return l.setJSON(ctx, key(nsEscrow, formatID(escrow.ID)), escrow)
}

// RemoveEscrow deletes an escrow record. Settlement is terminal: the id is
// permanently absent afterwards.
func (l *Ledger) RemoveEscrow(ctx context.Context, id uint64) error {
	return l.kv.Remove(ctx, key(nsEscrow, formatID(id)))
}

// NextWalletID allocates the next wallet id.
func (l *Ledger) NextWalletID(ctx context.Context) (uint64, error) {
	return l.nextID(ctx, nsWallet)
}

// Wallet returns the wallet record for id, or store.ErrNotFound.
func (l *Ledger) Wallet(ctx context.Context, id uint64) (Wallet, error) {
	var wallet Wallet
	found, err := l.getJSON(ctx, key(nsWallet, formatID(id)), &wallet)
	if err != nil {
		return Wallet{}, err
	}
	if !found {
		return Wallet{}, store.ErrNotFound
	}
	return wallet, nil
}

// PutWallet stores a wallet record.
func (l *Ledger) PutWallet(ctx context.Context, wallet Wallet) error {
	return l.setJSON(ctx, key(nsWallet, formatID(wallet.ID)), wallet)
}

// NextWalletTxID allocates the next wallet transaction id.
func (l *Ledger) NextWalletTxID(ctx context.Context) (uint64, error) {
	return l.nextID(ctx, nsWalletTx)
}

// WalletTx returns the wallet transaction record for id, or store.ErrNotFound.
func (l *Ledger) WalletTx(ctx context.Context, id uint64) (WalletTx, error) {
	var tx WalletTx
	found, err := l.getJSON(ctx, key(nsWalletTx, formatID(id)), &tx)
	if err != nil {
		return WalletTx{}, err
	}
	if !found {
		return WalletTx{}, store.ErrNotFound
	}
	return tx, nil
}

// PutWalletTx stores a wallet transaction record.
func (l *Ledger) PutWalletTx(ctx context.Context, tx WalletTx) error {
	return l.setJSON(ctx, key(nsWalletTx, formatID(tx.ID)), tx)
}

// LotteryPool returns the ordered ticket entries, one per purchased ticket.
func (l *Ledger) LotteryPool(ctx context.Context) ([]host.Principal, error) {
	var pool []host.Principal
	if _, err := l.getJSON(ctx, key(nsLottery, "pool"), &pool); err != nil {
		return nil, err
	}
	return pool, nil
}

// PutLotteryPool stores the ticket entries.
func (l *Ledger) PutLotteryPool(ctx context.Context, pool []host.Principal) error {
	return l.setJSON(ctx, key(nsLottery, "pool"), pool)
}

// ClearLotteryPool removes every ticket entry.
func (l *Ledger) ClearLotteryPool(ctx context.Context) error {
	return l.kv.Remove(ctx, key(nsLottery, "pool"))
}

// NextProposalID allocates the next proposal id.
func (l *Ledger) NextProposalID(ctx context.Context) (uint64, error) {
	return l.nextID(ctx, nsProposal)
}

// Tally returns the vote tally for a proposal, lazily defaulting to zero.
func (l *Ledger) Tally(ctx context.Context, proposalID uint64) (Tally, error) {
	var tally Tally
	if _, err := l.getJSON(ctx, key(nsProposal, formatID(proposalID)), &tally); err != nil {
		return Tally{}, err
	}
	return tally, nil
}

// PutTally stores the vote tally for a proposal.
func (l *Ledger) PutTally(ctx context.Context, proposalID uint64, tally Tally) error {
	return l.setJSON(ctx, key(nsProposal, formatID(proposalID)), tally)
}

// HasVote reports whether p already voted on a proposal.
func (l *Ledger) HasVote(ctx context.Context, proposalID uint64, p host.Principal) (bool, error) {
	return l.kv.Has(ctx, key(nsVote, formatID(proposalID), string(p)))
}

// PutVote records that p voted on a proposal.
func (l *Ledger) PutVote(ctx context.Context, proposalID uint64, p host.Principal) error {
	return l.setJSON(ctx, key(nsVote, formatID(proposalID), string(p)), true)
}

// Subscription returns p's subscription expiry, lazily defaulting to zero.
func (l *Ledger) Subscription(ctx context.Context, p host.Principal) (uint64, error) {
	var expiry uint64
	if _, err := l.getJSON(ctx, key(nsSubscription, string(p)), &expiry); err != nil {
		return 0, err
	}
	return expiry, nil
}

// PutSubscription stores p's subscription expiry.
func (l *Ledger) PutSubscription(ctx context.Context, p host.Principal, expiry uint64) error {
	return l.setJSON(ctx, key(nsSubscription, string(p)), expiry)
}

// Admin returns the global singleton configuration record.
func (l *Ledger) Admin(ctx context.Context) (AdminState, error) {
	var admin AdminState
	if _, err := l.getJSON(ctx, key(nsAdmin), &admin); err != nil {
		return AdminState{}, err
	}
	return admin, nil
}

// PutAdmin stores the global singleton configuration record.
func (l *Ledger) PutAdmin(ctx context.Context, admin AdminState) error {
	return l.setJSON(ctx, key(nsAdmin), admin)
}

// Crowdfund returns the pooled crowdfund balance.
func (l *Ledger) Crowdfund(ctx context.Context) (uint64, error) {
	var balance uint64
	if _, err := l.getJSON(ctx, key(nsCrowdfund), &balance); err != nil {
		return 0, err
	}
	return balance, nil
}

// PutCrowdfund stores the pooled crowdfund balance.
func (l *Ledger) PutCrowdfund(ctx context.Context, balance uint64) error {
	return l.setJSON(ctx, key(nsCrowdfund), balance)
}

// Messages returns the messages delivered to p, oldest first.
func (l *Ledger) Messages(ctx context.Context, p host.Principal) ([]Message, error) {
	var messages []Message
	if _, err := l.getJSON(ctx, key(nsChat, string(p)), &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// AppendMessage appends one message to the recipient's list.
func (l *Ledger) AppendMessage(ctx context.Context, msg Message) error {
	messages, err := l.Messages(ctx, msg.To)
	if err != nil {
		return err
	}
	return l.setJSON(ctx, key(nsChat, string(msg.To)), append(messages, msg))
}

func formatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
