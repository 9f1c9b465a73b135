// Package inspect provides the read-only operator command for examining
// ledger state: principal records, escrows, wallets, proposals, and the
// event journal.
package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/PinoyQ8/trust-bazaar/internal/bazaar"
	"github.com/PinoyQ8/trust-bazaar/internal/host"
	"github.com/PinoyQ8/trust-bazaar/internal/host/access"
	eventsqlite "github.com/PinoyQ8/trust-bazaar/internal/host/events/sqlite"
	"github.com/PinoyQ8/trust-bazaar/internal/host/store/bbolt"
	"github.com/PinoyQ8/trust-bazaar/internal/platform/config"
	"github.com/PinoyQ8/trust-bazaar/internal/random"
)

// Config holds inspect command configuration.
type Config struct {
	StorePath    string        `env:"TRUST_BAZAAR_STORE_PATH" envDefault:"data/bazaar.db"`
	EventsDBPath string        `env:"TRUST_BAZAAR_EVENTS_DB_PATH"`
	Timeout      time.Duration `env:"TRUST_BAZAAR_TOOL_TIMEOUT" envDefault:"1m"`

	Principal  string
	EscrowID   uint64
	WalletID   uint64
	WalletTxID uint64
	ProposalID uint64
	Events     bool
	AfterSeq   uint64
	Limit      int
	JSONOutput bool
}

// principalReport aggregates every per-principal record for one account.
type principalReport struct {
	Principal  host.Principal `json:"principal"`
	Nickname   string         `json:"nickname"`
	Balance    uint64         `json:"balance"`
	Trust      uint32         `json:"trust"`
	Bonded     bool           `json:"bonded"`
	Disputed   bool           `json:"disputed"`
	Subscribed bool           `json:"subscribed"`
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.StorePath, "store-path", cfg.StorePath, "path to the ledger state database (default: TRUST_BAZAAR_STORE_PATH or data/bazaar.db)")
	fs.StringVar(&cfg.EventsDBPath, "events-db-path", cfg.EventsDBPath, "path to the sqlite event journal (default: TRUST_BAZAAR_EVENTS_DB_PATH)")
	fs.StringVar(&cfg.Principal, "principal", "", "dump this principal's records")
	fs.Uint64Var(&cfg.EscrowID, "escrow-id", 0, "dump this escrow record")
	fs.Uint64Var(&cfg.WalletID, "wallet-id", 0, "dump this wallet record")
	fs.Uint64Var(&cfg.WalletTxID, "wallet-tx-id", 0, "dump this wallet transaction record")
	fs.Uint64Var(&cfg.ProposalID, "proposal-id", 0, "dump this proposal tally")
	fs.BoolVar(&cfg.Events, "events", false, "list entries from the event journal")
	fs.Uint64Var(&cfg.AfterSeq, "after-seq", 0, "list events after this sequence")
	fs.IntVar(&cfg.Limit, "limit", 50, "max events to list")
	fs.BoolVar(&cfg.JSONOutput, "json", false, "output JSON")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall timeout")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the inspect command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}

	if cfg.Events {
		return listEvents(ctx, cfg, out)
	}

	kv, err := bbolt.Open(cfg.StorePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			fmt.Fprintf(errOut, "warning: close store: %v\n", err)
		}
	}()

	seed, err := random.NewSeed()
	if err != nil {
		return err
	}
	core, err := bazaar.New(bazaar.Config{
		Store:  kv,
		Access: access.AllowAll(),
		Clock:  host.SystemClock{},
		Random: host.NewSource(seed),
	})
	if err != nil {
		return err
	}

	switch {
	case cfg.Principal != "":
		return dumpPrincipal(ctx, core, host.Principal(cfg.Principal), cfg.JSONOutput, out)
	case cfg.EscrowID != 0:
		escrow, err := core.EscrowStatus(ctx, cfg.EscrowID)
		if err != nil {
			return fmt.Errorf("read escrow: %w", err)
		}
		return emit(out, cfg.JSONOutput, escrow, func(w io.Writer) {
			fmt.Fprintf(w, "escrow %d: %s -> %s amount=%d buyer_ok=%v seller_ok=%v\n",
				escrow.ID, escrow.Buyer, escrow.Seller, escrow.Amount, escrow.BuyerOK, escrow.SellerOK)
		})
	case cfg.WalletID != 0:
		wallet, err := core.WalletInfo(ctx, cfg.WalletID)
		if err != nil {
			return fmt.Errorf("read wallet: %w", err)
		}
		return emit(out, cfg.JSONOutput, wallet, func(w io.Writer) {
			fmt.Fprintf(w, "wallet %d: owners=%v threshold=%d balance=%d\n",
				wallet.ID, wallet.Owners, wallet.Threshold, wallet.Balance)
		})
	case cfg.WalletTxID != 0:
		tx, err := core.WalletTxInfo(ctx, cfg.WalletTxID)
		if err != nil {
			return fmt.Errorf("read wallet tx: %w", err)
		}
		return emit(out, cfg.JSONOutput, tx, func(w io.Writer) {
			fmt.Fprintf(w, "wallet tx %d: wallet=%d to=%s amount=%d approvals=%v executed=%v\n",
				tx.ID, tx.WalletID, tx.To, tx.Amount, tx.Approvals, tx.Executed)
		})
	case cfg.ProposalID != 0:
		yes, no, err := core.ProposalStats(ctx, cfg.ProposalID)
		if err != nil {
			return fmt.Errorf("read proposal: %w", err)
		}
		return emit(out, cfg.JSONOutput, map[string]uint64{"yes": yes, "no": no}, func(w io.Writer) {
			fmt.Fprintf(w, "proposal %d: yes=%d no=%d\n", cfg.ProposalID, yes, no)
		})
	}
	return errors.New("no target selected; see -help")
}

func dumpPrincipal(ctx context.Context, core *bazaar.Core, p host.Principal, jsonOutput bool, out io.Writer) error {
	balance, err := core.BalanceOf(ctx, p)
	if err != nil {
		return fmt.Errorf("read balance: %w", err)
	}
	trust, err := core.GetTrust(ctx, p)
	if err != nil {
		return fmt.Errorf("read trust: %w", err)
	}
	bonded, err := core.IsBonded(ctx, p)
	if err != nil {
		return fmt.Errorf("read bond: %w", err)
	}
	nickname, err := core.GetNickname(ctx, p)
	if err != nil {
		return fmt.Errorf("read nickname: %w", err)
	}
	disputed, err := core.IsDisputed(ctx, p)
	if err != nil {
		return fmt.Errorf("read dispute: %w", err)
	}
	subscribed, err := core.IsSubscribed(ctx, p)
	if err != nil {
		return fmt.Errorf("read subscription: %w", err)
	}

	report := principalReport{
		Principal:  p,
		Nickname:   nickname,
		Balance:    balance,
		Trust:      trust,
		Bonded:     bonded,
		Disputed:   disputed,
		Subscribed: subscribed,
	}
	return emit(out, jsonOutput, report, func(w io.Writer) {
		fmt.Fprintf(w, "%s (%s): balance=%d trust=%d bonded=%v disputed=%v subscribed=%v\n",
			report.Principal, report.Nickname, report.Balance, report.Trust,
			report.Bonded, report.Disputed, report.Subscribed)
	})
}

func listEvents(ctx context.Context, cfg Config, out io.Writer) error {
	if cfg.EventsDBPath == "" {
		return errors.New("-events requires -events-db-path")
	}
	journal, err := eventsqlite.Open(cfg.EventsDBPath)
	if err != nil {
		return fmt.Errorf("open event journal: %w", err)
	}
	defer journal.Close()

	listed, lastSeq, err := journal.List(ctx, cfg.AfterSeq, cfg.Limit)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	if cfg.JSONOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(listed)
	}
	for _, evt := range listed {
		fmt.Fprintf(out, "%s at=%d principals=%v payload=%v\n", evt.Topic, evt.At, evt.Principals, evt.Payload)
	}
	fmt.Fprintf(out, "%d events; next cursor %d\n", len(listed), lastSeq)
	return nil
}

func emit(out io.Writer, jsonOutput bool, value any, plain func(io.Writer)) error {
	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(value)
	}
	plain(out)
	return nil
}
