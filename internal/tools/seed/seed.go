// Package seed provides the operator command that loads a genesis registry
// into an empty ledger: founding principals with their trust scores,
// nicknames, and opening balances.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/PinoyQ8/trust-bazaar/internal/bazaar/state"
	"github.com/PinoyQ8/trust-bazaar/internal/host"
	"github.com/PinoyQ8/trust-bazaar/internal/host/store/bbolt"
	"github.com/PinoyQ8/trust-bazaar/internal/platform/config"
)

// Entry is one genesis registry record.
type Entry struct {
	Principal host.Principal `json:"principal"`
	Nickname  string         `json:"nickname"`
	Trust     uint32         `json:"trust"`
	Balance   uint64         `json:"balance"`
}

// defaultGenesis is the founding registry shipped with the repo. Deployments
// with their own registry pass -file instead.
var defaultGenesis = []Entry{
	{Principal: "G1", Nickname: "Bazaar Prime", Trust: 100},
	{Principal: "G2", Nickname: "Manila Hub", Trust: 85},
	{Principal: "G3", Nickname: "Kuwait Depot", Trust: 90},
}

// Config holds seed command configuration.
type Config struct {
	StorePath string        `env:"TRUST_BAZAAR_STORE_PATH" envDefault:"data/bazaar.db"`
	Timeout   time.Duration `env:"TRUST_BAZAAR_TOOL_TIMEOUT" envDefault:"1m"`

	File  string
	Admin string
	Force bool
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.StorePath, "store-path", cfg.StorePath, "path to the ledger state database (default: TRUST_BAZAAR_STORE_PATH or data/bazaar.db)")
	fs.StringVar(&cfg.File, "file", "", "path to a JSON genesis registry (default: built-in registry)")
	fs.StringVar(&cfg.Admin, "admin", "", "optional principal to install as admin")
	fs.BoolVar(&cfg.Force, "force", false, "seed even when the ledger already has an admin")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall timeout")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the seed command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}

	entries := defaultGenesis
	if cfg.File != "" {
		loaded, err := loadEntries(cfg.File)
		if err != nil {
			return err
		}
		entries = loaded
	}
	if len(entries) == 0 {
		return errors.New("genesis registry is empty")
	}
	for _, entry := range entries {
		if entry.Principal == "" {
			return errors.New("genesis entry is missing a principal")
		}
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

	ledger := state.NewLedger(kv)
	admin, err := ledger.Admin(ctx)
	if err != nil {
		return fmt.Errorf("read admin: %w", err)
	}
	if admin.Admin != "" && !cfg.Force {
		return fmt.Errorf("ledger already has admin %s; pass -force to seed anyway", admin.Admin)
	}

	for _, entry := range entries {
		if entry.Trust > 0 {
			profile, err := ledger.TrustProfile(ctx, entry.Principal)
			if err != nil {
				return fmt.Errorf("read trust for %s: %w", entry.Principal, err)
			}
			profile.Score = entry.Trust
			if err := ledger.PutTrustProfile(ctx, entry.Principal, profile); err != nil {
				return fmt.Errorf("seed trust for %s: %w", entry.Principal, err)
			}
		}
		if entry.Nickname != "" {
			if err := ledger.PutNickname(ctx, entry.Principal, entry.Nickname); err != nil {
				return fmt.Errorf("seed nickname for %s: %w", entry.Principal, err)
			}
		}
		if entry.Balance > 0 {
			if err := ledger.PutBalance(ctx, entry.Principal, entry.Balance); err != nil {
				return fmt.Errorf("seed balance for %s: %w", entry.Principal, err)
			}
		}
		fmt.Fprintf(out, "seeded %s (%s) trust=%d balance=%d\n", entry.Principal, entry.Nickname, entry.Trust, entry.Balance)
	}

	if cfg.Admin != "" {
		if err := ledger.PutAdmin(ctx, state.AdminState{Admin: host.Principal(cfg.Admin)}); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		fmt.Fprintf(out, "admin set to %s\n", cfg.Admin)
	}
	return nil
}

func loadEntries(path string) ([]Entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read genesis file: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode genesis file: %w", err)
	}
	return entries, nil
}
