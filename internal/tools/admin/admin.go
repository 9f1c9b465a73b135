// Package admin provides the operator command for administrative ledger
// operations: bootstrap, admin handover, the maintenance gate, trust decay,
// forced unbonding, dispute resolution, and lottery draws.
package admin

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/PinoyQ8/trust-bazaar/internal/bazaar"
	"github.com/PinoyQ8/trust-bazaar/internal/host"
	"github.com/PinoyQ8/trust-bazaar/internal/host/access"
	"github.com/PinoyQ8/trust-bazaar/internal/host/events"
	eventsqlite "github.com/PinoyQ8/trust-bazaar/internal/host/events/sqlite"
	"github.com/PinoyQ8/trust-bazaar/internal/host/store/bbolt"
	"github.com/PinoyQ8/trust-bazaar/internal/platform/config"
	"github.com/PinoyQ8/trust-bazaar/internal/random"
)

// Config holds admin command configuration.
type Config struct {
	StorePath    string        `env:"TRUST_BAZAAR_STORE_PATH" envDefault:"data/bazaar.db"`
	EventsDBPath string        `env:"TRUST_BAZAAR_EVENTS_DB_PATH"`
	Timeout      time.Duration `env:"TRUST_BAZAAR_TOOL_TIMEOUT" envDefault:"1m"`

	Admin          string
	Init           string
	TransferTo     string
	Maintenance    string
	DecayTarget    string
	ForceUnbond    string
	ResolveDispute string
	RunLottery     bool
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.StorePath, "store-path", cfg.StorePath, "path to the ledger state database (default: TRUST_BAZAAR_STORE_PATH or data/bazaar.db)")
	fs.StringVar(&cfg.EventsDBPath, "events-db-path", cfg.EventsDBPath, "optional path to the sqlite event journal (default: TRUST_BAZAAR_EVENTS_DB_PATH)")
	fs.StringVar(&cfg.Admin, "admin", "", "admin principal performing the operation")
	fs.StringVar(&cfg.Init, "init", "", "bootstrap the ledger with this principal as admin")
	fs.StringVar(&cfg.TransferTo, "transfer-to", "", "hand the admin role to this principal")
	fs.StringVar(&cfg.Maintenance, "maintenance", "", "set the maintenance gate (on|off)")
	fs.StringVar(&cfg.DecayTarget, "decay-target", "", "decrement this principal's trust score by one")
	fs.StringVar(&cfg.ForceUnbond, "force-unbond", "", "clear this principal's stake bond and score")
	fs.StringVar(&cfg.ResolveDispute, "resolve-dispute", "", "clear this principal's dispute flag")
	fs.BoolVar(&cfg.RunLottery, "run-lottery", false, "draw the lottery and pay the pool to the winner")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall timeout")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the admin command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}

	actions := 0
	for _, selected := range []bool{
		cfg.Init != "",
		cfg.TransferTo != "",
		cfg.Maintenance != "",
		cfg.DecayTarget != "",
		cfg.ForceUnbond != "",
		cfg.ResolveDispute != "",
		cfg.RunLottery,
	} {
		if selected {
			actions++
		}
	}
	if actions == 0 {
		return errors.New("no action selected; see -help")
	}
	if actions > 1 {
		return errors.New("select exactly one action per invocation")
	}
	if cfg.Init == "" && cfg.Admin == "" {
		return errors.New("-admin is required")
	}

	core, closer, err := openCore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closer(); err != nil {
			fmt.Fprintf(errOut, "warning: close stores: %v\n", err)
		}
	}()

	admin := host.Principal(cfg.Admin)
	switch {
	case cfg.Init != "":
		if err := core.Init(ctx, host.Principal(cfg.Init)); err != nil {
			return fmt.Errorf("init: %w", err)
		}
		fmt.Fprintf(out, "ledger initialized; admin is %s\n", cfg.Init)
	case cfg.TransferTo != "":
		if err := core.TransferAdmin(ctx, admin, host.Principal(cfg.TransferTo)); err != nil {
			return fmt.Errorf("transfer admin: %w", err)
		}
		fmt.Fprintf(out, "admin role transferred to %s\n", cfg.TransferTo)
	case cfg.Maintenance != "":
		var active bool
		switch cfg.Maintenance {
		case "on":
			active = true
		case "off":
			active = false
		default:
			return fmt.Errorf("invalid -maintenance value %q (want on|off)", cfg.Maintenance)
		}
		if err := core.SetMaintenance(ctx, admin, active); err != nil {
			return fmt.Errorf("set maintenance: %w", err)
		}
		fmt.Fprintf(out, "maintenance gate is %s\n", cfg.Maintenance)
	case cfg.DecayTarget != "":
		if err := core.Decay(ctx, admin, host.Principal(cfg.DecayTarget)); err != nil {
			return fmt.Errorf("decay: %w", err)
		}
		score, err := core.GetTrust(ctx, host.Principal(cfg.DecayTarget))
		if err != nil {
			return fmt.Errorf("read trust: %w", err)
		}
		fmt.Fprintf(out, "%s trust score is now %d\n", cfg.DecayTarget, score)
	case cfg.ForceUnbond != "":
		if err := core.ForceUnbond(ctx, admin, host.Principal(cfg.ForceUnbond)); err != nil {
			return fmt.Errorf("force unbond: %w", err)
		}
		fmt.Fprintf(out, "%s unbonded\n", cfg.ForceUnbond)
	case cfg.ResolveDispute != "":
		if err := core.ResolveDispute(ctx, admin, host.Principal(cfg.ResolveDispute)); err != nil {
			return fmt.Errorf("resolve dispute: %w", err)
		}
		fmt.Fprintf(out, "dispute against %s resolved\n", cfg.ResolveDispute)
	case cfg.RunLottery:
		winner, err := core.RunLottery(ctx, admin)
		if err != nil {
			return fmt.Errorf("run lottery: %w", err)
		}
		fmt.Fprintf(out, "lottery winner: %s\n", winner)
	}
	return nil
}

// openCore wires a core over the configured stores. The operator already
// holds the raw database files, so access checks are satisfied trivially.
func openCore(cfg Config) (*bazaar.Core, func() error, error) {
	kv, err := bbolt.Open(cfg.StorePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	var publisher events.Publisher
	var journal *eventsqlite.Journal
	if cfg.EventsDBPath != "" {
		journal, err = eventsqlite.Open(cfg.EventsDBPath)
		if err != nil {
			_ = kv.Close()
			return nil, nil, fmt.Errorf("open event journal: %w", err)
		}
		publisher = journal
	}

	seed, err := random.NewSeed()
	if err != nil {
		_ = kv.Close()
		if journal != nil {
			_ = journal.Close()
		}
		return nil, nil, err
	}

	core, err := bazaar.New(bazaar.Config{
		Store:  kv,
		Access: access.AllowAll(),
		Clock:  host.SystemClock{},
		Random: host.NewSource(seed),
		Events: publisher,
	})
	if err != nil {
		_ = kv.Close()
		if journal != nil {
			_ = journal.Close()
		}
		return nil, nil, err
	}

	closer := func() error {
		err := kv.Close()
		if journal != nil {
			if journalErr := journal.Close(); err == nil {
				err = journalErr
			}
		}
		return err
	}
	return core, closer, nil
}
