package inspect

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PinoyQ8/trust-bazaar/internal/bazaar/state"
	"github.com/PinoyQ8/trust-bazaar/internal/host/events"
	eventsqlite "github.com/PinoyQ8/trust-bazaar/internal/host/events/sqlite"
	"github.com/PinoyQ8/trust-bazaar/internal/host/store/bbolt"
)

func seedStore(t *testing.T, storePath string) {
	t.Helper()
	kv, err := bbolt.Open(storePath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer kv.Close()
	ledger := state.NewLedger(kv)
	ctx := context.Background()

	if err := ledger.PutBalance(ctx, "G1", 75); err != nil {
		t.Fatalf("seed balance: %v", err)
	}
	if err := ledger.PutTrustProfile(ctx, "G1", state.TrustProfile{Score: 100}); err != nil {
		t.Fatalf("seed trust: %v", err)
	}
	if err := ledger.PutNickname(ctx, "G1", "Bazaar Prime"); err != nil {
		t.Fatalf("seed nickname: %v", err)
	}
}

func TestRunDumpsPrincipalAsJSON(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "bazaar.db")
	seedStore(t, storePath)

	var out bytes.Buffer
	cfg := Config{StorePath: storePath, Principal: "G1", JSONOutput: true}
	if err := Run(context.Background(), cfg, &out, nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	var report principalReport
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Balance != 75 || report.Trust != 100 || report.Nickname != "Bazaar Prime" {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestRunDumpsPrincipalAsText(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "bazaar.db")
	seedStore(t, storePath)

	var out bytes.Buffer
	if err := Run(context.Background(), Config{StorePath: storePath, Principal: "G1"}, &out, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "balance=75") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunListsEvents(t *testing.T) {
	eventsPath := filepath.Join(t.TempDir(), "events.db")
	journal, err := eventsqlite.Open(eventsPath)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	if err := journal.Publish(context.Background(), events.Event{Topic: "vouch", At: 10}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := journal.Close(); err != nil {
		t.Fatalf("close journal: %v", err)
	}

	var out bytes.Buffer
	cfg := Config{EventsDBPath: eventsPath, Events: true, Limit: 10}
	if err := Run(context.Background(), cfg, &out, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "vouch") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunRequiresTarget(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "bazaar.db")

	if err := Run(context.Background(), Config{StorePath: storePath}, nil, nil); err == nil {
		t.Fatal("expected error for missing target")
	}
}

func TestParseConfigReadsFlags(t *testing.T) {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-principal", "G1", "-json"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Principal != "G1" || !cfg.JSONOutput {
		t.Fatalf("unexpected config %+v", cfg)
	}
}
