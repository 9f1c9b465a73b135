package seed

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/PinoyQ8/trust-bazaar/internal/bazaar/state"
	"github.com/PinoyQ8/trust-bazaar/internal/host/store/bbolt"
)

func TestRunSeedsDefaultGenesis(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "bazaar.db")
	cfg := Config{StorePath: storePath, Admin: "G1"}
	var out bytes.Buffer

	if err := Run(context.Background(), cfg, &out, nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	kv, err := bbolt.Open(storePath)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer kv.Close()
	ledger := state.NewLedger(kv)
	ctx := context.Background()

	profile, err := ledger.TrustProfile(ctx, "G1")
	if err != nil {
		t.Fatalf("trust: %v", err)
	}
	if profile.Score != 100 {
		t.Fatalf("expected G1 trust 100, got %d", profile.Score)
	}
	name, err := ledger.Nickname(ctx, "G2")
	if err != nil {
		t.Fatalf("nickname: %v", err)
	}
	if name != "Manila Hub" {
		t.Fatalf("expected Manila Hub, got %q", name)
	}
	owner, found, err := ledger.PrincipalByNickname(ctx, "Kuwait Depot")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !found || owner != "G3" {
		t.Fatalf("expected G3, got %q (found=%v)", owner, found)
	}
	admin, err := ledger.Admin(ctx)
	if err != nil {
		t.Fatalf("admin: %v", err)
	}
	if admin.Admin != "G1" {
		t.Fatalf("expected admin G1, got %q", admin.Admin)
	}
}

func TestRunRefusesSeededLedgerWithoutForce(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "bazaar.db")
	ctx := context.Background()

	if err := Run(ctx, Config{StorePath: storePath, Admin: "G1"}, nil, nil); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := Run(ctx, Config{StorePath: storePath}, nil, nil); err == nil {
		t.Fatal("expected error re-seeding without -force")
	}
	if err := Run(ctx, Config{StorePath: storePath, Force: true}, nil, nil); err != nil {
		t.Fatalf("forced re-seed: %v", err)
	}
}

func TestRunLoadsGenesisFile(t *testing.T) {
	dir := t.TempDir()
	genesisPath := filepath.Join(dir, "genesis.json")
	registry := `[{"principal":"H1","nickname":"Harbor One","trust":70,"balance":25}]`
	if err := os.WriteFile(genesisPath, []byte(registry), 0o600); err != nil {
		t.Fatalf("write genesis: %v", err)
	}

	storePath := filepath.Join(dir, "bazaar.db")
	if err := Run(context.Background(), Config{StorePath: storePath, File: genesisPath}, nil, nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	kv, err := bbolt.Open(storePath)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer kv.Close()
	ledger := state.NewLedger(kv)
	balance, err := ledger.Balance(context.Background(), "H1")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 25 {
		t.Fatalf("expected opening balance 25, got %d", balance)
	}
}

func TestParseConfigReadsFlags(t *testing.T) {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-store-path", "x.db", "-admin", "G1", "-force"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.StorePath != "x.db" || cfg.Admin != "G1" || !cfg.Force {
		t.Fatalf("unexpected config %+v", cfg)
	}
}
