package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123456:test-token")
	t.Setenv("ADMIN_IDS", "1001, 1002")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.AppEnv != EnvDev {
		t.Fatalf("expected dev env, got %q", cfg.AppEnv)
	}
	if cfg.MongoURI != "mongodb://localhost:27017" {
		t.Fatalf("unexpected mongo uri %q", cfg.MongoURI)
	}
	if cfg.ReconcileInterval != time.Minute {
		t.Fatalf("unexpected reconcile interval %s", cfg.ReconcileInterval)
	}
	if cfg.AvgKillsEstimate != 3 {
		t.Fatalf("unexpected avg kills estimate %d", cfg.AvgKillsEstimate)
	}
	if len(cfg.AdminIDs) != 2 || cfg.AdminIDs[0] != "1001" || cfg.AdminIDs[1] != "1002" {
		t.Fatalf("unexpected admin ids %v", cfg.AdminIDs)
	}
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("ADMIN_IDS", "1001")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without bot token")
	}
}

func TestLoadRequiresAdmins(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123456:test-token")
	t.Setenv("ADMIN_IDS", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without admin ids")
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123456:test-token")
	t.Setenv("ADMIN_IDS", "1001")
	t.Setenv("RECONCILE_INTERVAL", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestIsAdmin(t *testing.T) {
	cfg := Config{AdminIDs: []string{"1001", "1002"}}

	if !cfg.IsAdmin("1001") {
		t.Fatal("expected 1001 to be admin")
	}
	if cfg.IsAdmin("2002") {
		t.Fatal("expected 2002 to not be admin")
	}
}
