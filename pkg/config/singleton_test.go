package config

import (
	"sync"
	"testing"
)

func resetGlobal() {
	SetConfig(nil)
	initOnce = sync.Once{}
}

func TestInitialize(t *testing.T) {
	resetGlobal()
	t.Cleanup(resetGlobal)

	path := writeConfig(t, `
store:
  path: "init.db"
`)

	if err := Initialize(path); err != nil {
		t.Fatalf("failed to initialize config: %v", err)
	}

	cfg := GetConfig()
	if cfg == nil {
		t.Fatal("expected non-nil config after initialization")
	}
	if cfg.Store.Path != "init.db" {
		t.Errorf("expected store path %q, got %q", "init.db", cfg.Store.Path)
	}
}

func TestInitialize_MultipleCallsIgnored(t *testing.T) {
	resetGlobal()
	t.Cleanup(resetGlobal)

	first := writeConfig(t, "store:\n  path: first.db\n")
	second := writeConfig(t, "store:\n  path: second.db\n")

	if err := Initialize(first); err != nil {
		t.Fatalf("failed to initialize config: %v", err)
	}
	if err := Initialize(second); err != nil {
		t.Fatalf("second Initialize returned error: %v", err)
	}

	if got := GetConfig().Store.Path; got != "first.db" {
		t.Errorf("expected first config to win, got %q", got)
	}
}

func TestReloadConfig(t *testing.T) {
	resetGlobal()
	t.Cleanup(resetGlobal)

	SetConfig(Default())

	path := writeConfig(t, "store:\n  path: reloaded.db\n")
	cfg, err := ReloadConfig(path)
	if err != nil {
		t.Fatalf("ReloadConfig() failed: %v", err)
	}
	if cfg.Store.Path != "reloaded.db" || GetConfig().Store.Path != "reloaded.db" {
		t.Errorf("expected reloaded path, got %q", GetConfig().Store.Path)
	}
}

func TestReloadConfig_InvalidKeepsCurrent(t *testing.T) {
	resetGlobal()
	t.Cleanup(resetGlobal)

	current := Default()
	SetConfig(current)

	path := writeConfig(t, "store:\n  backend: nope\n")
	if _, err := ReloadConfig(path); err == nil {
		t.Fatal("expected reload error")
	}
	if GetConfig() != current {
		t.Error("expected current configuration to be kept")
	}
}

func TestMustGetConfig_Panics(t *testing.T) {
	resetGlobal()
	t.Cleanup(resetGlobal)

	defer func() {
		if recover() == nil {
			t.Error("expected panic when configuration is not initialized")
		}
	}()
	MustGetConfig()
}
