package store

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	p := writeConfig(t, "mode: DRY_RUN\n")

	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Exchange != "NSE" {
		t.Errorf("Exchange = %q, want NSE", cfg.Exchange)
	}
	if cfg.Defaults.Symbol != "RELIANCE" || cfg.Defaults.Token != "2885" {
		t.Errorf("defaults = %+v", cfg.Defaults)
	}
	if cfg.Defaults.TradingSymbol != "RELIANCE-EQ" {
		t.Errorf("TradingSymbol = %q, want RELIANCE-EQ", cfg.Defaults.TradingSymbol)
	}
	if cfg.Defaults.Interval != "ONE_DAY" || cfg.Defaults.Days != 30 {
		t.Errorf("defaults = %+v", cfg.Defaults)
	}
	if cfg.Stream.PingSeconds != 30 || cfg.Stream.BufferSize != 200 {
		t.Errorf("stream defaults = %+v", cfg.Stream)
	}
	if cfg.News.MaxHeadlines != 5 {
		t.Errorf("news defaults = %+v", cfg.News)
	}
}

func TestLoadConfigTradingSymbolFollowsSymbol(t *testing.T) {
	p := writeConfig(t, "mode: DRY_RUN\ndefaults:\n  symbol: INFY\n  token: \"1594\"\n")

	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Defaults.TradingSymbol != "INFY-EQ" {
		t.Errorf("TradingSymbol = %q, want INFY-EQ", cfg.Defaults.TradingSymbol)
	}
}

func TestLoadConfigInvalidMode(t *testing.T) {
	p := writeConfig(t, "mode: YOLO\n")
	if _, err := LoadConfig(p); err == nil {
		t.Fatal("expected error for invalid mode")
	}
}

func TestLoadConfigInvalidInterval(t *testing.T) {
	p := writeConfig(t, "mode: DRY_RUN\ndefaults:\n  interval: TWO_DAY\n")
	if _, err := LoadConfig(p); err == nil {
		t.Fatal("expected error for invalid interval")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidateDaysAndQty(t *testing.T) {
	p := writeConfig(t, "mode: DRY_RUN\ndefaults:\n  days: -5\n")
	if _, err := LoadConfig(p); err == nil {
		t.Fatal("expected error for negative days")
	}

	p = writeConfig(t, "mode: DRY_RUN\ndefaults:\n  qty: -1\n")
	if _, err := LoadConfig(p); err == nil {
		t.Fatal("expected error for negative qty")
	}
}
