package tradelog

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAppendAndReadDay(t *testing.T) {
	t.Setenv("TRADER_LOG_DIR", t.TempDir())

	entries := []Entry{
		{Symbol: "RELIANCE-EQ", Side: "BUY", Qty: 1, Price: 0, OrderID: "OID-1", Mode: "LIVE"},
		{Symbol: "RELIANCE-EQ", Side: "SELL", Qty: 1, Price: 1350, OrderID: "OID-2", Mode: "LIVE"},
	}
	for _, e := range entries {
		if err := Append(e); err != nil {
			t.Fatalf("Append returned error: %v", err)
		}
	}

	got, err := ReadDay(istNow())
	if err != nil {
		t.Fatalf("ReadDay returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].OrderID != "OID-1" || got[1].Side != "SELL" {
		t.Errorf("entries = %+v", got)
	}
	if got[0].Time == "" {
		t.Error("entry time was not stamped")
	}
}

func TestReadDayMissingFile(t *testing.T) {
	t.Setenv("TRADER_LOG_DIR", t.TempDir())

	got, err := ReadDay(istNow())
	if err != nil {
		t.Fatalf("ReadDay returned error: %v", err)
	}
	if got != nil {
		t.Errorf("entries = %+v, want nil for a day with no journal", got)
	}
}

func TestCompressOlder(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TRADER_LOG_DIR", dir)

	old := istNow().AddDate(0, 0, -10).Format("2006-01-02") + ".txt"
	if err := os.WriteFile(filepath.Join(dir, old), []byte(`{"Symbol":"X"}`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Append(Entry{Symbol: "RELIANCE-EQ", Side: "BUY", OrderID: "OID-1"}); err != nil {
		t.Fatal(err)
	}

	if err := CompressOlder(7); err != nil {
		t.Fatalf("CompressOlder returned error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, old)); !os.IsNotExist(err) {
		t.Errorf("old journal still present: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, old+".gz")); err != nil {
		t.Errorf("compressed journal missing: %v", err)
	}

	// Today's file stays untouched.
	today := istNow().Format("2006-01-02") + ".txt"
	if _, err := os.Stat(filepath.Join(dir, today)); err != nil {
		t.Errorf("today's journal was compressed: %v", err)
	}
}

func TestCompressOlderDisabled(t *testing.T) {
	t.Setenv("TRADER_LOG_DIR", t.TempDir())
	if err := CompressOlder(0); err != nil {
		t.Fatalf("CompressOlder(0) returned error: %v", err)
	}
}

func TestRetentionDays(t *testing.T) {
	t.Setenv("TRADER_LOG_RETENTION_DAYS", "")
	if got := RetentionDays(); got != 30 {
		t.Errorf("default retention = %d, want 30", got)
	}

	t.Setenv("TRADER_LOG_RETENTION_DAYS", "7")
	if got := RetentionDays(); got != 7 {
		t.Errorf("retention = %d, want 7", got)
	}

	t.Setenv("TRADER_LOG_RETENTION_DAYS", "soon")
	if got := RetentionDays(); got != 30 {
		t.Errorf("retention for junk value = %d, want 30", got)
	}
}

func TestDailyFilepathUsesIST(t *testing.T) {
	t.Setenv("TRADER_LOG_DIR", "logs")
	d := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.FixedZone("IST", 19800))
	want := filepath.Join("logs", "2025-03-03.txt")
	if got := dailyFilepath(d); got != want {
		t.Errorf("dailyFilepath = %q, want %q", got, want)
	}
}
