// Package tradelog appends order events to daily JSONL files.
package tradelog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

var mu sync.Mutex

// Entry is one journaled order event.
type Entry struct {
	Time    string
	Symbol  string
	Side    string
	OrderID string
	Mode    string
	Qty     int
	Price   float64
	Extra   map[string]any `json:"extra,omitempty"`
}

func logDir() string {
	if v := os.Getenv("TRADER_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}

func istNow() time.Time {
	return time.Now().In(time.FixedZone("IST", 19800))
}

func dailyFilepath(t time.Time) string {
	return filepath.Join(logDir(), t.Format("2006-01-02")+".txt")
}

// Append writes e to today's journal file, stamping it with IST time.
func Append(e Entry) error {
	mu.Lock()
	defer mu.Unlock()
	now := istNow()
	e.Time = now.Format("2006-01-02 15:04:05")
	p := dailyFilepath(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, _ := json.Marshal(e)
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// ReadDay returns the entries journaled on the given IST date.
func ReadDay(t time.Time) ([]Entry, error) {
	mu.Lock()
	defer mu.Unlock()

	f, err := os.Open(dailyFilepath(t))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	dec := json.NewDecoder(f)
	for {
		var e Entry
		if err := dec.Decode(&e); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// RetentionDays reads TRADER_LOG_RETENTION_DAYS, defaulting to 30.
func RetentionDays() int {
	v := os.Getenv("TRADER_LOG_RETENTION_DAYS")
	if v == "" {
		return 30
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 30
	}
	return n
}

// CompressOlder gzips journal files older than the given number of days
// and removes the originals. days <= 0 disables compression.
func CompressOlder(days int) error {
	if days <= 0 {
		return nil
	}
	mu.Lock()
	defer mu.Unlock()

	cutoff := istNow().AddDate(0, 0, -days)

	matches, err := filepath.Glob(filepath.Join(logDir(), "*.txt"))
	if err != nil {
		return err
	}

	for _, p := range matches {
		base := filepath.Base(p)
		d, err := time.Parse("2006-01-02", base[:len(base)-len(".txt")])
		if err != nil {
			continue
		}
		if !d.Before(cutoff) {
			continue
		}
		if err := gzipFile(p); err != nil {
			return err
		}
	}
	return nil
}

func gzipFile(path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(path + ".gz")
	if err != nil {
		return err
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	if _, err := io.Copy(gz, in); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}

	return os.Remove(path)
}
