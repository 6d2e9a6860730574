package stream

import (
	"encoding/binary"
	"testing"
	"time"

	"angelone-trader/internal/smartapi"
)

func ltpPacket(token string, tsMillis int64, paise int64) []byte {
	data := make([]byte, ltpPacketSize)
	data[0] = ModeLTP
	data[1] = 1 // NSE cash market
	copy(data[2:27], token)
	binary.LittleEndian.PutUint64(data[27:35], 42)
	binary.LittleEndian.PutUint64(data[35:43], uint64(tsMillis))
	binary.LittleEndian.PutUint64(data[43:51], uint64(paise))
	return data
}

func TestDecodeLTP(t *testing.T) {
	ts := time.Date(2025, time.January, 15, 10, 30, 0, 0, time.UTC)
	tick, err := DecodeLTP(ltpPacket("2885", ts.UnixMilli(), 125530))
	if err != nil {
		t.Fatalf("DecodeLTP returned error: %v", err)
	}

	if tick.Token != "2885" {
		t.Errorf("token = %q, want 2885", tick.Token)
	}
	if tick.LTP != 1255.30 {
		t.Errorf("ltp = %v, want 1255.30", tick.LTP)
	}
	if !tick.Ts.Equal(ts) {
		t.Errorf("ts = %v, want %v", tick.Ts, ts)
	}
}

func TestDecodeLTPShortPacket(t *testing.T) {
	if _, err := DecodeLTP(make([]byte, 10)); err == nil {
		t.Fatal("expected error for short packet")
	}
}

func TestDecodeLTPWrongMode(t *testing.T) {
	data := ltpPacket("2885", 0, 100)
	data[0] = 3 // snap-quote mode
	if _, err := DecodeLTP(data); err == nil {
		t.Fatal("expected error for non-LTP mode")
	}
}

func TestTickBufferTrimsToSize(t *testing.T) {
	m := NewManager("key", &smartapi.Session{}, WithBufferSize(3))
	m.ticks["2885"] = make([]Tick, 0, 3)

	for i := 0; i < 5; i++ {
		m.addTick(Tick{Token: "2885", LTP: float64(i)})
	}

	recent, err := m.Recent("2885", 10)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("buffer holds %d ticks, want 3", len(recent))
	}
	if recent[0].LTP != 2 || recent[2].LTP != 4 {
		t.Errorf("buffer = %+v, want ticks 2..4", recent)
	}
}

func TestRecentUnknownToken(t *testing.T) {
	m := NewManager("key", &smartapi.Session{})
	if _, err := m.Recent("404", 1); err == nil {
		t.Fatal("expected error for unknown token")
	}
}

func TestAddTickIgnoresUnsubscribedToken(t *testing.T) {
	m := NewManager("key", &smartapi.Session{})
	m.addTick(Tick{Token: "999", LTP: 1})
	if len(m.ticks) != 0 {
		t.Errorf("unsubscribed tick was buffered: %+v", m.ticks)
	}
}
