package optionchain

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const chainJSON = `{
  "records": {
    "expiryDates": ["29-Jan-2026", "26-Feb-2026", "26-Mar-2026"],
    "underlyingValue": 1255.3,
    "data": [
      {"strikePrice": 1300, "expiryDate": "26-Feb-2026",
       "CE": {"lastPrice": 12.5, "openInterest": 1500},
       "PE": {"lastPrice": 55.0, "openInterest": 900}},
      {"strikePrice": 1250, "expiryDate": "26-Feb-2026",
       "CE": {"lastPrice": 35.0, "openInterest": 2000}},
      {"strikePrice": 1250, "expiryDate": "26-Mar-2026",
       "CE": {"lastPrice": 60.0, "openInterest": 100}}
    ]
  }
}`

func chainServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			// Cookie-priming request.
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.URL.Path != "/api/option-chain-equities" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("symbol") != "RELIANCE" {
			t.Errorf("symbol = %q", r.URL.Query().Get("symbol"))
		}
		w.Write([]byte(chainJSON))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchFiltersByExpiry(t *testing.T) {
	srv := chainServer(t)
	client := NewClient().WithBaseURL(srv.URL)

	expiry := time.Date(2026, time.February, 26, 0, 0, 0, 0, time.UTC)
	chain, err := client.Fetch(context.Background(), "RELIANCE", expiry)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	if chain.Underlying != 1255.3 {
		t.Errorf("underlying = %v", chain.Underlying)
	}
	if len(chain.Strikes) != 2 {
		t.Fatalf("got %d strikes, want 2 (March row must be filtered out)", len(chain.Strikes))
	}

	// Strikes are sorted ascending.
	if chain.Strikes[0].StrikePrice != 1250 || chain.Strikes[1].StrikePrice != 1300 {
		t.Errorf("strikes = %+v", chain.Strikes)
	}

	// A row with no PE leg leaves the put fields zero.
	if chain.Strikes[0].CallLTP != 35.0 || chain.Strikes[0].PutLTP != 0 {
		t.Errorf("strike 1250 = %+v", chain.Strikes[0])
	}
	if chain.Strikes[1].CallOI != 1500 || chain.Strikes[1].PutOI != 900 {
		t.Errorf("strike 1300 = %+v", chain.Strikes[1])
	}
}

func TestFetchFallsForwardToNearestExpiry(t *testing.T) {
	srv := chainServer(t)
	client := NewClient().WithBaseURL(srv.URL)

	// Feb 20 is not a listed expiry; the nearest later one is Feb 26.
	want := time.Date(2026, time.February, 26, 0, 0, 0, 0, time.UTC)
	chain, err := client.Fetch(context.Background(), "RELIANCE", want.AddDate(0, 0, -6))
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if !chain.Expiry.Equal(want) {
		t.Errorf("expiry = %s, want %s", chain.Expiry.Format(nseDateLayout), want.Format(nseDateLayout))
	}
}

func TestFetchNoLaterExpiry(t *testing.T) {
	srv := chainServer(t)
	client := NewClient().WithBaseURL(srv.URL)

	past := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
	if _, err := client.Fetch(context.Background(), "RELIANCE", past); err == nil {
		t.Fatal("expected error when no listed expiry is on or after the target")
	}
}

func TestResolveExpiryExactMatch(t *testing.T) {
	listed := []string{"29-Jan-2026", "26-Feb-2026"}
	want := time.Date(2026, time.January, 29, 0, 0, 0, 0, time.UTC)

	got, err := resolveExpiry(listed, want)
	if err != nil {
		t.Fatalf("resolveExpiry returned error: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("got %s, want %s", got, want)
	}
}
