package foreca

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestClient builds a Client against the given fake upstream.
func newTestClient(srv *httptest.Server) *Client {
	tokens := NewTokenSource(srv.Client(), srv.URL, "user", "pass")
	return NewClient(srv.Client(), tokens, srv.URL, time.Hour, discardLogger())
}

func serveToken(mux *http.ServeMux) {
	mux.HandleFunc("/authorize/token", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"access_token":"tok"}`)
	})
}

func TestLocationIDNotFound(t *testing.T) {
	mux := http.NewServeMux()
	serveToken(mux)
	mux.HandleFunc("/api/v1/location/search/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"locations":[]}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(srv)

	_, err := c.LocationID(context.Background(), "Zzyzx")
	var notFound *LocationNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected LocationNotFoundError, got %v", err)
	}
	if notFound.City != "Zzyzx" {
		t.Fatalf("expected queried city in error, got %q", notFound.City)
	}
	if !strings.Contains(err.Error(), "Zzyzx") {
		t.Fatalf("error message should name the queried city: %q", err.Error())
	}
}

func TestLocationIDCachesResolution(t *testing.T) {
	var searches int32
	mux := http.NewServeMux()
	serveToken(mux)
	mux.HandleFunc("/api/v1/location/search/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&searches, 1)
		fmt.Fprint(w, `{"locations":[{"id":102976101,"name":"Bogor"}]}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(srv)

	first, err := c.LocationID(context.Background(), "Bogor")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A second lookup for the same name, differently cased, hits the cache.
	second, err := c.LocationID(context.Background(), "bogor")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second || first != 102976101 {
		t.Fatalf("expected cached id 102976101, got %d and %d", first, second)
	}
	if got := atomic.LoadInt32(&searches); got != 1 {
		t.Fatalf("expected 1 upstream search, got %d", got)
	}
}

func TestLocationIDRateLimited(t *testing.T) {
	mux := http.NewServeMux()
	serveToken(mux)
	mux.HandleFunc("/api/v1/location/search/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(srv)

	if _, err := c.LocationID(context.Background(), "Bogor"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

// TestRejectedTokenInvalidatesSession verifies that a 401 from a data
// endpoint drops the held token so the next call re-exchanges
// credentials instead of resending a dead token.
func TestRejectedTokenInvalidatesSession(t *testing.T) {
	var posts int32
	mux := http.NewServeMux()
	mux.HandleFunc("/authorize/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&posts, 1)
		fmt.Fprint(w, `{"access_token":"tok"}`)
	})
	mux.HandleFunc("/api/v1/current/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(srv)

	if _, err := c.Current(context.Background(), 1); !errors.Is(err, ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
	if _, err := c.Current(context.Background(), 1); !errors.Is(err, ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
	if got := atomic.LoadInt32(&posts); got != 2 {
		t.Fatalf("expected a fresh exchange after rejection, got %d posts", got)
	}
}

func TestCurrentDecodes(t *testing.T) {
	mux := http.NewServeMux()
	serveToken(mux)
	mux.HandleFunc("/api/v1/current/102976101", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("expected bearer token header, got %q", got)
		}
		fmt.Fprint(w, `{"current":{"temperature":28.5,"windSpeed":7.2,"relHumidity":84,"symbolPhrase":"berawan"}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(srv)

	cur, err := c.Current(context.Background(), 102976101)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cur.Temperature != 28.5 || cur.RelHumidity != 84 || cur.SymbolPhrase != "berawan" {
		t.Fatalf("unexpected current weather: %+v", cur)
	}
}

func TestForecastsDecodeInProviderOrder(t *testing.T) {
	mux := http.NewServeMux()
	serveToken(mux)
	mux.HandleFunc("/api/v1/forecast/daily/7", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"forecast":[
			{"date":"2025-06-20","maxTemp":31,"minTemp":23,"symbolPhrase":"cerah"},
			{"date":"2025-06-21","maxTemp":29,"minTemp":22,"symbolPhrase":"hujan"}
		]}`)
	})
	mux.HandleFunc("/api/v1/forecast/hourly/7", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"forecast":[
			{"time":"2025-06-20T06:00+07:00","temperature":24,"symbolPhrase":"berawan"},
			{"time":"2025-06-20T07:00+07:00","temperature":25,"symbolPhrase":"cerah"}
		]}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(srv)

	daily, err := c.Daily(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(daily) != 2 || daily[0].Date != "2025-06-20" || daily[1].SymbolPhrase != "hujan" {
		t.Fatalf("unexpected daily forecast: %+v", daily)
	}

	hourly, err := c.Hourly(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hourly) != 2 || hourly[0].Temperature != 24 {
		t.Fatalf("unexpected hourly forecast: %+v", hourly)
	}
	if h, ok := hourly[1].HourOfDay(); !ok || h != 7 {
		t.Fatalf("expected hour 7, got %d (ok=%v)", h, ok)
	}
}

func TestConditionFromPhrase(t *testing.T) {
	cases := []struct {
		phrase string
		want   Condition
	}{
		{"cerah", ConditionClear},
		{"Mostly sunny", ConditionClear},
		{"berawan", ConditionCloudy},
		{"Overcast", ConditionCloudy},
		{"hujan ringan", ConditionRain},
		{"Light rain showers", ConditionRain},
		{"badai petir", ConditionStorm},
		{"Thunderstorms", ConditionStorm},
		{"kabut", ConditionPartly},
		{"", ConditionPartly},
	}
	for _, tc := range cases {
		if got := ConditionFromPhrase(tc.phrase); got != tc.want {
			t.Errorf("ConditionFromPhrase(%q) = %q, want %q", tc.phrase, got, tc.want)
		}
	}
}
