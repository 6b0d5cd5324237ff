package screen

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	"github.com/adisdwi/cuaca-api/internal/airquality"
	"github.com/adisdwi/cuaca-api/internal/foreca"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// weatherUpstream is a fake Foreca endpoint set with tweakable handlers
// and a counter on the credential exchange.
type weatherUpstream struct {
	srv        *httptest.Server
	tokenPosts int32

	dailyStatus  atomic.Int32
	hourlyStatus atomic.Int32
}

func newWeatherUpstream() *weatherUpstream {
	u := &weatherUpstream{}
	u.dailyStatus.Store(http.StatusOK)
	u.hourlyStatus.Store(http.StatusOK)

	mux := http.NewServeMux()
	mux.HandleFunc("/authorize/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&u.tokenPosts, 1)
		// Keep the exchange open briefly so overlapping loads pile up on it.
		time.Sleep(30 * time.Millisecond)
		fmt.Fprint(w, `{"access_token":"tok"}`)
	})
	mux.HandleFunc("/api/v1/location/search/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"locations":[{"id":102976101,"name":"Bogor"}]}`)
	})
	mux.HandleFunc("/api/v1/forecast/daily/", func(w http.ResponseWriter, r *http.Request) {
		if status := int(u.dailyStatus.Load()); status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		fmt.Fprint(w, `{"forecast":[
			{"date":"2025-06-20","maxTemp":31,"minTemp":23,"symbolPhrase":"cerah"},
			{"date":"2025-06-21","maxTemp":29,"minTemp":22,"symbolPhrase":"hujan"}
		]}`)
	})
	mux.HandleFunc("/api/v1/forecast/hourly/", func(w http.ResponseWriter, r *http.Request) {
		if status := int(u.hourlyStatus.Load()); status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		fmt.Fprint(w, `{"forecast":[
			{"time":"2025-06-20T06:00+07:00","temperature":24,"symbolPhrase":"berawan"},
			{"time":"2025-06-20T09:00+07:00","temperature":27,"symbolPhrase":"cerah"},
			{"time":"2025-06-20T12:00+07:00","temperature":30,"symbolPhrase":"cerah"},
			{"time":"2025-06-20T15:00+07:00","temperature":28,"symbolPhrase":"berawan"}
		]}`)
	})
	mux.HandleFunc("/api/v1/current/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"current":{"temperature":28.5,"windSpeed":7.2,"relHumidity":84,"symbolPhrase":"berawan"}}`)
	})

	u.srv = httptest.NewServer(mux)
	return u
}

func (u *weatherUpstream) close() { u.srv.Close() }

func (u *weatherUpstream) client() *foreca.Client {
	tokens := foreca.NewTokenSource(u.srv.Client(), u.srv.URL, "user", "pass")
	return foreca.NewClient(u.srv.Client(), tokens, u.srv.URL, time.Hour, discardLogger())
}

// airUpstream serves a fixed successful pollution payload, optionally
// delayed to trigger client-side timeouts.
func airUpstream(delay time.Duration) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if delay > 0 {
			time.Sleep(delay)
		}
		fmt.Fprint(w, `{
			"status": "success",
			"data": {"current": {"pollution": {"aqius": 55, "mainus": "p2", "p2": {"conc": 12.5}, "p1": {"conc": 30.1}}}}
		}`)
	}))
}

func airClientFor(srv *httptest.Server, timeout time.Duration) *airquality.Client {
	return airquality.NewClient(srv.Client(), srv.URL, "key", timeout, discardLogger())
}
