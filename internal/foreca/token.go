package foreca

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// tokenExpireHours is requested from the provider on the credential
	// exchange; the issued token is valid for this window.
	tokenExpireHours = 2

	// tokenSkew forces re-acquisition slightly before the provider-side
	// expiry so an almost-stale token is never sent.
	tokenSkew = 5 * time.Minute
)

// TokenSource owns the bearer token for the weather provider. It is an
// explicit session object: construct one at the composition root and
// hand it to every Client that needs authenticated access.
//
// Concurrent callers that arrive while an acquisition is in flight share
// the single outstanding credential exchange. A failed exchange is not
// memoized, so the next caller retries.
type TokenSource struct {
	client   *http.Client
	baseURL  string
	user     string
	password string

	group singleflight.Group

	now func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewTokenSource creates a TokenSource for the given credentials.
func NewTokenSource(client *http.Client, baseURL, user, password string) *TokenSource {
	return &TokenSource{
		client:   client,
		baseURL:  baseURL,
		user:     user,
		password: password,
		now:      time.Now,
	}
}

// Token returns a valid bearer token, exchanging credentials on first
// use or after the held token went stale.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	if tok, ok := ts.cached(); ok {
		return tok, nil
	}

	v, err, _ := ts.group.Do("token", func() (interface{}, error) {
		// A caller queued behind a completed acquisition reuses its result.
		if tok, ok := ts.cached(); ok {
			return tok, nil
		}
		return ts.exchange(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate drops the held token. Called when the provider rejects it
// so the next request triggers a fresh exchange.
func (ts *TokenSource) Invalidate() {
	ts.mu.Lock()
	ts.token = ""
	ts.expiry = time.Time{}
	ts.mu.Unlock()
}

func (ts *TokenSource) cached() (string, bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.token != "" && ts.now().Before(ts.expiry) {
		return ts.token, true
	}
	return "", false
}

func (ts *TokenSource) exchange(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{
		"user":     ts.user,
		"password": ts.password,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}

	u := fmt.Sprintf("%s/authorize/token?expire_hours=%d", ts.baseURL, tokenExpireHours)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: credential exchange returned status %d", ErrAuth, resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("%w: credential exchange returned an empty token", ErrAuth)
	}

	ts.mu.Lock()
	ts.token = payload.AccessToken
	ts.expiry = ts.now().Add(tokenExpireHours*time.Hour - tokenSkew)
	ts.mu.Unlock()

	return payload.AccessToken, nil
}
