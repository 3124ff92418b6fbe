package oauth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	shared "github.com/neotrasher/fitness-dashboard/pkg"
)

// Transport is an http.RoundTripper that authenticates all requests
// using the provided TokenSource.
type Transport struct {
	// Source supplies the token to be used.
	Source TokenSource

	// Base is the base RoundTripper used to make the actual HTTP requests.
	// If nil, http.DefaultTransport is used.
	Base http.RoundTripper
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	// Proactive expiry check happens inside the token source.
	ctx := req.Context()
	token, err := t.Source.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("oauth: cannot get token: %w", err)
	}

	req2 := cloneRequest(req)
	req2.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := base.RoundTrip(req2)
	if err != nil {
		return nil, err
	}

	// Reactive retry: a 401 means the stored token went bad before its
	// recorded expiry (revoked or rotated elsewhere).
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()

		slog.Warn("Got 401 Unauthorized, attempting force refresh", "url", req.URL.String())

		token, err = t.Source.ForceRefresh(ctx)
		if err != nil {
			return nil, fmt.Errorf("oauth: force refresh failed: %w", err)
		}

		req2.Header.Set("Authorization", "Bearer "+token.AccessToken)
		return base.RoundTrip(req2)
	}

	return resp, nil
}

// cloneRequest returns a clone of the provided *http.Request.
// The clone is a shallow copy of the struct and its Header map.
func cloneRequest(r *http.Request) *http.Request {
	r2 := new(http.Request)
	*r2 = *r
	r2.Header = make(http.Header, len(r.Header))
	for k, s := range r.Header {
		r2.Header[k] = append([]string(nil), s...)
	}
	return r2
}

// UsageTrackingTransport wraps a RoundTripper and updates the athlete's
// strava.last_used_at timestamp on successful requests.
type UsageTrackingTransport struct {
	Base      http.RoundTripper
	DB        shared.Database
	AthleteID string
}

func (t *UsageTrackingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	resp, err := base.RoundTrip(req)

	// Track usage asynchronously; a failed bookkeeping write must not
	// fail the API call.
	if err == nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			updateErr := t.DB.UpdateAthlete(ctx, t.AthleteID, map[string]interface{}{
				"strava.last_used_at": time.Now(),
			})
			if updateErr != nil {
				slog.Warn("Failed to track usage", "athlete_id", t.AthleteID, "error", updateErr)
			}
		}()
	}

	return resp, err
}

// NewClient creates an HTTP client that handles OAuth transparently and
// tracks usage in the athlete document.
func NewClient(source TokenSource, db shared.Database, athleteID string) *http.Client {
	// Stack: Client -> UsageTracking -> OAuth -> Network
	oauthTransport := &Transport{Source: source}

	usageTransport := &UsageTrackingTransport{
		Base:      oauthTransport,
		DB:        db,
		AthleteID: athleteID,
	}

	return &http.Client{
		Transport: usageTransport,
		Timeout:   30 * time.Second,
	}
}
