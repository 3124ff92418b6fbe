package oauth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"

	shared "github.com/neotrasher/fitness-dashboard/pkg"
	"github.com/neotrasher/fitness-dashboard/pkg/types"
)

const (
	stravaAuthURL  = "https://www.strava.com/oauth/authorize"
	stravaTokenURL = "https://www.strava.com/oauth/token"
)

// NewStravaConfig builds the oauth2 endpoint configuration for Strava.
func NewStravaConfig(clientID, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scopes:       []string{"activity:read_all"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  stravaAuthURL,
			TokenURL: stravaTokenURL,
		},
	}
}

// TokenSource returns a valid token.
// It is safe for concurrent use by multiple goroutines.
type TokenSource interface {
	Token(context.Context) (*oauth2.Token, error)
	ForceRefresh(context.Context) (*oauth2.Token, error)
}

// FirestoreTokenSource reads the athlete's Strava credential from the
// store and refreshes it through the oauth2 endpoint when it is expired
// or about to expire. Refreshed tokens are persisted with dotted field
// paths so the rest of the integration sub-object survives.
type FirestoreTokenSource struct {
	db        shared.Database
	athleteID string
	cfg       *oauth2.Config
	mu        sync.Mutex
}

func NewFirestoreTokenSource(db shared.Database, athleteID string, cfg *oauth2.Config) *FirestoreTokenSource {
	return &FirestoreTokenSource{
		db:        db,
		athleteID: athleteID,
		cfg:       cfg,
	}
}

// Token returns a token, refreshing it if necessary.
func (s *FirestoreTokenSource) Token(ctx context.Context) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	integration, err := s.integration(ctx)
	if err != nil {
		return nil, err
	}
	if integration.AccessToken == "" {
		return nil, fmt.Errorf("missing access token for strava")
	}
	if integration.RefreshToken == "" {
		return nil, fmt.Errorf("missing refresh token for strava")
	}

	// Refresh if expired or expiring in the next minute.
	if !integration.ExpiresAt.IsZero() && time.Now().Add(1*time.Minute).After(integration.ExpiresAt) {
		return s.refresh(ctx, integration.RefreshToken)
	}

	return &oauth2.Token{
		AccessToken:  integration.AccessToken,
		RefreshToken: integration.RefreshToken,
		Expiry:       integration.ExpiresAt,
	}, nil
}

// ForceRefresh forcibly refreshes the token regardless of expiry.
func (s *FirestoreTokenSource) ForceRefresh(ctx context.Context) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-read the refresh token in case another process rotated it.
	integration, err := s.integration(ctx)
	if err != nil {
		return nil, err
	}
	if integration.RefreshToken == "" {
		return nil, fmt.Errorf("missing refresh token for strava")
	}
	return s.refresh(ctx, integration.RefreshToken)
}

func (s *FirestoreTokenSource) integration(ctx context.Context) (*types.StravaIntegration, error) {
	athlete, err := s.db.GetAthlete(ctx, s.athleteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get athlete: %w", err)
	}
	if athlete.Strava == nil || !athlete.Strava.Enabled {
		return nil, fmt.Errorf("strava not linked/enabled")
	}
	return athlete.Strava, nil
}

// refresh performs the token exchange and persists the result.
func (s *FirestoreTokenSource) refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	stale := &oauth2.Token{RefreshToken: refreshToken}
	fresh, err := s.cfg.TokenSource(ctx, stale).Token()
	if err != nil {
		return nil, fmt.Errorf("refresh failed: %w", err)
	}

	updateData := map[string]interface{}{
		"strava.access_token": fresh.AccessToken,
		"strava.expires_at":   fresh.Expiry,
		"strava.last_used_at": time.Now(),
	}
	// Strava rotates refresh tokens on every exchange, but guard the
	// write anyway so an empty response never wipes the stored token.
	if fresh.RefreshToken != "" {
		updateData["strava.refresh_token"] = fresh.RefreshToken
	} else {
		fresh.RefreshToken = refreshToken
	}

	if err := s.db.UpdateAthlete(ctx, s.athleteID, updateData); err != nil {
		return nil, fmt.Errorf("failed to persist new tokens: %w", err)
	}

	return fresh, nil
}
