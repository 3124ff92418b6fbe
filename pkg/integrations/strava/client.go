package strava

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	httputil "github.com/neotrasher/fitness-dashboard/pkg/infrastructure/http"
	"github.com/neotrasher/fitness-dashboard/pkg/types"
)

const defaultBaseURL = "https://www.strava.com/api/v3"

// ErrRateLimited is returned when Strava answers 429. Callers stop the
// current run and resume on the next schedule; the 15-minute window
// makes retrying within a run pointless.
var ErrRateLimited = errors.New("strava: rate limited")

// Client is an API client for Strava. The HTTP client is injected so
// callers can supply an OAuth transport that refreshes tokens.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a Strava API client on top of httpClient. A nil
// httpClient gets a plain client with a sane timeout, which only works
// for unauthenticated testing.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: defaultBaseURL, client: httpClient}
}

// WithBaseURL overrides the API root, for tests against a local server.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

// ListActivitiesParams are parameters for listing athlete activities.
type ListActivitiesParams struct {
	Page    int
	PerPage int
	After   time.Time // only activities started after this instant
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		resp.Body.Close()
		return nil, ErrRateLimited
	}
	if err := httputil.ParseErrorResponse(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return resp, nil
}

// ListActivities retrieves one page of the athlete's activity summaries,
// most recent first. Summaries lack laps, splits and best efforts; those
// require GetActivity.
func (c *Client) ListActivities(ctx context.Context, params ListActivitiesParams) ([]types.APIRecord, error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(params.PerPage))
	}
	if !params.After.IsZero() {
		query.Set("after", strconv.FormatInt(params.After.Unix(), 10))
	}

	resp, err := c.doRequest(ctx, "/athlete/activities", query)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var activities []types.APIRecord
	if err := json.NewDecoder(resp.Body).Decode(&activities); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return activities, nil
}

// GetActivity retrieves the detailed view of a single activity,
// including laps, splits and best efforts.
func (c *Client) GetActivity(ctx context.Context, activityID int64) (*types.APIRecord, error) {
	resp, err := c.doRequest(ctx, fmt.Sprintf("/activities/%d", activityID), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var activity types.APIRecord
	if err := json.NewDecoder(resp.Body).Decode(&activity); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &activity, nil
}
