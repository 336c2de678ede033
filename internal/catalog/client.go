package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/drivesum/drivesum/internal/retry"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 30 * time.Second
	defaultQPS     = 5
)

// Client talks to the remote catalog's JSON API. It is read-only: the two
// operations it exposes never mutate remote state.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	retryCfg   retry.Config
}

// Config holds catalog client configuration. Token is the already-resolved
// bearer credential for the account being queried.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	QPS     float64
	Retry   retry.Config
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.QPS == 0 {
		cfg.QPS = defaultQPS
	}
	if cfg.Retry.Attempts == 0 {
		cfg.Retry = retry.Default()
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		limiter:  rate.NewLimiter(rate.Limit(cfg.QPS), 1),
		retryCfg: cfg.Retry,
	}
}

// FindByName returns every non-trashed catalog record whose name matches
// exactly. An empty result means "not found" and is left to the caller to
// interpret.
func (c *Client) FindByName(ctx context.Context, name string) ([]File, error) {
	query := url.Values{}
	query.Set("name", name)
	query.Set("trashed", "false")

	var out struct {
		Files []File `json:"files"`
	}
	if err := c.getJSON(ctx, "/files?"+query.Encode(), &out); err != nil {
		return nil, fmt.Errorf("failed to look up %q: %w", name, err)
	}

	return out.Files, nil
}

// ListRevisions returns the stored revisions of a file record in the order
// the catalog returns them.
func (c *Client) ListRevisions(ctx context.Context, fileID string) ([]Revision, error) {
	var out struct {
		Revisions []Revision `json:"revisions"`
	}
	if err := c.getJSON(ctx, "/files/"+url.PathEscape(fileID)+"/revisions", &out); err != nil {
		return nil, fmt.Errorf("failed to list revisions of %s: %w", fileID, err)
	}

	for i := range out.Revisions {
		out.Revisions[i].FileID = fileID
	}

	return out.Revisions, nil
}

// getJSON performs one authenticated GET and decodes the body into out.
// Transport errors and 5xx responses are retried within the configured
// bounds; everything else is surfaced as-is.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return retry.Do(ctx, c.retryCfg, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return err
		}

		requestID := uuid.NewString()
		req.Header.Set("X-Request-Id", requestID)
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		log.Debug().
			Str("request_id", requestID).
			Str("url", req.URL.String()).
			Msg("catalog request")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.Transient(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return retry.Transient(fmt.Errorf("catalog returned %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("catalog returned %d", resp.StatusCode)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode catalog response: %w", err)
		}
		return nil
	})
}
