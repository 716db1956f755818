package opendota

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"esports-matches-service/internal/domain"
	"esports-matches-service/internal/providers"
)

const (
	providerName   = "opendota"
	defaultBaseURL = "https://api.opendota.com/api"
)

// Config controls how the OpenDota client reaches the upstream API.
type Config struct {
	BaseURL    string
	HTTPClient providers.Doer
	MaxRetries int
	Logger     *slog.Logger
}

// Client fetches professional Dota 2 matches from the OpenDota API.
// OpenDota requires no API key. Safe for concurrent use.
type Client struct {
	baseURL string
	doer    providers.Doer
	logger  *slog.Logger
}

// NewClient constructs an OpenDota client with the provided configuration.
func NewClient(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		baseURL: base,
		doer:    providers.NewRetryingDoer(cfg.HTTPClient, cfg.MaxRetries, cfg.Logger),
		logger:  cfg.Logger,
	}
}

// FetchMatches retrieves recent professional matches. OpenDota only serves
// Dota 2.
func (c *Client) FetchMatches(ctx context.Context, game string) ([]domain.Match, error) {
	if game != "dota2" {
		return nil, fmt.Errorf("opendota: unsupported game %q", game)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/proMatches", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &providers.UpstreamError{
			Source:     providerName,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var payload []proMatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("opendota: decode: %w", err)
	}

	return mapMatches(payload), nil
}
