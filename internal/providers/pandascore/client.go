package pandascore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"esports-matches-service/internal/domain"
	"esports-matches-service/internal/providers"
)

// Config controls how the PandaScore client reaches the upstream API.
type Config struct {
	BaseURL    string
	Token      string
	HTTPClient providers.Doer
	MaxRetries int
	Logger     *slog.Logger
}

// Client fetches matches from the PandaScore API and maps them to domain
// models. Safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	doer    providers.Doer
	logger  *slog.Logger
}

// NewClient constructs a PandaScore client with the provided configuration.
func NewClient(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		baseURL: base,
		token:   cfg.Token,
		doer:    providers.NewRetryingDoer(cfg.HTTPClient, cfg.MaxRetries, cfg.Logger),
		logger:  cfg.Logger,
	}
}

// FetchMatches retrieves matches for the given game.
func (c *Client) FetchMatches(ctx context.Context, game string) ([]domain.Match, error) {
	if c.token == "" {
		return nil, fmt.Errorf("pandascore: %w: no token configured", providers.ErrSourceUnavailable)
	}

	req, err := c.buildRequest(ctx, game)
	if err != nil {
		return nil, err
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &providers.RateLimitError{
			Source:     providerName,
			StatusCode: resp.StatusCode,
			RetryAfter: retryAfter(resp),
		}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &providers.UpstreamError{
			Source:     providerName,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var payload []matchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("pandascore: decode: %w", err)
	}

	return mapMatches(payload, game, c.logger), nil
}

func (c *Client) buildRequest(ctx context.Context, game string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/matches", nil)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("page[size]", strconv.Itoa(defaultOnePage))
	if slug, ok := videogameSlugs[game]; ok {
		q.Set("filter[videogame]", slug)
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func retryAfter(resp *http.Response) time.Duration {
	raw := resp.Header.Get("Retry-After")
	if raw == "" {
		return 0
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
