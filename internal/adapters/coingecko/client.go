package coingecko

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"pythia/pkg/errors"
)

const (
	defaultBaseURL     = "https://api.coingecko.com"
	defaultHTTPTimeout = 10 * time.Second
)

// Config configures the CoinGecko client
type Config struct {
	BaseURL string

	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client is a minimal CoinGecko spot-price client, used as the last rung of
// the price fallback chain.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a new CoinGecko client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultHTTPTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{cfg: cfg, httpClient: httpClient}
}

// SimplePrice fetches the current USD price for a CoinGecko asset id
func (c *Client) SimplePrice(ctx context.Context, assetID string) (decimal.Decimal, error) {
	params := url.Values{
		"ids":           []string{assetID},
		"vs_currencies": []string{"usd"},
	}

	reqURL := c.cfg.BaseURL + "/api/v3/simple/price?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return decimal.Zero, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, err
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return decimal.Zero, errors.Wrapf(errors.ErrRateLimitExceeded, "coingecko http %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return decimal.Zero, errors.Newf("coingecko http %d: %s", resp.StatusCode, string(payload))
	}

	// Response shape: {"bitcoin": {"usd": 64210.12}}
	var res map[string]map[string]json.Number
	if err := json.Unmarshal(payload, &res); err != nil {
		return decimal.Zero, err
	}

	quote, ok := res[assetID]
	if !ok {
		return decimal.Zero, errors.Wrapf(errors.ErrNotFound, "asset %q", assetID)
	}

	usd, ok := quote["usd"]
	if !ok {
		return decimal.Zero, errors.Wrapf(errors.ErrNotFound, "usd quote for %q", assetID)
	}

	d, err := decimal.NewFromString(usd.String())
	if err != nil {
		return decimal.Zero, err
	}
	return d, nil
}
