package connectors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"
)

// ErrFeedUnavailable marks a transport failure or non-2xx answer from the
// liquidity feed. The client performs no retries on purpose: a failed fetch
// aborts the current reconciliation pass and the next tick simply tries again.
var ErrFeedUnavailable = errors.New("liquidity feed unavailable")

// FeedToken is the per-token metadata block of the feed payload, keyed by the
// token's external identifier.
type FeedToken struct {
	Precision int    `json:"precision"`
	LogoURI   string `json:"logoUrlProxy"`
}

// FeedPair is one undirected pair as reported by the feed. Reserves arrive as
// strings and may be unparsable garbage; FilterValidPairs drops those rows.
type FeedPair struct {
	Token0ID string `json:"token0_id"`
	Token1ID string `json:"token1_id"`
	PairID   string `json:"pair_id"`
	Reserve0 string `json:"reserve0"`
	Reserve1 string `json:"reserve1"`
}

// FeedSnapshot is the raw result of one feed fetch.
type FeedSnapshot struct {
	Tokens map[string]FeedToken `json:"tokens"`
	Pairs  []FeedPair           `json:"pairs"`
}

// FeedClient fetches raw token/pair/liquidity data from one external market.
type FeedClient struct {
	baseURL string
	http    *resty.Client
}

func NewFeedClient(baseURL string, timeout time.Duration) *FeedClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	return &FeedClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// FetchPairs performs the single GET against the feed and decodes the
// snapshot. Any transport error or non-2xx status wraps ErrFeedUnavailable.
func (c *FeedClient) FetchPairs(ctx context.Context) (*FeedSnapshot, error) {
	var snapshot FeedSnapshot

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&snapshot).
		Get("/api/pairs")

	if err != nil {
		logger.WithError(err).Error("Feed request failed")
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}

	if !resp.IsSuccess() {
		logger.WithField("status", resp.StatusCode()).Error("Feed returned non-2xx status")
		return nil, fmt.Errorf("%w: status %d", ErrFeedUnavailable, resp.StatusCode())
	}

	logger.WithFields(map[string]interface{}{
		"tokens": len(snapshot.Tokens),
		"pairs":  len(snapshot.Pairs),
	}).Debug("Feed snapshot fetched")

	return &snapshot, nil
}

// ExtractSymbol derives the canonical symbol from a feed token identifier:
// the substring before the first hyphen, upper-cased. An empty identifier has
// no symbol.
func ExtractSymbol(externalID string) (string, bool) {
	if externalID == "" {
		return "", false
	}
	symbol := externalID
	if idx := strings.Index(externalID, "-"); idx >= 0 {
		symbol = externalID[:idx]
	}
	if symbol == "" {
		return "", false
	}
	return strings.ToUpper(symbol), true
}

// FilterValidPairs keeps pairs whose reserves both parse as numbers and are
// at least minReserve. Unparsable pairs are dropped silently, not errors.
func FilterValidPairs(pairs []FeedPair, minReserve decimal.Decimal) []FeedPair {
	valid := make([]FeedPair, 0, len(pairs))

	for _, pair := range pairs {
		reserve0, err := decimal.NewFromString(pair.Reserve0)
		if err != nil {
			continue
		}
		reserve1, err := decimal.NewFromString(pair.Reserve1)
		if err != nil {
			continue
		}
		if reserve0.LessThan(minReserve) || reserve1.LessThan(minReserve) {
			continue
		}
		valid = append(valid, pair)
	}

	return valid
}

// BuildLogoURL passes absolute URLs through and prefixes everything else
// with the feed's base URL.
func (c *FeedClient) BuildLogoURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}
