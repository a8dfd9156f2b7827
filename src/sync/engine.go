package sync

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"
	"time"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"dcaexecutor/src/connectors"
	"dcaexecutor/src/model"
	"dcaexecutor/src/repository"
)

// ErrGatewayNotFound means the configured gateway row is missing from the
// catalog. That is a configuration error and fatal for the pass.
var ErrGatewayNotFound = errors.New("gateway not found")

const (
	ReasonAlreadyRunning  = "already_running"
	ReasonGatewayDisabled = "gateway_disabled"
)

// Result summarizes one reconciliation pass. Updated and SkippedPairs count
// directed pair rows (two per feed pair).
type Result struct {
	Skipped      bool          `json:"skipped"`
	Reason       string        `json:"reason,omitempty"`
	Updated      int           `json:"updated"`
	SkippedPairs int           `json:"skipped_pairs"`
	Deactivated  int64         `json:"deactivated"`
	ActivePairs  int64         `json:"active_pairs"`
	Errors       int           `json:"errors"`
	Elapsed      time.Duration `json:"elapsed"`
}

// Engine runs reconciliation passes that merge the external liquidity feed
// into the local catalog without overriding manual operator decisions.
//
// A pass is single-flight: the engine goes Idle → Running → Idle, and a
// trigger arriving while a pass is in flight is coalesced into a skip,
// never queued.
type Engine struct {
	gatewaySlug string
	minReserve  decimal.Decimal

	feed     *connectors.FeedClient
	gateways *repository.GatewayRepository
	tokens   *repository.TokenRepository
	pairs    *repository.TradingPairRepository

	mu      gosync.Mutex
	running bool
}

// New wires an engine from explicit collaborators.
func New(
	feed *connectors.FeedClient,
	gateways *repository.GatewayRepository,
	tokens *repository.TokenRepository,
	pairs *repository.TradingPairRepository,
	gatewaySlug string,
	minReserve decimal.Decimal,
) *Engine {
	return &Engine{
		gatewaySlug: gatewaySlug,
		minReserve:  minReserve,
		feed:        feed,
		gateways:    gateways,
		tokens:      tokens,
		pairs:       pairs,
	}
}

// NewFromConfig wires an engine from environment configuration and the main
// database, the way the worker entrypoints use it.
func NewFromConfig() *Engine {
	config := GetConfig()
	feedConfig := connectors.GetConfig()

	minReserve, err := decimal.NewFromString(config.MinReserve)
	if err != nil {
		panic(fmt.Errorf("invalid MIN_RESERVE %q: %w", config.MinReserve, err))
	}

	return New(
		connectors.NewFeedClient(feedConfig.FeedBaseURL, feedConfig.FeedTimeout),
		repository.NewGatewayRepository(),
		repository.NewTokenRepository(),
		repository.NewTradingPairRepository(),
		config.GatewaySlug,
		minReserve,
	)
}

func (e *Engine) tryBegin() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return false
	}
	e.running = true
	return true
}

func (e *Engine) end() {
	e.mu.Lock()
	e.running = false
	e.mu.Unlock()
}

// RunSync executes one reconciliation pass:
// fetch → token upsert → bidirectional pair upsert → stale deactivation → stats.
//
// Fatal errors (missing gateway, unreachable feed) abort the pass; per-row
// store errors are absorbed and counted so one bad row never cancels the
// rest. Nothing is rolled back on abort: every write is independently
// idempotent and the next tick simply retries.
func (e *Engine) RunSync(ctx context.Context) (*Result, error) {
	if !e.tryBegin() {
		logger.Info("Sync already running, trigger coalesced into a skip")
		return &Result{Skipped: true, Reason: ReasonAlreadyRunning}, nil
	}
	defer e.end()

	start := time.Now()

	gateway, err := e.gateways.FindBySlug(ctx, e.gatewaySlug)
	if err != nil {
		return nil, err
	}
	if gateway == nil {
		return nil, fmt.Errorf("%w: slug %q", ErrGatewayNotFound, e.gatewaySlug)
	}
	if gateway.AdminDisabled {
		logger.WithField("gateway", gateway.Slug).Info("Gateway is admin-disabled, skipping pass")
		return &Result{Skipped: true, Reason: ReasonGatewayDisabled, Elapsed: time.Since(start)}, nil
	}

	snapshot, err := e.feed.FetchPairs(ctx)
	if err != nil {
		return nil, err
	}

	validPairs := connectors.FilterValidPairs(snapshot.Pairs, e.minReserve)

	logger.WithFields(map[string]interface{}{
		"gateway":     gateway.Slug,
		"feed_pairs":  len(snapshot.Pairs),
		"valid_pairs": len(validPairs),
		"feed_tokens": len(snapshot.Tokens),
	}).Info("Reconciliation pass started")

	result := &Result{}
	tokensBySymbol := e.resolveTokens(ctx, snapshot, result)

	keepIDs := make([]uint, 0, len(validPairs)*2)
	for _, feedPair := range validPairs {
		keepIDs = e.upsertDirectedPair(ctx, gateway, feedPair, tokensBySymbol, keepIDs, result)
	}

	deactivated, _, err := e.pairs.DeactivateStale(ctx, gateway.ID, keepIDs)
	if err != nil {
		logger.WithError(err).Error("Stale deactivation failed, pass continues")
		result.Errors++
	}
	result.Deactivated = deactivated

	active, err := e.pairs.CountActive(ctx, gateway.ID)
	if err != nil {
		logger.WithError(err).Error("Active pair count failed")
		result.Errors++
	}
	result.ActivePairs = active
	result.Elapsed = time.Since(start)

	logger.WithFields(map[string]interface{}{
		"gateway":     gateway.Slug,
		"updated":     result.Updated,
		"skipped":     result.SkippedPairs,
		"deactivated": result.Deactivated,
		"active":      result.ActivePairs,
		"errors":      result.Errors,
		"elapsed":     result.Elapsed.String(),
	}).Info("Reconciliation pass finished")

	return result, nil
}

// resolveTokens upserts every distinct feed token and builds the symbol
// cache local to this pass. The first occurrence of a symbol wins; later
// external ids mapping to the same symbol are ignored rather than merged.
// A token whose upsert fails falls back to a pre-existing row by symbol so
// the pass can still use it; a token that neither upserts nor resolves is
// dropped and its pairs will be skipped for missing endpoints.
func (e *Engine) resolveTokens(ctx context.Context, snapshot *connectors.FeedSnapshot, result *Result) map[string]*model.Token {
	tokensBySymbol := make(map[string]*model.Token, len(snapshot.Tokens))

	for externalID, meta := range snapshot.Tokens {
		symbol, ok := connectors.ExtractSymbol(externalID)
		if !ok {
			continue
		}
		if _, seen := tokensBySymbol[symbol]; seen {
			continue
		}

		token, _, err := e.tokens.Upsert(ctx, repository.TokenUpsert{
			Symbol:     symbol,
			ExternalID: externalID,
			Decimals:   meta.Precision,
			LogoURI:    e.feed.BuildLogoURL(meta.LogoURI),
		})
		if err != nil {
			result.Errors++
			existing, lookupErr := e.tokens.FindBySymbol(ctx, symbol)
			if lookupErr != nil || existing == nil {
				logger.WithFields(map[string]interface{}{
					"symbol":      symbol,
					"external_id": externalID,
				}).WithError(err).Error("Token dropped for this pass")
				continue
			}
			token = existing
		}

		tokensBySymbol[symbol] = token
	}

	return tokensBySymbol
}

// upsertDirectedPair materializes the two directed rows for one feed pair
// and returns the touched-id set extended with whatever rows were written.
func (e *Engine) upsertDirectedPair(
	ctx context.Context,
	gateway *model.Gateway,
	feedPair connectors.FeedPair,
	tokensBySymbol map[string]*model.Token,
	keepIDs []uint,
	result *Result,
) []uint {

	symbol0, ok0 := connectors.ExtractSymbol(feedPair.Token0ID)
	symbol1, ok1 := connectors.ExtractSymbol(feedPair.Token1ID)
	if !ok0 || !ok1 {
		result.SkippedPairs += 2
		return keepIDs
	}

	token0 := tokensBySymbol[symbol0]
	token1 := tokensBySymbol[symbol1]
	if token0 == nil || token1 == nil {
		logger.WithFields(map[string]interface{}{
			"pair_id": feedPair.PairID,
			"token0":  symbol0,
			"token1":  symbol1,
		}).Debug("Pair skipped: endpoint token unresolved")
		result.SkippedPairs += 2
		return keepIDs
	}

	reserve0, err0 := decimal.NewFromString(feedPair.Reserve0)
	reserve1, err1 := decimal.NewFromString(feedPair.Reserve1)
	if err0 != nil || err1 != nil {
		result.SkippedPairs += 2
		return keepIDs
	}

	directed := []repository.PairUpsert{
		{
			TokenFromID:    token0.ID,
			TokenToID:      token1.ID,
			GatewayID:      gateway.ID,
			Reserve0:       reserve0,
			Reserve1:       reserve1,
			ExternalPairID: feedPair.PairID,
		},
		{
			TokenFromID:    token1.ID,
			TokenToID:      token0.ID,
			GatewayID:      gateway.ID,
			Reserve0:       reserve1,
			Reserve1:       reserve0,
			ExternalPairID: feedPair.PairID,
		},
	}

	for _, data := range directed {
		pair, skipped, err := e.pairs.Upsert(ctx, data)
		if err != nil {
			logger.WithFields(map[string]interface{}{
				"pair_id": feedPair.PairID,
				"from":    data.TokenFromID,
				"to":      data.TokenToID,
			}).WithError(err).Error("Pair upsert failed, pass continues")
			result.Errors++
			continue
		}

		keepIDs = append(keepIDs, pair.ID)
		if skipped {
			result.SkippedPairs++
		} else {
			result.Updated++
		}
	}

	return keepIDs
}
