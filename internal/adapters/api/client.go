package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/PVAGR/eve-arbitrage-bot/internal/domain/market"
	"github.com/PVAGR/eve-arbitrage-bot/internal/domain/shared"
	"github.com/PVAGR/eve-arbitrage-bot/internal/infrastructure/ports"
)

const (
	defaultBaseURL   = "https://esi.evetech.net/latest"
	defaultUserAgent = "eve-arbitrage-bot/1.0 (github.com/PVAGR/eve-arbitrage-bot)"
	defaultTimeout   = 15 * time.Second

	// 3 total attempts with 2^attempt seconds between them
	defaultMaxAttempts = 3
	defaultBackoffBase = time.Second

	// Self-throttle when the upstream error budget runs low
	errorLimitThreshold = 20
	errorLimitCooldown  = 2 * time.Second

	pagesHeader      = "X-Pages"
	errorLimitHeader = "X-ESI-Error-Limit-Remain"
)

// ESIClient implements the ports.ESIClient interface against the EVE ESI
// HTTP API. It owns retry, timeout and rate-limit behaviour; it knows
// nothing about caching or arbitrage.
//
// The client is an explicitly constructed object, safe for concurrent use
// by multiple route workers. There is no package-level shared state.
type ESIClient struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	userAgent   string
	maxAttempts int
	backoffBase time.Duration
	clock       shared.Clock
	logger      zerolog.Logger
}

// NewESIClient creates a client with default settings: 15s request timeout,
// 3 attempts with exponential backoff, 10 req/s rate limit.
func NewESIClient(logger zerolog.Logger) *ESIClient {
	return NewESIClientWithConfig(defaultBaseURL, defaultUserAgent,
		defaultTimeout, defaultMaxAttempts, defaultBackoffBase,
		rate.NewLimiter(rate.Limit(10), 10), nil, logger)
}

// NewESIClientWithConfig creates a client with custom configuration.
// A nil clock selects the real clock; a nil limiter disables self-imposed
// rate limiting (the error-budget cool-down still applies).
func NewESIClientWithConfig(
	baseURL string,
	userAgent string,
	timeout time.Duration,
	maxAttempts int,
	backoffBase time.Duration,
	limiter *rate.Limiter,
	clock shared.Clock,
	logger zerolog.Logger,
) *ESIClient {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &ESIClient{
		httpClient:  &http.Client{Timeout: timeout},
		rateLimiter: limiter,
		baseURL:     baseURL,
		userAgent:   userAgent,
		maxAttempts: maxAttempts,
		backoffBase: backoffBase,
		clock:       clock,
		logger:      logger.With().Str("component", "esi_client").Logger(),
	}
}

// FetchOrdersPage fetches one page of all market orders for a region.
// The returned TotalPages comes from the X-Pages response header and is
// authoritative on page 1.
func (c *ESIClient) FetchOrdersPage(ctx context.Context, regionID, page int) (*ports.OrdersPage, error) {
	path := fmt.Sprintf("/markets/%d/orders/", regionID)
	params := url.Values{}
	params.Set("datasource", "tranquility")
	params.Set("order_type", "all")
	params.Set("page", strconv.Itoa(page))

	resp, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}

	var orders []market.Order
	if err := json.Unmarshal(resp.body, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders page %d for region %d: %w", page, regionID, err)
	}

	return &ports.OrdersPage{Orders: orders, TotalPages: resp.totalPages}, nil
}

// FetchItemInfo fetches display name and packaged volume for one item.
// ESI reports packaged_volume for items that compress for hauling; plain
// volume is the fallback.
func (c *ESIClient) FetchItemInfo(ctx context.Context, typeID int) (*market.ItemInfo, error) {
	path := fmt.Sprintf("/universe/types/%d/", typeID)
	params := url.Values{}
	params.Set("datasource", "tranquility")
	params.Set("language", "en")

	resp, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Name           string   `json:"name"`
		Volume         *float64 `json:"volume"`
		PackagedVolume *float64 `json:"packaged_volume"`
	}
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode type %d: %w", typeID, err)
	}

	info := market.ItemInfo{TypeID: typeID, Name: payload.Name, VolumeM3: 1.0}
	if info.Name == "" {
		info.Name = fmt.Sprintf("Item %d", typeID)
	}
	switch {
	case payload.PackagedVolume != nil:
		info.VolumeM3 = *payload.PackagedVolume
	case payload.Volume != nil:
		info.VolumeM3 = *payload.Volume
	}

	return &info, nil
}

// FetchAdjustedPrices fetches the universe-wide adjusted price list.
func (c *ESIClient) FetchAdjustedPrices(ctx context.Context) (map[int]float64, error) {
	params := url.Values{}
	params.Set("datasource", "tranquility")

	resp, err := c.get(ctx, "/markets/prices/", params)
	if err != nil {
		return nil, err
	}

	var entries []struct {
		TypeID        int     `json:"type_id"`
		AdjustedPrice float64 `json:"adjusted_price"`
	}
	if err := json.Unmarshal(resp.body, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode adjusted prices: %w", err)
	}

	prices := make(map[int]float64, len(entries))
	for _, e := range entries {
		prices[e.TypeID] = e.AdjustedPrice
	}
	return prices, nil
}

// SearchTypeIDs finds inventory type IDs matching a name query, capped at
// 20 results.
func (c *ESIClient) SearchTypeIDs(ctx context.Context, query string) ([]int, error) {
	params := url.Values{}
	params.Set("categories", "inventory_type")
	params.Set("datasource", "tranquility")
	params.Set("language", "en")
	params.Set("search", query)
	params.Set("strict", "false")

	resp, err := c.get(ctx, "/search/", params)
	if err != nil {
		return nil, err
	}

	var payload struct {
		InventoryType []int `json:"inventory_type"`
	}
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}

	ids := payload.InventoryType
	if len(ids) > 20 {
		ids = ids[:20]
	}
	return ids, nil
}

type esiResponse struct {
	body       []byte
	totalPages int
}

// get issues one GET with retries on transient failures. Connection errors
// and 502/503/504 are retried up to maxAttempts with 2^attempt seconds of
// backoff; any other non-200 status is surfaced immediately as a
// StatusError. After every response the upstream error budget header is
// inspected and a fixed cool-down is taken when it runs low.
func (c *ESIClient) get(ctx context.Context, path string, params url.Values) (*esiResponse, error) {
	endpoint := c.baseURL + path

	var lastErr error

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}

		reqURL := endpoint
		if len(params) > 0 {
			reqURL = endpoint + "?" + params.Encode()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Connection failure - retryable
			lastErr = err
			if attempt >= c.maxAttempts-1 {
				break
			}
			if ctx.Err() != nil {
				return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
			}
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Int("attempt", attempt+1).
				Msg("connection failure, retrying")
			c.clock.Sleep(c.backoffBase * time.Duration(1<<attempt))
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		c.checkErrorBudget(resp)

		if readErr != nil {
			return nil, fmt.Errorf("failed to read response from %s: %w", endpoint, readErr)
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			pages := 1
			if h := resp.Header.Get(pagesHeader); h != "" {
				if n, err := strconv.Atoi(h); err == nil && n > 0 {
					pages = n
				}
			}
			return &esiResponse{body: body, totalPages: pages}, nil

		case resp.StatusCode == http.StatusBadGateway,
			resp.StatusCode == http.StatusServiceUnavailable,
			resp.StatusCode == http.StatusGatewayTimeout:
			// Transient upstream failure - retryable
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			if attempt >= c.maxAttempts-1 {
				break
			}
			if ctx.Err() != nil {
				return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
			}
			c.logger.Warn().Int("status", resp.StatusCode).Str("endpoint", endpoint).
				Int("attempt", attempt+1).Msg("transient upstream error, retrying")
			c.clock.Sleep(c.backoffBase * time.Duration(1<<attempt))

		default:
			// Upstream rejection - not retryable
			return nil, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
		}
	}

	return nil, &FetchError{Endpoint: endpoint, Attempts: c.maxAttempts, Err: lastErr}
}

// checkErrorBudget inspects the remaining upstream error budget and sleeps
// a fixed cool-down when it falls below the threshold, to stay clear of
// ESI's abuse protection. This is a side effect on the shared client.
func (c *ESIClient) checkErrorBudget(resp *http.Response) {
	remain := 100
	if h := resp.Header.Get(errorLimitHeader); h != "" {
		if n, err := strconv.Atoi(h); err == nil {
			remain = n
		}
	}
	if remain < errorLimitThreshold {
		c.logger.Warn().Int("error_limit_remain", remain).
			Msg("ESI error budget low, cooling down")
		c.clock.Sleep(errorLimitCooldown)
	}
}
