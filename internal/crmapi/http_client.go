package crmapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"crm-metrics/internal/metrics"
)

// HTTPClient is the REST implementation of Client. Safe for concurrent use.
type HTTPClient struct {
	cfg        Config
	httpClient *http.Client

	throttleMutex sync.Mutex
	lastRequest   time.Time

	// Session Cache
	cache      map[string]*cacheEntry
	cacheMutex sync.Mutex
}

type cacheEntry struct {
	Value       interface{}
	Expiration  time.Time
	AccessCount int
	OriginalTTL time.Duration
}

// maxExtensions bounds how often a cache hit may push the expiry forward.
const maxExtensions = 6

// NewHTTPClient creates a REST client for the CRM API.
func NewHTTPClient(cfg Config) *HTTPClient {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.ActivitiesPath == "" {
		cfg.ActivitiesPath = DefaultActivitiesPath
	}
	if cfg.CompaniesPath == "" {
		cfg.CompaniesPath = DefaultCompaniesPath
	}
	if cfg.AgentsPath == "" {
		cfg.AgentsPath = DefaultAgentsPath
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &HTTPClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache: make(map[string]*cacheEntry),
	}
}

func (c *HTTPClient) getFromCache(key string) (interface{}, bool) {
	if c.cfg.CacheTTL < 0 {
		return nil, false
	}
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	entry, ok := c.cache[key]
	if !ok {
		log.Debug().Str("key", key).Msg("Cache miss")
		return nil, false
	}

	if time.Now().After(entry.Expiration) {
		delete(c.cache, key)
		log.Debug().Str("key", key).Msg("Cache entry expired")
		return nil, false
	}
	log.Debug().Str("key", key).Msg("Cache hit")

	// Sliding window extension
	if entry.AccessCount < maxExtensions {
		entry.Expiration = time.Now().Add(entry.OriginalTTL)
		entry.AccessCount++
		log.Trace().Str("key", key).Int("count", entry.AccessCount).Msg("Extended cache TTL")
	}

	return entry.Value, true
}

func (c *HTTPClient) addToCache(key string, value interface{}) {
	if c.cfg.CacheTTL < 0 {
		return
	}
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	c.cache[key] = &cacheEntry{
		Value:       value,
		Expiration:  time.Now().Add(c.cfg.CacheTTL),
		OriginalTTL: c.cfg.CacheTTL,
		AccessCount: 1,
	}
	log.Debug().Str("key", key).Dur("ttl", c.cfg.CacheTTL).Msg("Added to cache")
}

// InvalidateCache drops every cached response so the next fetch hits the API.
func (c *HTTPClient) InvalidateCache() {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()
	c.cache = make(map[string]*cacheEntry)
}

// throttle spaces requests at least RequestDelay apart. Concurrent callers queue.
func (c *HTTPClient) throttle(ctx context.Context) error {
	c.throttleMutex.Lock()
	defer c.throttleMutex.Unlock()

	if c.cfg.RequestDelay > 0 {
		elapsed := time.Since(c.lastRequest)
		if elapsed < c.cfg.RequestDelay {
			wait := c.cfg.RequestDelay - elapsed
			log.Debug().Dur("wait", wait).Msg("Throttling CRM request")
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	c.lastRequest = time.Now()
	return nil
}

func (c *HTTPClient) authenticateRequest(req *http.Request) {
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.cfg.Token))
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("apikey", c.cfg.APIKey)
	}
}

// get performs an authenticated GET and hands the body to decode.
func (c *HTTPClient) get(ctx context.Context, resource, path string, params url.Values, decode func(io.Reader) error) error {
	if err := c.throttle(ctx); err != nil {
		return err
	}

	reqURL := c.cfg.BaseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	log.Info().Str("resource", resource).Msg("Requesting data from CRM")
	log.Debug().Str("url", reqURL).Msg("CRM request details")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	c.authenticateRequest(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("CRM request for %s failed: %w", resource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w (%d). Please check CRM_API_TOKEN and CRM_API_KEY", ErrUnauthorized, resp.StatusCode)
		case http.StatusTooManyRequests:
			if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
				return fmt.Errorf("%w (429). Retry after %s seconds", ErrRateLimited, retryAfter)
			}
			return fmt.Errorf("%w (429)", ErrRateLimited)
		case http.StatusNotFound:
			return fmt.Errorf("CRM endpoint for %s not found (%s)", resource, path)
		default:
			return fmt.Errorf("CRM API returned status %d for %s", resp.StatusCode, resource)
		}
	}

	if err := decode(resp.Body); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", resource, err)
	}
	return nil
}

// fetchList fetches and caches one list endpoint.
func fetchList[D, R any](ctx context.Context, c *HTTPClient, resource, path string, params url.Values, mapFn func(D) R) ([]R, error) {
	cacheKey := resource + ":" + params.Encode()
	if val, ok := c.getFromCache(cacheKey); ok {
		return val.([]R), nil
	}

	var dtos []D
	err := c.get(ctx, resource, path, params, func(r io.Reader) error {
		var err error
		dtos, err = decodeList[D](r)
		return err
	})
	if err != nil {
		return nil, err
	}

	result := lo.Map(dtos, func(d D, _ int) R { return mapFn(d) })
	c.addToCache(cacheKey, result)
	log.Debug().Str("resource", resource).Int("count", len(result)).Msg("CRM fetch complete")
	return result, nil
}

// activityParams encodes the query. Dates are sent as calendar days.
func activityParams(q ActivityQuery) url.Values {
	params := url.Values{}
	if q.From != nil {
		params.Set("from", q.From.Format("2006-01-02"))
	}
	if q.To != nil {
		params.Set("to", q.To.Format("2006-01-02"))
	}
	if q.Agent != "" {
		params.Set("referenceid", q.Agent)
	}
	if q.Manager != "" {
		params.Set("tsm", q.Manager)
	}
	return params
}

func (c *HTTPClient) FetchActivities(ctx context.Context, q ActivityQuery) ([]metrics.ActivityRecord, error) {
	return fetchList(ctx, c, "activities", c.cfg.ActivitiesPath, activityParams(q), MapActivity)
}

func (c *HTTPClient) FetchCompanies(ctx context.Context) ([]metrics.CompanyRecord, error) {
	return fetchList(ctx, c, "companies", c.cfg.CompaniesPath, nil, MapCompany)
}

func (c *HTTPClient) FetchAgents(ctx context.Context) ([]metrics.AgentRecord, error) {
	return fetchList(ctx, c, "agents", c.cfg.AgentsPath, nil, MapAgent)
}
