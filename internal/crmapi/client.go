package crmapi

import (
	"context"
	"errors"
	"time"

	"crm-metrics/internal/metrics"
)

var (
	// ErrUnauthorized is returned for 401/403 responses.
	ErrUnauthorized = errors.New("CRM authentication failed")
	// ErrRateLimited is returned for 429 responses.
	ErrRateLimited = errors.New("CRM rate limit exceeded")
)

// ActivityQuery narrows an activity fetch. Zero fields are not sent.
type ActivityQuery struct {
	From    *time.Time
	To      *time.Time
	Agent   string // referenceid
	Manager string // tsm
}

// Client is the interface for reading activities, companies and agents from the CRM.
type Client interface {
	FetchActivities(ctx context.Context, q ActivityQuery) ([]metrics.ActivityRecord, error)
	FetchCompanies(ctx context.Context) ([]metrics.CompanyRecord, error)
	FetchAgents(ctx context.Context) ([]metrics.AgentRecord, error)
}

// Config holds the connection settings for the CRM API.
type Config struct {
	BaseURL string

	// Authorization: Bearer <Token>
	Token string
	// Supabase-style "apikey" header, sent when set.
	APIKey string

	ActivitiesPath string
	CompaniesPath  string
	AgentsPath     string

	// Performance Settings
	RequestDelay time.Duration // minimum gap between requests; 0 disables throttling
	CacheTTL     time.Duration // 0 uses the default, negative disables the cache
	Timeout      time.Duration
}

// Defaults used when the corresponding Config field is empty.
const (
	DefaultActivitiesPath = "/api/activities"
	DefaultCompaniesPath  = "/api/companies"
	DefaultAgentsPath     = "/api/agents"
	DefaultCacheTTL       = 5 * time.Minute
	DefaultTimeout        = 90 * time.Second
)

// NewClient creates a new CRM client based on the provided configuration.
func NewClient(cfg Config) Client {
	return NewHTTPClient(cfg)
}
