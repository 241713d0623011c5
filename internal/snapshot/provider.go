package snapshot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"crm-metrics/internal/crmapi"
	"crm-metrics/internal/metrics"
)

// Options configure a Provider.
type Options struct {
	// ID is the store key of the snapshot; DefaultID when empty.
	ID string
	// MaxAge is how old a cached snapshot may be before Hydrate refetches it.
	// Zero means a cached snapshot never goes stale.
	MaxAge time.Duration
	// Query narrows the activity fetch.
	Query crmapi.ActivityQuery
}

// Subscriber is notified with every snapshot published by Refresh.
type Subscriber func(*Snapshot)

// cacheInvalidator is implemented by clients holding a response cache.
type cacheInvalidator interface {
	InvalidateCache()
}

// Provider orchestrates fetching, caching and publishing snapshots.
// The metrics engine never sees the provider; it is handed the published snapshot.
type Provider struct {
	client crmapi.Client
	store  Store
	opts   Options
	now    func() time.Time

	mu      sync.RWMutex
	current *Snapshot

	subsMu      sync.Mutex
	subscribers map[int]Subscriber
	nextSubID   int
}

// NewProvider creates a provider. client may be nil for offline use (cache only);
// store may be nil to skip persistence.
func NewProvider(client crmapi.Client, store Store, opts Options) *Provider {
	if opts.ID == "" {
		opts.ID = DefaultID
	}
	return &Provider{
		client:      client,
		store:       store,
		opts:        opts,
		now:         time.Now,
		subscribers: make(map[int]Subscriber),
	}
}

// Current returns the last published snapshot, or nil before the first Hydrate/Refresh.
func (p *Provider) Current() *Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Dataset returns the current snapshot as engine input.
func (p *Provider) Dataset() metrics.Dataset {
	return p.Current().Dataset()
}

// Subscribe registers fn for future refreshes and returns a function that removes it.
func (p *Provider) Subscribe(fn Subscriber) func() {
	p.subsMu.Lock()
	defer p.subsMu.Unlock()

	id := p.nextSubID
	p.nextSubID++
	p.subscribers[id] = fn

	return func() {
		p.subsMu.Lock()
		defer p.subsMu.Unlock()
		delete(p.subscribers, id)
	}
}

func (p *Provider) notify(snap *Snapshot) {
	p.subsMu.Lock()
	subs := make([]Subscriber, 0, len(p.subscribers))
	for i := 0; i < p.nextSubID; i++ {
		if fn, ok := p.subscribers[i]; ok {
			subs = append(subs, fn)
		}
	}
	p.subsMu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (p *Provider) publish(snap *Snapshot) {
	p.mu.Lock()
	p.current = snap
	p.mu.Unlock()
}

func (p *Provider) isFresh(snap *Snapshot) bool {
	return p.opts.MaxAge <= 0 || snap.Age(p.now()) <= p.opts.MaxAge
}

// Hydrate makes a snapshot available: the current one if still fresh, else the
// cached one if fresh, else a new fetch. When the fetch fails but a stale
// snapshot exists, the stale snapshot is kept and a warning logged.
func (p *Provider) Hydrate(ctx context.Context) (*Snapshot, error) {
	if cur := p.Current(); cur != nil && p.isFresh(cur) {
		return cur, nil
	}

	// 1. Try to Load from Cache
	cached := p.Current()
	if p.store != nil {
		loaded, err := p.store.Load(ctx, p.opts.ID)
		if err != nil {
			log.Warn().Err(err).Str("snapshot", p.opts.ID).Msg("Hydrate: Failed to load cached snapshot")
		} else if loaded != nil {
			log.Debug().Str("snapshot", p.opts.ID).Time("fetchedAt", loaded.FetchedAt).Msg("Hydrate: Loaded from cache")
			cached = loaded
		}
	}

	// 2. Validate Cache Recency
	if cached != nil && p.isFresh(cached) {
		p.publish(cached)
		return cached, nil
	}

	if p.client == nil {
		if cached != nil {
			log.Warn().Str("snapshot", p.opts.ID).Time("fetchedAt", cached.FetchedAt).Msg("No CRM client configured, using stale snapshot")
			p.publish(cached)
			return cached, nil
		}
		return nil, fmt.Errorf("%w: no cached snapshot %q and no CRM API configured", ErrNoSnapshot, p.opts.ID)
	}

	// 3. Refetch
	snap, err := p.Refresh(ctx)
	if err != nil {
		if cached != nil {
			log.Warn().Err(err).Str("snapshot", p.opts.ID).Time("fetchedAt", cached.FetchedAt).Msg("Refresh failed, using stale snapshot")
			p.publish(cached)
			return cached, nil
		}
		return nil, err
	}
	return snap, nil
}

// Refresh fetches activities, companies and agents concurrently, persists the
// result and publishes it to subscribers.
func (p *Provider) Refresh(ctx context.Context) (*Snapshot, error) {
	if p.client == nil {
		return nil, fmt.Errorf("%w: no CRM API configured", ErrNoSnapshot)
	}
	if inv, ok := p.client.(cacheInvalidator); ok {
		inv.InvalidateCache()
	}

	start := p.now()
	snap := &Snapshot{
		ID:    p.opts.ID,
		RunID: uuid.NewString(),
	}
	log.Info().Str("snapshot", snap.ID).Str("run", snap.RunID).Msg("Starting snapshot refresh")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		activities, err := p.client.FetchActivities(gctx, p.opts.Query)
		if err != nil {
			return fmt.Errorf("failed to fetch activities: %w", err)
		}
		snap.Activities = activities
		return nil
	})
	g.Go(func() error {
		companies, err := p.client.FetchCompanies(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch companies: %w", err)
		}
		snap.Companies = companies
		return nil
	})
	g.Go(func() error {
		agents, err := p.client.FetchAgents(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch agents: %w", err)
		}
		snap.Agents = agents
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	snap.FetchedAt = p.now()

	if p.store != nil {
		if err := p.store.Save(ctx, snap); err != nil {
			log.Warn().Err(err).Str("snapshot", snap.ID).Msg("Refresh: Failed to save snapshot")
		}
	}

	p.publish(snap)
	p.notify(snap)

	log.Info().
		Str("snapshot", snap.ID).
		Int("activities", len(snap.Activities)).
		Int("companies", len(snap.Companies)).
		Int("agents", len(snap.Agents)).
		Dur("elapsed", snap.FetchedAt.Sub(start)).
		Msg("Snapshot refreshed")
	return snap, nil
}
