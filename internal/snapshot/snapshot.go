package snapshot

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"crm-metrics/internal/metrics"
)

// DefaultID names the snapshot used when none is configured.
const DefaultID = "default"

// ErrNoSnapshot is returned when no snapshot is cached and none can be fetched.
var ErrNoSnapshot = errors.New("no snapshot available")

// Snapshot is one consistent, immutable copy of the CRM data the engine runs on.
type Snapshot struct {
	ID        string    `json:"id"`
	RunID     string    `json:"runId"`
	FetchedAt time.Time `json:"fetchedAt"`

	Activities []metrics.ActivityRecord `json:"activities"`
	Companies  []metrics.CompanyRecord  `json:"companies"`
	Agents     []metrics.AgentRecord    `json:"agents"`
}

// Dataset exposes the snapshot to the metrics engine.
func (s *Snapshot) Dataset() metrics.Dataset {
	if s == nil {
		return metrics.Dataset{}
	}
	return metrics.Dataset{
		Activities: s.Activities,
		Companies:  s.Companies,
		Agents:     s.Agents,
	}
}

// Age returns how long ago the snapshot was fetched.
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

// Store persists snapshots by id. Load returns (nil, nil) when id is unknown.
type Store interface {
	Load(ctx context.Context, id string) (*Snapshot, error)
	Save(ctx context.Context, s *Snapshot) error
}

// validateID rejects ids that are empty or could escape a cache directory.
func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("snapshot id is empty")
	}
	if filepath.Base(id) != id || id == "." || id == ".." {
		return fmt.Errorf("invalid snapshot id %q", id)
	}
	return nil
}
