package mcp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"crm-metrics/internal/config"
	"crm-metrics/internal/metrics"
	"crm-metrics/internal/snapshot"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// ServerName is announced to MCP clients during initialization.
const ServerName = "crm-metrics"

// Server holds the state for the MCP server.
type Server struct {
	cfg      *config.AppConfig
	provider *snapshot.Provider
	version  string
	now      func() time.Time

	// Report sessions are tied to one snapshot and one unknown-agent sentinel.
	mu          sync.Mutex
	snapshotKey string
	sessions    map[string]*metrics.ReportSession
}

// NewServer creates a new MCP server over the snapshots of provider.
func NewServer(cfg *config.AppConfig, provider *snapshot.Provider, version string) *Server {
	s := &Server{
		cfg:      cfg,
		provider: provider,
		version:  version,
		now:      time.Now,
		sessions: make(map[string]*metrics.ReportSession),
	}
	provider.Subscribe(func(snap *snapshot.Snapshot) {
		log.Debug().Str("run", snap.RunID).Msg("New snapshot published, report sessions reset")
		s.resetSessions()
	})
	return s
}

// Start serves MCP over stdio until the client disconnects or ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	log.Info().Str("version", s.version).Msg("MCP Server starting Stdio loop")
	return s.newSDKServer().Run(ctx, &sdk.StdioTransport{})
}

func (s *Server) newSDKServer() *sdk.Server {
	srv := sdk.NewServer(&sdk.Implementation{Name: ServerName, Version: s.version}, nil)
	s.registerTools(srv)
	return srv
}

func (s *Server) resetSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshotKey = ""
	clear(s.sessions)
}

// withSession hydrates the current snapshot and runs fn on its report session.
// Sessions are not safe for concurrent use, so fn runs under the server lock.
func (s *Server) withSession(ctx context.Context, unknownAgent string, fn func(*snapshot.Snapshot, *metrics.ReportSession) error) error {
	snap, err := s.provider.Hydrate(ctx)
	if err != nil {
		return fmt.Errorf("no CRM data available: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := snap.RunID + "@" + snap.FetchedAt.Format(time.RFC3339Nano)
	if key != s.snapshotKey {
		clear(s.sessions)
		s.snapshotKey = key
	}
	session, ok := s.sessions[unknownAgent]
	if !ok {
		session = metrics.NewReportSession(snap.Dataset(), metrics.NormalizeOptions{UnknownAgent: unknownAgent})
		s.sessions[unknownAgent] = session
	}
	return fn(snap, session)
}
