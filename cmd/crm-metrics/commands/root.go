package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"crm-metrics/internal/config"
	"crm-metrics/internal/crmapi"
	"crm-metrics/internal/logging"
	"crm-metrics/internal/snapshot"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose    bool
	snapshotID string
	cfg        *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "crm-metrics",
	Short: "CRM-Metrics aggregates CRM activities into sales and ticket performance reports",
	Long: `Fetches activities, companies and agents from the CRM API and aggregates them
into ranked per-agent, per-manager, per-channel, per-customer-type and per-ticket-group
reports with conversion rates, ATU/ATV and handling times.

Without a subcommand it runs the MCP server on stdio.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		// Load configuration
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if snapshotID != "" {
			cfg.SnapshotID = snapshotID
		}

		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("command", cmd.Name()).
			Msg("CRM-Metrics starting")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&snapshotID, "snapshot", "", "snapshot id to read and write (default: SNAPSHOT_ID or \"default\")")
	rootCmd.Version = Version

	rootCmd.AddCommand(reportCmd, exportCmd, refreshCmd, serveCmd)
}

// signalContext is cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// newProvider wires the snapshot store and CRM client selected by the configuration.
// The returned cleanup closes the store connection.
func newProvider(ctx context.Context) (*snapshot.Provider, func(), error) {
	var store snapshot.Store
	cleanup := func() {}
	if cfg.UseRedis() {
		client, err := snapshot.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		store = snapshot.NewRedisStore(client, cfg.Redis.TTL)
		cleanup = func() { _ = client.Close() }
		log.Debug().Str("addr", cfg.Redis.Addr).Msg("Using Redis snapshot store")
	} else {
		store = snapshot.NewFileStore(cfg.CacheDir)
		log.Debug().Str("dir", cfg.CacheDir).Msg("Using file snapshot store")
	}

	var client crmapi.Client
	if cfg.HasCRM() {
		client = crmapi.NewClient(cfg.CRM)
	} else {
		log.Debug().Msg("CRM_API_URL not set, serving cached snapshots only")
	}

	provider := snapshot.NewProvider(client, store, snapshot.Options{
		ID:     cfg.SnapshotID,
		MaxAge: cfg.SnapshotMaxAge,
	})
	return provider, cleanup, nil
}
