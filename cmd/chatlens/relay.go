package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chatlens/chatlens/internal/config"
	"github.com/chatlens/chatlens/internal/relay"
	"github.com/chatlens/chatlens/internal/store"
)

func relayCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Run the feedback relay server",
		Long:  `Accepts feedback records on POST /feedback, stores them in the chat_feedback table, and forwards them to the configured webhook. Both sinks are best-effort.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Relay.ListenAddr
			}

			logger, err := zap.NewProduction()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logger.Sync()

			var sink relay.FeedbackStore
			if s, err := openRelayStore(cfg); err != nil {
				logger.Warn("no feedback storage, relay will forward only", zap.Error(err))
			} else {
				defer s.Close()
				if err := s.EnsureFeedbackSchema(cmd.Context()); err != nil {
					return fmt.Errorf("prepare feedback table: %w", err)
				}
				sink = s
			}

			if cfg.Relay.WebhookURL == "" {
				logger.Warn("relay.webhook_url not set, feedback will not be forwarded")
			}

			return relay.NewServer(sink, cfg.Relay.WebhookURL, logger).Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")

	return cmd
}

// openRelayStore opens the feedback sink: relay.database_url when set,
// otherwise the saved viewer credentials.
func openRelayStore(cfg *config.Config) (*store.Store, error) {
	if cfg.Relay.DatabaseURL != "" {
		return store.Open(cfg.Relay.DatabaseURL, "")
	}
	return openConnectedStore(cfg)
}
