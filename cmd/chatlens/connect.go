package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chatlens/chatlens/internal/config"
	"github.com/chatlens/chatlens/internal/store"
)

// probeTimeout bounds every connection probe.
const probeTimeout = 10 * time.Second

func connectCmd() *cobra.Command {
	var endpoint, key string

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Probe the transcript backend and save credentials on success",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			s, err := store.Open(endpoint, key)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), probeTimeout)
			defer cancel()

			if err := s.Ping(ctx); err != nil {
				return fmt.Errorf("probe failed, credentials not saved: %w", err)
			}
			rows, err := s.CountRows(ctx)
			if err != nil {
				return fmt.Errorf("probe failed, credentials not saved: %w", err)
			}
			sessions, err := s.CountSessions(ctx)
			if err != nil {
				return fmt.Errorf("probe failed, credentials not saved: %w", err)
			}

			if err := cfg.SaveCredentials(config.Credentials{
				Endpoint:  endpoint,
				AccessKey: key,
			}); err != nil {
				return err
			}

			fmt.Printf("Connected: %d rows across %d sessions\n", rows, sessions)
			return nil
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Project ref, host[:port], postgres:// URL, or sqlite:<path>")
	cmd.Flags().StringVar(&key, "key", "", "Access key (database password)")
	cmd.MarkFlagRequired("endpoint")

	return cmd
}

func disconnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Clear saved credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.ClearCredentials(); err != nil {
				return err
			}
			fmt.Println("Disconnected")
			return nil
		},
	}
}

// openConnectedStore opens the store with the saved credentials.
func openConnectedStore(cfg *config.Config) (*store.Store, error) {
	creds, err := cfg.Credentials()
	if err != nil {
		return nil, err
	}
	if creds == nil {
		return nil, fmt.Errorf("not connected (run 'chatlens connect' first)")
	}
	return store.Open(creds.Endpoint, creds.AccessKey)
}
