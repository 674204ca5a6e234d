package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/chatlens/chatlens/internal/config"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify config, backend connection, and relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			fmt.Println("=== Config ===")
			fmt.Printf("  Page size: %d\n", cfg.PageSize)
			fmt.Printf("  Relay URL: %s\n", cfg.RelayURL)
			if cfg.Relay.WebhookURL == "" {
				fmt.Println("  Webhook:   NOT SET (relay will not forward)")
			} else {
				fmt.Printf("  Webhook:   %s\n", cfg.Relay.WebhookURL)
			}

			fmt.Println("\n=== Credentials ===")
			creds, err := cfg.Credentials()
			if err != nil {
				fmt.Printf("  Error: %v\n", err)
				return nil
			}
			if creds == nil {
				fmt.Println("  Status: NOT CONNECTED (run 'chatlens connect' first)")
				return nil
			}
			fmt.Printf("  Endpoint: %s\n", creds.Endpoint)

			fmt.Println("\n=== Backend ===")
			s, err := openConnectedStore(cfg)
			if err != nil {
				fmt.Printf("  Open error: %v\n", err)
				return nil
			}
			defer s.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), probeTimeout)
			defer cancel()

			if err := s.Ping(ctx); err != nil {
				fmt.Printf("  Status: UNREACHABLE (%v)\n", err)
				return nil
			}
			fmt.Println("  Status: OK")

			if rows, err := s.CountRows(ctx); err != nil {
				fmt.Printf("  Rows: error (%v)\n", err)
			} else {
				fmt.Printf("  Rows:     %d\n", rows)
			}
			if sessions, err := s.CountSessions(ctx); err != nil {
				fmt.Printf("  Sessions: error (%v)\n", err)
			} else {
				fmt.Printf("  Sessions: %d\n", sessions)
			}

			fmt.Println("\n=== Relay ===")
			checkRelay(cfg.RelayURL)

			return nil
		},
	}
}

func checkRelay(baseURL string) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(baseURL + "/healthz")
	if err != nil {
		fmt.Printf("  Status: UNREACHABLE (%v)\n", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		fmt.Println("  Status: OK")
	} else {
		fmt.Printf("  Status: HTTP %d\n", resp.StatusCode)
	}
}
