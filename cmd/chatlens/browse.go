package main

import (
	"github.com/spf13/cobra"

	"github.com/chatlens/chatlens/internal/config"
	"github.com/chatlens/chatlens/internal/relay"
	"github.com/chatlens/chatlens/internal/tui"
)

func browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse sessions interactively",
		Long:  `Opens a TUI panel with the session list on the left and the rendered conversation on the right. Type / to filter, f to leave feedback on the selected chat.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			s, err := openConnectedStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			return tui.Run(s, relay.NewClient(cfg.RelayURL), cfg.PageSize)
		},
	}
}
