package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/chatlens/chatlens/internal/config"
	"github.com/chatlens/chatlens/internal/render"
	"github.com/chatlens/chatlens/internal/transcript"
)

func showCmd() *cobra.Command {
	var showRaw bool
	var width int

	cmd := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Print one session's conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID := args[0]

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			s, err := openConnectedStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			rows, err := s.SessionRows(cmd.Context(), sessionID)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return fmt.Errorf("session not found: %s", sessionID)
			}

			msgs := make([]transcript.Message, 0, len(rows))
			for _, r := range rows {
				msgs = append(msgs, transcript.Parse(r))
			}

			fd := int(os.Stdout.Fd())
			color := term.IsTerminal(fd)
			if width == 0 && color {
				if w, _, err := term.GetSize(fd); err == nil {
					width = w
				}
			}

			fmt.Print(render.Conversation(sessionID, msgs, render.Options{
				Width:   width,
				Color:   color,
				ShowRaw: showRaw,
			}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showRaw, "raw", false, "Show raw payloads under undecodable messages")
	cmd.Flags().IntVar(&width, "width", 0, "Wrap width (0 = terminal width, no wrap when piped)")

	return cmd
}
