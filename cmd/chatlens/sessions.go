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

func sessionsCmd() *cobra.Command {
	var opts transcript.FilterOptions
	var sortOrder string

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List sessions non-interactively",
		Long:  `Prints the session list, one session per row. Output is a colored table on a terminal and plain tab-separated values when piped.`,
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

			snap, err := transcript.LoadSessions(cmd.Context(), s, cfg.PageSize)
			if err != nil {
				return err
			}

			opts.Sort = transcript.SortOrder(sortOrder)
			sessions := transcript.Filter(snap.Sessions, opts)

			color := term.IsTerminal(int(os.Stdout.Fd()))
			fmt.Print(render.SessionTable(sessions, color))

			if color {
				fmt.Printf("%d of %d sessions\n", len(sessions), len(snap.Sessions))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Search, "search", "", "Substring match on session id")
	cmd.Flags().StringVar(&opts.DateFrom, "from", "", "Only sessions active on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.DateTo, "to", "", "Only sessions active on or before this date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&opts.MinMessages, "min-msgs", 0, "Minimum message count")
	cmd.Flags().IntVar(&opts.MaxMessages, "max-msgs", 0, "Maximum message count (0 = unbounded)")
	cmd.Flags().StringSliceVar(&opts.Tools, "tool", nil, "Require tool (repeatable, session must have all)")
	cmd.Flags().StringSliceVar(&opts.Categories, "category", nil, "Match request category (repeatable, any)")
	cmd.Flags().StringSliceVar(&opts.RequestTypes, "request-type", nil, "Match request type (repeatable, any)")
	cmd.Flags().StringVar(&sortOrder, "sort", "newest", "Sort order: newest, oldest, most-msgs, least-msgs")

	return cmd
}
