package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chatlens/chatlens/internal/config"
	"github.com/chatlens/chatlens/internal/feedback"
	"github.com/chatlens/chatlens/internal/relay"
	"github.com/chatlens/chatlens/internal/transcript"
)

func feedbackCmd() *cobra.Command {
	var category, comment string
	var messageIndex int

	cmd := &cobra.Command{
		Use:   "feedback <session-id>",
		Short: "Submit feedback on a chat or a single message",
		Long:  `Posts a feedback record to the configured relay. Without --message the feedback covers the whole chat; with --message N it targets the Nth message (0-based, in time order) and carries that message's details.`,
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

			rec := feedback.Record{
				Category:     category,
				Comment:      comment,
				FeedbackType: feedback.TypeChat,
				SessionID:    sessionID,
			}

			if messageIndex >= 0 {
				if messageIndex >= len(rows) {
					return fmt.Errorf("message %d out of range (session has %d messages)", messageIndex, len(rows))
				}
				row := rows[messageIndex]
				msg := transcript.Parse(row)

				rec.FeedbackType = feedback.TypeMessage
				rec.MessageIndex = &messageIndex
				rec.MessageType = string(msg.Role)
				rec.MessageTimestamp = msg.Timestamp
				rec.MessageTextExcerpt = feedback.Excerpt(msg.Text)
				rec.ToolName = msg.ToolName
				rec.RawMessage = row.Message
			} else {
				count := len(rows)
				rec.MessageCount = &count
			}

			if err := relay.NewClient(cfg.RelayURL).Submit(cmd.Context(), rec); err != nil {
				return err
			}

			fmt.Println("Feedback sent")
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Feedback category")
	cmd.Flags().StringVar(&comment, "comment", "", "Free-form comment")
	cmd.Flags().IntVar(&messageIndex, "message", -1, "Target message index (0-based, time order)")
	cmd.MarkFlagRequired("category")
	cmd.MarkFlagRequired("comment")

	return cmd
}
