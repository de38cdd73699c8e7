package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"phrasebot/internal/domain"
	"phrasebot/internal/journal"

	"github.com/spf13/cobra"
)

func journalCmd() *cobra.Command {
	var (
		chatID int64
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List the most recent replies the bot has sent",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.Journal.Enabled {
				return errors.New("journal is disabled (journal.enabled=false)")
			}

			store, err := journal.Open(cfg.Journal.DBPath, logger)
			if err != nil {
				return fmt.Errorf("journal: %w", err)
			}
			defer store.Close()

			ctx := context.Background()
			counts, err := store.Counts(ctx)
			if err != nil {
				return err
			}
			entries, err := store.Recent(ctx, chatID, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Replies sent: %d trigger, %d scheduled\n\n",
				counts[domain.ReplyTrigger], counts[domain.ReplyScheduled])

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SENT\tCHAT\tREPLY TO\tKIND\tTEXT")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n",
					e.SentAt.Local().Format("2006-01-02 15:04:05"), e.ChatID, e.MessageID, e.Kind, e.Text)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Int64Var(&chatID, "chat", 0, "only show replies to this chat id")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of replies to show")
	return cmd
}
