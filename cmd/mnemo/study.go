package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"mnemo/internal/cli"
	"mnemo/internal/session"
)

func newStudyCommand() *cobra.Command {
	var newLimit int

	cmd := &cobra.Command{
		Use:   "study <deck>",
		Short: "Start an interactive study session for a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			deck, err := s.DeckByName(args[0])
			if err != nil {
				return fmt.Errorf("store.DeckByName() > %w", err)
			}

			limit := cfg.Study.NewCardLimit
			if newLimit > 0 {
				limit = newLimit
			}

			engine := session.NewEngine(s, deck.ID, limit)
			return cli.NewStudyCLI(engine, deck).Run(context.Background())
		},
	}
	cmd.Flags().IntVar(&newLimit, "new-limit", 0, "Override the new card limit for this session")
	return cmd
}
