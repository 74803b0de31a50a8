package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mnemo/internal/deckfile"
)

func newCardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Manage cards",
	}
	cmd.AddCommand(
		newCardAddCommand(),
		newCardDeleteCommand(),
		newCardImportCommand(),
	)
	return cmd
}

func newCardAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <deck> <front> <back>",
		Short: "Add a card to a deck",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			deck, err := s.DeckByName(args[0])
			if err != nil {
				return fmt.Errorf("store.DeckByName() > %w", err)
			}
			card, err := s.AddCard(deck.ID, args[1], args[2])
			if err != nil {
				return fmt.Errorf("store.AddCard() > %w", err)
			}
			fmt.Printf("Added card %s to %q\n", card.ID, deck.Name)
			return nil
		},
	}
}

func newCardDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <card-id>",
		Short: "Delete a card and its review history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			if err := s.DeleteCard(args[0]); err != nil {
				return fmt.Errorf("store.DeleteCard() > %w", err)
			}
			fmt.Printf("Deleted card %s\n", args[0])
			return nil
		},
	}
}

func newCardImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <deck> <file>",
		Short: "Import Q:/A: markdown blocks as new cards",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := deckfile.ParseFile(args[1])
			if err != nil {
				return fmt.Errorf("deckfile.ParseFile() > %w", err)
			}
			if len(pairs) == 0 {
				return fmt.Errorf("no Q:/A: blocks found in %s", args[1])
			}

			s, _, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			deck, err := s.DeckByName(args[0])
			if err != nil {
				return fmt.Errorf("store.DeckByName() > %w", err)
			}
			for _, pair := range pairs {
				if _, err := s.AddCard(deck.ID, pair.Front, pair.Back); err != nil {
					return fmt.Errorf("store.AddCard() > %w", err)
				}
			}
			fmt.Printf("Imported %d cards into %q\n", len(pairs), deck.Name)
			return nil
		},
	}
}
