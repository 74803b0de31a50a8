package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mnemo/internal/deckfile"
)

func newDeckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deck",
		Short: "Manage decks",
	}
	cmd.AddCommand(
		newDeckCreateCommand(),
		newDeckListCommand(),
		newDeckShowCommand(),
		newDeckDeleteCommand(),
		newDeckExportCommand(),
	)
	return cmd
}

func newDeckCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			deck := s.CreateDeck(args[0])
			fmt.Printf("Created deck %q (%s)\n", deck.Name, deck.ID)
			return nil
		},
	}
}

func newDeckListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List decks with card counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			decks := s.Decks()
			if len(decks) == 0 {
				fmt.Println("No decks yet. Create one with: mnemo deck create <name>")
				return nil
			}
			now := time.Now()
			for _, deck := range decks {
				cards := s.CardsByDeck(deck.ID)
				due := 0
				for _, card := range cards {
					if card.IsDue(now) {
						due++
					}
				}
				fmt.Printf("%-30s %4d cards, %4d due\n", deck.Name, len(cards), due)
			}
			return nil
		},
	}
}

func newDeckShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show the cards of a deck with their scheduling state",
		Args:  cobra.ExactArgs(1),
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

			cards := s.CardsByDeck(deck.ID)
			fmt.Printf("%s — %d cards\n", deck.Name, len(cards))
			for _, card := range cards {
				fmt.Printf("  %s  reps=%d interval=%dd ef=%.2f due=%s\n    %s\n",
					card.ID, card.Repetitions, card.Interval, card.EF,
					card.Due.Format("2006-01-02"), truncate(card.Front, 60))
			}
			return nil
		},
	}
}

func newDeckDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a deck with its cards and review history",
		Args:  cobra.ExactArgs(1),
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
			if err := s.DeleteDeck(deck.ID); err != nil {
				return fmt.Errorf("store.DeleteDeck() > %w", err)
			}
			fmt.Printf("Deleted deck %q\n", deck.Name)
			return nil
		},
	}
}

func newDeckExportCommand() *cobra.Command {
	var asPDF bool

	cmd := &cobra.Command{
		Use:   "export <name>",
		Short: "Export a deck as a markdown file, optionally rendered to PDF",
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

			pairs := make([]deckfile.Pair, 0)
			for _, card := range s.CardsByDeck(deck.ID) {
				pairs = append(pairs, deckfile.Pair{Front: card.Front, Back: card.Back})
			}

			var buf bytes.Buffer
			if err := deckfile.WriteMarkdown(&buf, deck.Name, pairs); err != nil {
				return fmt.Errorf("deckfile.WriteMarkdown() > %w", err)
			}

			exportDir := cfg.Outputs.ExportDirectory
			if err := os.MkdirAll(exportDir, 0o755); err != nil {
				return fmt.Errorf("os.MkdirAll() > %w", err)
			}

			base := filepath.Join(exportDir, slugify(deck.Name))
			if asPDF {
				path, err := deckfile.WritePDF(buf.Bytes(), base+".pdf")
				if err != nil {
					return fmt.Errorf("deckfile.WritePDF() > %w", err)
				}
				fmt.Printf("Exported %d cards to %s\n", len(pairs), path)
				return nil
			}

			path := base + ".md"
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("os.WriteFile() > %w", err)
			}
			fmt.Printf("Exported %d cards to %s\n", len(pairs), path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asPDF, "pdf", false, "Render the export to PDF instead of markdown")
	return cmd
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, slug)
	return strings.Trim(slug, "-")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
