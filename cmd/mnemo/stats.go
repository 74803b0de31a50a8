package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mnemo/internal/srs"
	"mnemo/internal/stats"
	"mnemo/internal/store"
)

const statsBarWidth = 40

func newStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [deck]",
		Short: "Show review totals, grade distribution, daily activity and due forecast",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			source := stats.Source(s)
			if len(args) == 1 {
				deck, err := s.DeckByName(args[0])
				if err != nil {
					return fmt.Errorf("store.DeckByName() > %w", err)
				}
				source = deckSource{store: s, deckID: deck.ID}
			}

			aggregator := stats.New(source)
			now := time.Now()

			printTotals(aggregator)
			printGradeHistogram(aggregator)
			printSeries("Reviews per day", aggregator.DailySeries(now, cfg.Stats.DailyWindowDays))
			printSeries("Due forecast", aggregator.DueForecast(now, cfg.Stats.ForecastWindowDays))
			return nil
		},
	}
	return cmd
}

// deckSource narrows a store to a single deck's logs and cards.
type deckSource struct {
	store  *store.Store
	deckID string
}

func (d deckSource) Logs() []srs.ReviewLog {
	return d.store.LogsByDeck(d.deckID)
}

func (d deckSource) Cards() []srs.Card {
	return d.store.CardsByDeck(d.deckID)
}

func printTotals(aggregator *stats.Aggregator) {
	_, _ = color.New(color.Bold).Println("Totals")
	fmt.Printf("  Reviews %d · Correct %d · Accuracy %d%%\n\n",
		aggregator.TotalReviews(), aggregator.CorrectReviews(), aggregator.Accuracy())
}

func printGradeHistogram(aggregator *stats.Aggregator) {
	total := aggregator.TotalReviews()
	counts := aggregator.GradeCounts()

	_, _ = color.New(color.Bold).Println("Grades")
	for grade := srs.MinGrade; grade <= srs.MaxGrade; grade++ {
		share := 0
		if total > 0 {
			share = counts[grade] * 100 / total
		}
		fmt.Printf("  %d %s %d (%d%%)\n", grade, bar(counts[grade], maxCount(counts)), counts[grade], share)
	}
	fmt.Println()
}

func printSeries(title string, points []stats.DayPoint) {
	_, _ = color.New(color.Bold).Println(title)
	peak := 0
	for _, point := range points {
		if point.Count > peak {
			peak = point.Count
		}
	}
	for _, point := range points {
		fmt.Printf("  %s %s %d\n", point.Label, bar(point.Count, peak), point.Count)
	}
	fmt.Println()
}

func bar(count, peak int) string {
	if peak == 0 || count == 0 {
		return ""
	}
	width := count * statsBarWidth / peak
	if width == 0 {
		width = 1
	}
	return strings.Repeat("█", width)
}

func maxCount(counts map[int]int) int {
	peak := 0
	for _, count := range counts {
		if count > peak {
			peak = count
		}
	}
	return peak
}
