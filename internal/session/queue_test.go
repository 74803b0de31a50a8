package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mnemo/internal/srs"
)

func TestBuildQueue(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	later := now.Add(48 * time.Hour)

	dueCard := func(id string) srs.Card {
		return srs.Card{ID: id, DeckID: "d1", Repetitions: 3, Due: now.Add(-time.Hour)}
	}
	newCard := func(id string) srs.Card {
		return srs.Card{ID: id, DeckID: "d1", Repetitions: 0, Due: later}
	}
	reviewedCard := func(id string) srs.Card {
		return srs.Card{ID: id, DeckID: "d1", Repetitions: 2, Due: later}
	}

	t.Run("due cards take priority over everything", func(t *testing.T) {
		cards := []srs.Card{newCard("n1"), dueCard("due1"), reviewedCard("r1"), dueCard("due2")}
		queue := BuildQueue(cards, now, DefaultNewCardLimit)

		assert.Len(t, queue, 2)
		ids := map[string]bool{}
		for _, card := range queue {
			ids[card.ID] = true
		}
		assert.True(t, ids["due1"])
		assert.True(t, ids["due2"])
	})

	t.Run("card due exactly now counts as due", func(t *testing.T) {
		cards := []srs.Card{{ID: "edge", Repetitions: 1, Due: now}}
		queue := BuildQueue(cards, now, DefaultNewCardLimit)
		assert.Len(t, queue, 1)
	})

	t.Run("no due cards draws from new cards", func(t *testing.T) {
		cards := []srs.Card{newCard("n1"), newCard("n2"), reviewedCard("r1")}
		queue := BuildQueue(cards, now, DefaultNewCardLimit)

		assert.Len(t, queue, 2)
		for _, card := range queue {
			assert.True(t, card.IsNew())
		}
	})

	t.Run("new cards are capped at the limit", func(t *testing.T) {
		var cards []srs.Card
		for i := 0; i < 25; i++ {
			cards = append(cards, newCard(string(rune('a'+i))))
		}
		queue := BuildQueue(cards, now, DefaultNewCardLimit)
		assert.Len(t, queue, DefaultNewCardLimit)
	})

	t.Run("fewer new cards than the limit returns all of them", func(t *testing.T) {
		cards := []srs.Card{newCard("n1"), newCard("n2"), newCard("n3")}
		queue := BuildQueue(cards, now, 10)
		assert.Len(t, queue, 3)
	})

	t.Run("reviewed not-yet-due cards are never queued", func(t *testing.T) {
		cards := []srs.Card{reviewedCard("r1"), reviewedCard("r2")}
		queue := BuildQueue(cards, now, DefaultNewCardLimit)
		assert.Empty(t, queue)
	})

	t.Run("non-positive limit falls back to the default", func(t *testing.T) {
		var cards []srs.Card
		for i := 0; i < 15; i++ {
			cards = append(cards, newCard(string(rune('a'+i))))
		}
		queue := BuildQueue(cards, now, 0)
		assert.Len(t, queue, DefaultNewCardLimit)
	})
}
