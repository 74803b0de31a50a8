// Package session selects the cards for one study session and drives them
// through a reveal/grade/undo state machine.
package session

import (
	"math/rand"
	"time"

	"mnemo/internal/srs"
)

// DefaultNewCardLimit caps how many never-reviewed cards enter a session
// when nothing is due.
const DefaultNewCardLimit = 10

// BuildQueue selects and orders the cards for one study session.
//
// Due cards take priority: when any card is due, the queue is all due cards
// in random order and new cards wait for a later session. With nothing due,
// the queue is up to newLimit never-reviewed cards, also in random order.
// Cards that were reviewed before and are not yet due are never queued.
func BuildQueue(cards []srs.Card, now time.Time, newLimit int) []srs.Card {
	if newLimit <= 0 {
		newLimit = DefaultNewCardLimit
	}

	var due, fresh []srs.Card
	for _, card := range cards {
		switch {
		case card.IsDue(now):
			due = append(due, card)
		case card.IsNew():
			fresh = append(fresh, card)
		}
	}

	if len(due) > 0 {
		shuffle(due)
		return due
	}

	shuffle(fresh)
	if len(fresh) > newLimit {
		fresh = fresh[:newLimit]
	}
	return fresh
}

func shuffle(cards []srs.Card) {
	rand.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}
