// Package srs holds the spaced-repetition data model and the SM-2 scheduler.
package srs

import (
	"time"

	"github.com/google/uuid"
)

// Deck groups cards under a display name.
type Deck struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Card is a single prompt/answer pair with its scheduling state.
// Interval is measured in whole days. EF never drops below MinEasinessFactor.
type Card struct {
	ID          string    `json:"id"`
	DeckID      string    `json:"deck_id"`
	Front       string    `json:"front"`
	Back        string    `json:"back"`
	Interval    int       `json:"interval"`
	Repetitions int       `json:"repetitions"`
	EF          float64   `json:"ef"`
	Due         time.Time `json:"due"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ReviewLog records a single graded review. Logs are append-only; the only
// removal is an explicit undo of the most recent review.
type ReviewLog struct {
	ID     string    `json:"id"`
	CardID string    `json:"card_id"`
	DeckID string    `json:"deck_id"`
	TS     time.Time `json:"ts"`
	Grade  int       `json:"grade"`
	TimeMs int64     `json:"time_ms"`
	WasDue bool      `json:"was_due"`
}

// NewDeck creates a deck with a fresh id and both timestamps set to now.
func NewDeck(name string, now time.Time) Deck {
	return Deck{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewCard creates a card that is immediately eligible for study:
// no repetitions, zero interval, default easiness, due now.
func NewCard(deckID, front, back string, now time.Time) Card {
	return Card{
		ID:          uuid.NewString(),
		DeckID:      deckID,
		Front:       front,
		Back:        back,
		Interval:    0,
		Repetitions: 0,
		EF:          DefaultEasinessFactor,
		Due:         now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewReviewLog creates a log entry for a graded review of card.
func NewReviewLog(card Card, grade int, timeMs int64, wasDue bool, now time.Time) ReviewLog {
	return ReviewLog{
		ID:     uuid.NewString(),
		CardID: card.ID,
		DeckID: card.DeckID,
		TS:     now,
		Grade:  grade,
		TimeMs: timeMs,
		WasDue: wasDue,
	}
}

// IsDue reports whether the card is eligible for review at now.
func (c Card) IsDue(now time.Time) bool {
	return !c.Due.After(now)
}

// IsNew reports whether the card has never been reviewed. A lapsed card has
// Repetitions reset to zero but a one-day interval, so it does not count.
func (c Card) IsNew() bool {
	return c.Repetitions == 0 && c.Interval == 0
}
