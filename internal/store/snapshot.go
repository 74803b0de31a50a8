package store

import (
	"time"

	"mnemo/internal/srs"
)

// SnapshotKey is the fixed storage key the persisted blob lives under.
const SnapshotKey = "srs-data-v1"

// SnapshotVersion is bumped when the persisted layout changes shape.
const SnapshotVersion = 1

// Snapshot is the persisted state: the three collections serialized as one
// versioned blob. Always written whole, never patched.
type Snapshot struct {
	Version int             `json:"version"`
	Decks   []srs.Deck      `json:"decks"`
	Cards   []srs.Card      `json:"cards"`
	Logs    []srs.ReviewLog `json:"logs"`
}

// backfillCard fills scheduling fields that older snapshots did not carry
// with their creation defaults, so a pre-scheduling card loads as a fresh one.
func backfillCard(card srs.Card, now time.Time) srs.Card {
	if card.EF == 0 {
		card.EF = srs.DefaultEasinessFactor
	}
	if card.Due.IsZero() {
		card.Due = now
	}
	if card.Interval < 0 {
		card.Interval = 0
	}
	if card.Repetitions < 0 {
		card.Repetitions = 0
	}
	return card
}
