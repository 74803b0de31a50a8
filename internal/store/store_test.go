package store

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_store "mnemo/internal/mocks/store"
	"mnemo/internal/srs"
)

// memoryPersister keeps the last saved blob in memory.
type memoryPersister struct {
	data []byte
}

func (p *memoryPersister) Save(data []byte) error {
	p.data = append([]byte(nil), data...)
	return nil
}

func (p *memoryPersister) Load() ([]byte, error) {
	return p.data, nil
}

func newTestStore(t *testing.T) (*Store, *memoryPersister) {
	t.Helper()
	persister := &memoryPersister{}
	s := New(persister)
	return s, persister
}

func TestStore_CreateDeck(t *testing.T) {
	tests := []struct {
		name         string
		deckName     string
		expectedName string
	}{
		{name: "regular name", deckName: "Spanish", expectedName: "Spanish"},
		{name: "name is trimmed", deckName: "  Kanji  ", expectedName: "Kanji"},
		{name: "blank name falls back", deckName: "   ", expectedName: "Untitled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore(t)
			deck := s.CreateDeck(tt.deckName)

			assert.NotEmpty(t, deck.ID)
			assert.Equal(t, tt.expectedName, deck.Name)
			assert.Equal(t, deck.CreatedAt, deck.UpdatedAt)

			got, err := s.Deck(deck.ID)
			require.NoError(t, err)
			assert.Equal(t, deck, got)
		})
	}
}

func TestStore_AddCard(t *testing.T) {
	s, _ := newTestStore(t)
	deck := s.CreateDeck("Spanish")

	card, err := s.AddCard(deck.ID, " hola ", " hello ")
	require.NoError(t, err)
	assert.Equal(t, "hola", card.Front)
	assert.Equal(t, "hello", card.Back)
	assert.Equal(t, deck.ID, card.DeckID)
	assert.Equal(t, srs.DefaultEasinessFactor, card.EF)

	cards := s.CardsByDeck(deck.ID)
	require.Len(t, cards, 1)
	assert.Equal(t, card, cards[0])

	_, err = s.AddCard("no-such-deck", "front", "back")
	assert.ErrorIs(t, err, ErrUnknownDeck)
}

func TestStore_AddCardTouchesDeck(t *testing.T) {
	s, _ := newTestStore(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	deck := s.CreateDeck("Spanish")

	s.now = func() time.Time { return base.Add(time.Hour) }
	_, err := s.AddCard(deck.ID, "hola", "hello")
	require.NoError(t, err)

	got, err := s.Deck(deck.ID)
	require.NoError(t, err)
	assert.Equal(t, base, got.CreatedAt)
	assert.Equal(t, base.Add(time.Hour), got.UpdatedAt)
}

func TestStore_UpdateCard(t *testing.T) {
	s, _ := newTestStore(t)
	deck := s.CreateDeck("Spanish")
	card, err := s.AddCard(deck.ID, "hola", "hello")
	require.NoError(t, err)

	card.Interval = 6
	card.Repetitions = 2
	require.NoError(t, s.UpdateCard(card))

	got, err := s.Card(card.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Interval)
	assert.Equal(t, 2, got.Repetitions)

	unknown := card
	unknown.ID = "no-such-card"
	assert.ErrorIs(t, s.UpdateCard(unknown), ErrUnknownCard)
}

func TestStore_DeleteDeckCascades(t *testing.T) {
	s, _ := newTestStore(t)
	keep := s.CreateDeck("keep")
	doomed := s.CreateDeck("doomed")

	keepCard, err := s.AddCard(keep.ID, "k-front", "k-back")
	require.NoError(t, err)
	doomedCard, err := s.AddCard(doomed.ID, "d-front", "d-back")
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, s.AppendLog(srs.NewReviewLog(keepCard, 5, 1000, true, now)))
	require.NoError(t, s.AppendLog(srs.NewReviewLog(doomedCard, 2, 2000, true, now)))

	require.NoError(t, s.DeleteDeck(doomed.ID))

	// Scan the whole store: nothing may reference the deleted deck.
	assert.Len(t, s.Decks(), 1)
	for _, card := range s.Cards() {
		assert.NotEqual(t, doomed.ID, card.DeckID)
	}
	for _, log := range s.Logs() {
		assert.NotEqual(t, doomed.ID, log.DeckID)
	}
	assert.Len(t, s.CardsByDeck(keep.ID), 1)
	assert.Len(t, s.Logs(), 1)

	assert.ErrorIs(t, s.DeleteDeck("no-such-deck"), ErrUnknownDeck)
}

func TestStore_DeleteCardCascadesLogs(t *testing.T) {
	s, _ := newTestStore(t)
	deck := s.CreateDeck("Spanish")
	card, err := s.AddCard(deck.ID, "hola", "hello")
	require.NoError(t, err)
	other, err := s.AddCard(deck.ID, "adios", "goodbye")
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, s.AppendLog(srs.NewReviewLog(card, 5, 1000, true, now)))
	require.NoError(t, s.AppendLog(srs.NewReviewLog(other, 3, 1000, true, now)))

	require.NoError(t, s.DeleteCard(card.ID))

	_, err = s.Card(card.ID)
	assert.ErrorIs(t, err, ErrUnknownCard)
	for _, log := range s.Logs() {
		assert.NotEqual(t, card.ID, log.CardID)
	}
	assert.Len(t, s.Logs(), 1)

	assert.ErrorIs(t, s.DeleteCard(card.ID), ErrUnknownCard)
}

func TestStore_RemoveLog(t *testing.T) {
	s, _ := newTestStore(t)
	deck := s.CreateDeck("Spanish")
	card, err := s.AddCard(deck.ID, "hola", "hello")
	require.NoError(t, err)

	log := srs.NewReviewLog(card, 5, 1000, true, time.Now())
	require.NoError(t, s.AppendLog(log))
	require.NoError(t, s.RemoveLog(log.ID))
	assert.Empty(t, s.Logs())

	assert.Error(t, s.RemoveLog(log.ID))
}

func TestStore_LoadRoundTrip(t *testing.T) {
	s, persister := newTestStore(t)
	deck := s.CreateDeck("Spanish")
	card, err := s.AddCard(deck.ID, "hola", "hello")
	require.NoError(t, err)
	log := srs.NewReviewLog(card, 5, 1500, true, time.Now())
	require.NoError(t, s.AppendLog(log))

	reloaded := New(persister)
	require.NoError(t, reloaded.Load())

	// JSON serialization keeps the instant but not the Go location, so
	// timestamps are compared with time.Time.Equal instead of deep equality.
	gotDeck, err := reloaded.Deck(deck.ID)
	require.NoError(t, err)
	assert.Equal(t, deck.Name, gotDeck.Name)
	assert.True(t, deck.CreatedAt.Equal(gotDeck.CreatedAt))

	gotCards := reloaded.CardsByDeck(deck.ID)
	require.Len(t, gotCards, 1)
	assert.Equal(t, card.ID, gotCards[0].ID)
	assert.Equal(t, card.Front, gotCards[0].Front)
	assert.Equal(t, card.Back, gotCards[0].Back)
	assert.Equal(t, card.EF, gotCards[0].EF)
	assert.Equal(t, card.Interval, gotCards[0].Interval)
	assert.Equal(t, card.Repetitions, gotCards[0].Repetitions)
	assert.True(t, card.Due.Equal(gotCards[0].Due))

	gotLogs := reloaded.Logs()
	require.Len(t, gotLogs, 1)
	assert.Equal(t, log.ID, gotLogs[0].ID)
	assert.Equal(t, log.Grade, gotLogs[0].Grade)
	assert.Equal(t, log.TimeMs, gotLogs[0].TimeMs)
	assert.True(t, log.TS.Equal(gotLogs[0].TS))
}

func TestStore_LoadBackfillsMissingFields(t *testing.T) {
	// An older snapshot whose cards predate the scheduling fields.
	data, err := json.Marshal(map[string]any{
		"version": 1,
		"decks": []map[string]any{
			{"id": "d1", "name": "Spanish"},
		},
		"cards": []map[string]any{
			{"id": "c1", "deck_id": "d1", "front": "hola", "back": "hello"},
		},
		"logs": []any{},
	})
	require.NoError(t, err)

	s := New(&memoryPersister{data: data})
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	require.NoError(t, s.Load())

	card, err := s.Card("c1")
	require.NoError(t, err)
	assert.Equal(t, srs.DefaultEasinessFactor, card.EF)
	assert.Equal(t, 0, card.Interval)
	assert.Equal(t, 0, card.Repetitions)
	assert.Equal(t, now, card.Due, "an undated card becomes due immediately")
}

func TestStore_LoadEmptySnapshot(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Load())
	assert.Empty(t, s.Decks())
}

func TestStore_PersistFailureKeepsStateAndRetriesFullSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	persister := mock_store.NewMockPersister(ctrl)

	var lastSaved []byte
	gomock.InOrder(
		persister.EXPECT().Save(gomock.Any()).Return(errors.New("disk full")),
		persister.EXPECT().Save(gomock.Any()).DoAndReturn(func(data []byte) error {
			lastSaved = append([]byte(nil), data...)
			return nil
		}),
	)

	s := New(persister)
	deck := s.CreateDeck("Spanish") // durable write fails

	// In-memory state stays authoritative.
	got, err := s.Deck(deck.ID)
	require.NoError(t, err)
	assert.Equal(t, deck.Name, got.Name)

	// The next mutation persists the complete snapshot, not a patch.
	_, err = s.AddCard(deck.ID, "hola", "hello")
	require.NoError(t, err)

	var snapshot Snapshot
	require.NoError(t, json.Unmarshal(lastSaved, &snapshot))
	assert.Equal(t, SnapshotVersion, snapshot.Version)
	require.Len(t, snapshot.Decks, 1)
	require.Len(t, snapshot.Cards, 1)
	assert.Equal(t, deck.ID, snapshot.Cards[0].DeckID)
}
