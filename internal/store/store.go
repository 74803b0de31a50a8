// Package store owns the authoritative in-memory collections of decks, cards
// and review logs, and their durable snapshot persistence.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"mnemo/internal/srs"
)

var (
	ErrUnknownDeck = errors.New("deck not found")
	ErrUnknownCard = errors.New("card not found")
)

//go:generate mockgen -source=store.go -destination=../mocks/store/mock_persister.go -package=mock_store Persister

// Persister writes and reads the serialized snapshot blob. Save must replace
// the previous blob atomically: a failed write never corrupts what was
// durable before.
type Persister interface {
	Save(data []byte) error
	Load() ([]byte, error)
}

// Store keeps the in-memory state authoritative: every mutating method leaves
// the collections consistent before it returns, then hands the full snapshot
// to the persister. A failed durable write is logged and retried on the next
// mutation; it never rolls the in-memory state back.
type Store struct {
	mu        sync.Mutex
	persister Persister
	now       func() time.Time

	decks []srs.Deck
	cards []srs.Card
	logs  []srs.ReviewLog
}

// New creates an empty store backed by the given persister.
func New(persister Persister) *Store {
	return &Store{
		persister: persister,
		now:       time.Now,
	}
}

// Load hydrates the store from the persisted snapshot. Scheduling fields
// missing from older snapshots are backfilled with their creation defaults.
// A missing snapshot starts the store empty.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.persister.Load()
	if err != nil {
		return fmt.Errorf("persister.Load() > %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("json.Unmarshal(snapshot) > %w", err)
	}

	now := s.now()
	s.decks = snapshot.Decks
	s.cards = make([]srs.Card, 0, len(snapshot.Cards))
	for _, card := range snapshot.Cards {
		s.cards = append(s.cards, backfillCard(card, now))
	}
	s.logs = snapshot.Logs
	return nil
}

// CreateDeck adds a deck with the given display name. A blank name falls
// back to "Untitled".
func (s *Store) CreateDeck(name string) srs.Deck {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = "Untitled"
	}
	deck := srs.NewDeck(name, s.now())
	s.decks = append(s.decks, deck)
	s.persist()
	return deck
}

// Decks returns all decks.
func (s *Store) Decks() []srs.Deck {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]srs.Deck(nil), s.decks...)
}

// Deck returns the deck with the given id.
func (s *Store) Deck(id string) (srs.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, deck := range s.decks {
		if deck.ID == id {
			return deck, nil
		}
	}
	return srs.Deck{}, fmt.Errorf("%w: %s", ErrUnknownDeck, id)
}

// DeckByName returns the deck whose name matches exactly.
func (s *Store) DeckByName(name string) (srs.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, deck := range s.decks {
		if deck.Name == name {
			return deck, nil
		}
	}
	return srs.Deck{}, fmt.Errorf("%w: %s", ErrUnknownDeck, name)
}

// DeleteDeck removes a deck and cascades to every owned card and log as one
// logical operation.
func (s *Store) DeleteDeck(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.deckExists(id) {
		return fmt.Errorf("%w: %s", ErrUnknownDeck, id)
	}

	decks := s.decks[:0]
	for _, deck := range s.decks {
		if deck.ID != id {
			decks = append(decks, deck)
		}
	}
	s.decks = decks

	cards := s.cards[:0]
	for _, card := range s.cards {
		if card.DeckID != id {
			cards = append(cards, card)
		}
	}
	s.cards = cards

	logs := s.logs[:0]
	for _, log := range s.logs {
		if log.DeckID != id {
			logs = append(logs, log)
		}
	}
	s.logs = logs

	s.persist()
	return nil
}

// AddCard creates a card in the given deck, immediately eligible for study.
func (s *Store) AddCard(deckID, front, back string) (srs.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.deckExists(deckID) {
		return srs.Card{}, fmt.Errorf("%w: %s", ErrUnknownDeck, deckID)
	}

	card := srs.NewCard(deckID, strings.TrimSpace(front), strings.TrimSpace(back), s.now())
	s.cards = append(s.cards, card)
	s.touchDeck(deckID)
	s.persist()
	return card, nil
}

// Card returns the card with the given id.
func (s *Store) Card(id string) (srs.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, card := range s.cards {
		if card.ID == id {
			return card, nil
		}
	}
	return srs.Card{}, fmt.Errorf("%w: %s", ErrUnknownCard, id)
}

// UpdateCard replaces the stored card with the same id.
func (s *Store) UpdateCard(card srs.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cards {
		if s.cards[i].ID == card.ID {
			s.cards[i] = card
			s.touchDeck(card.DeckID)
			s.persist()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownCard, card.ID)
}

// DeleteCard removes a card and cascades to its logs.
func (s *Store) DeleteCard(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	deckID := ""
	cards := s.cards[:0]
	for _, card := range s.cards {
		if card.ID == id {
			deckID = card.DeckID
			continue
		}
		cards = append(cards, card)
	}
	if deckID == "" {
		return fmt.Errorf("%w: %s", ErrUnknownCard, id)
	}
	s.cards = cards

	logs := s.logs[:0]
	for _, log := range s.logs {
		if log.CardID != id {
			logs = append(logs, log)
		}
	}
	s.logs = logs

	s.touchDeck(deckID)
	s.persist()
	return nil
}

// CardsByDeck returns all cards owned by the given deck.
func (s *Store) CardsByDeck(deckID string) []srs.Card {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cards []srs.Card
	for _, card := range s.cards {
		if card.DeckID == deckID {
			cards = append(cards, card)
		}
	}
	return cards
}

// AppendLog records a review. Logs are append-only.
func (s *Store) AppendLog(log srs.ReviewLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.deckExists(log.DeckID) {
		return fmt.Errorf("%w: %s", ErrUnknownDeck, log.DeckID)
	}
	s.logs = append(s.logs, log)
	s.touchDeck(log.DeckID)
	s.persist()
	return nil
}

// RemoveLog retracts a previously appended log. Only an undo of the most
// recent review uses this; history is otherwise immutable.
func (s *Store) RemoveLog(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, log := range s.logs {
		if log.ID == id {
			s.logs = append(s.logs[:i], s.logs[i+1:]...)
			s.touchDeck(log.DeckID)
			s.persist()
			return nil
		}
	}
	return fmt.Errorf("review log not found: %s", id)
}

// Logs returns all review logs in append order.
func (s *Store) Logs() []srs.ReviewLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]srs.ReviewLog(nil), s.logs...)
}

// LogsByDeck returns the review logs owned by the given deck.
func (s *Store) LogsByDeck(deckID string) []srs.ReviewLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	var logs []srs.ReviewLog
	for _, log := range s.logs {
		if log.DeckID == deckID {
			logs = append(logs, log)
		}
	}
	return logs
}

// Cards returns all cards across all decks.
func (s *Store) Cards() []srs.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]srs.Card(nil), s.cards...)
}

func (s *Store) deckExists(id string) bool {
	for _, deck := range s.decks {
		if deck.ID == id {
			return true
		}
	}
	return false
}

// touchDeck refreshes the deck's updatedAt whenever anything under it changes.
// Callers hold the mutex.
func (s *Store) touchDeck(deckID string) {
	now := s.now()
	for i := range s.decks {
		if s.decks[i].ID == deckID {
			s.decks[i].UpdatedAt = now
			return
		}
	}
}

// persist hands the full current snapshot to the persister. The in-memory
// state stays authoritative on failure; the next mutation writes the complete
// snapshot again. Callers hold the mutex.
func (s *Store) persist() {
	snapshot := Snapshot{
		Version: SnapshotVersion,
		Decks:   s.decks,
		Cards:   s.cards,
		Logs:    s.logs,
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		slog.Error("failed to serialize snapshot", "error", err)
		return
	}
	if err := s.persister.Save(data); err != nil {
		slog.Warn("durable write failed, keeping in-memory state", "error", err)
	}
}
