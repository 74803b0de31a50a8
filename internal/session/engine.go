package session

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"mnemo/internal/srs"
)

// State names the position of a session in its lifecycle.
type State string

const (
	// StateAwaitingReveal shows the current card's front with the answer hidden.
	StateAwaitingReveal State = "awaiting_reveal"
	// StateRevealed shows the answer and enables grading.
	StateRevealed State = "revealed"
	// StateRecap is reached when the queue is exhausted.
	StateRecap State = "recap"
)

var (
	ErrNoCurrentCard   = errors.New("no current card")
	ErrAlreadyRevealed = errors.New("card already revealed")
	ErrNotRevealed     = errors.New("card not revealed yet")
	ErrNothingToUndo   = errors.New("nothing to undo")
)

// undoDepth bounds the undo history; older entries are dropped.
const undoDepth = 20

// CardStore is the slice of the store a session needs.
type CardStore interface {
	CardsByDeck(deckID string) []srs.Card
	UpdateCard(card srs.Card) error
	AppendLog(log srs.ReviewLog) error
	RemoveLog(id string) error
}

// Summary holds the running session counters, finalized at recap.
type Summary struct {
	Reviewed    int
	Correct     int
	TotalTimeMs int64
	GradeCounts map[int]int
}

// Incorrect returns the number of failed reviews.
func (s Summary) Incorrect() int {
	return s.Reviewed - s.Correct
}

// Accuracy returns correct/reviewed as a rounded percentage, 0 when nothing
// was reviewed.
func (s Summary) Accuracy() int {
	if s.Reviewed == 0 {
		return 0
	}
	return int(math.Round(float64(s.Correct) / float64(s.Reviewed) * 100))
}

// AvgTimeSeconds returns the rounded average seconds per review, 0 when
// nothing was reviewed.
func (s Summary) AvgTimeSeconds() int {
	if s.Reviewed == 0 {
		return 0
	}
	return int(math.Round(float64(s.TotalTimeMs) / float64(s.Reviewed) / 1000))
}

type undoEntry struct {
	before srs.Card
	after  srs.Card
	grade  int
	timeMs int64
	logID  string
}

// Engine drives one study session over a queue built by BuildQueue. Its
// methods must be called sequentially; only the per-card timer runs in the
// background, and it touches nothing but the elapsed counter.
type Engine struct {
	store    CardStore
	deckID   string
	newLimit int
	now      func() time.Time

	queue    []srs.Card
	idx      int
	revealed bool
	history  []undoEntry
	summary  Summary

	elapsed   atomic.Int64
	timerDone chan struct{}
}

// NewEngine builds the queue for deckID and starts the per-card timer.
// Close must be called on teardown to stop the timer.
func NewEngine(store CardStore, deckID string, newLimit int) *Engine {
	e := &Engine{
		store:    store,
		deckID:   deckID,
		newLimit: newLimit,
		now:      time.Now,
		summary:  Summary{GradeCounts: map[int]int{}},
	}
	e.resetQueue()
	return e
}

// resetQueue builds a fresh queue and restarts the timer.
func (e *Engine) resetQueue() {
	e.queue = BuildQueue(e.store.CardsByDeck(e.deckID), e.now(), e.newLimit)
	e.idx = 0
	e.revealed = false
	e.restartTimer()
}

// State returns the session's current state.
func (e *Engine) State() State {
	switch {
	case e.idx >= len(e.queue):
		return StateRecap
	case e.revealed:
		return StateRevealed
	default:
		return StateAwaitingReveal
	}
}

// CurrentCard returns the card being studied, if any.
func (e *Engine) CurrentCard() (srs.Card, bool) {
	if e.idx >= len(e.queue) {
		return srs.Card{}, false
	}
	return e.queue[e.idx], true
}

// Remaining returns how many cards follow the current one.
func (e *Engine) Remaining() int {
	remaining := len(e.queue) - e.idx - 1
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ElapsedSeconds returns the whole seconds spent on the current card.
func (e *Engine) ElapsedSeconds() int64 {
	return e.elapsed.Load()
}

// Revealed reports whether the current card's answer is shown.
func (e *Engine) Revealed() bool {
	return e.revealed
}

// InRecap reports whether the queue is exhausted.
func (e *Engine) InRecap() bool {
	return e.idx >= len(e.queue)
}

// CanUndo reports whether the undo history is non-empty.
func (e *Engine) CanUndo() bool {
	return len(e.history) > 0
}

// Summary returns the running session counters.
func (e *Engine) Summary() Summary {
	counts := make(map[int]int, len(e.summary.GradeCounts))
	for grade, count := range e.summary.GradeCounts {
		counts[grade] = count
	}
	summary := e.summary
	summary.GradeCounts = counts
	return summary
}

// Reveal shows the current card's answer.
func (e *Engine) Reveal() error {
	if e.InRecap() {
		return ErrNoCurrentCard
	}
	if e.revealed {
		return ErrAlreadyRevealed
	}
	e.revealed = true
	return nil
}

// Grade applies one graded review to the current card: the scheduler computes
// the card's next state, the store is updated, a review log is appended, the
// session counters advance and an undo entry is pushed. The session then
// moves to the next card, or to recap when the queue is exhausted.
func (e *Engine) Grade(grade int) error {
	if e.InRecap() {
		return ErrNoCurrentCard
	}
	if !e.revealed {
		return ErrNotRevealed
	}

	current := e.queue[e.idx]
	now := e.now()
	updated, err := srs.Schedule(current, grade, now)
	if err != nil {
		return err
	}

	wasDue := current.IsDue(now)
	timeMs := e.elapsed.Load() * 1000

	if err := e.store.UpdateCard(updated); err != nil {
		return fmt.Errorf("store.UpdateCard() > %w", err)
	}
	log := srs.NewReviewLog(current, grade, timeMs, wasDue, now)
	if err := e.store.AppendLog(log); err != nil {
		return fmt.Errorf("store.AppendLog() > %w", err)
	}

	e.summary.Reviewed++
	if srs.IsSuccess(grade) {
		e.summary.Correct++
	}
	e.summary.TotalTimeMs += timeMs
	e.summary.GradeCounts[grade]++

	e.history = append(e.history, undoEntry{
		before: current,
		after:  updated,
		grade:  grade,
		timeMs: timeMs,
		logID:  log.ID,
	})
	if len(e.history) > undoDepth {
		e.history = e.history[1:]
	}

	e.idx++
	e.revealed = false
	e.restartTimer()
	return nil
}

// Undo reverses the most recent grade: the card's pre-review snapshot is
// restored in the store, the review log it wrote is retracted so history and
// card state stay in agreement, the counters give back exactly what the
// grade added, and the session re-enters the revealed state on the restored
// card.
func (e *Engine) Undo() error {
	if len(e.history) == 0 {
		return ErrNothingToUndo
	}

	entry := e.history[len(e.history)-1]
	if err := e.store.UpdateCard(entry.before); err != nil {
		return fmt.Errorf("store.UpdateCard() > %w", err)
	}
	if err := e.store.RemoveLog(entry.logID); err != nil {
		return fmt.Errorf("store.RemoveLog() > %w", err)
	}
	e.history = e.history[:len(e.history)-1]

	e.summary.Reviewed--
	if srs.IsSuccess(entry.grade) {
		e.summary.Correct--
	}
	e.summary.TotalTimeMs -= entry.timeMs
	e.summary.GradeCounts[entry.grade]--

	if e.idx > 0 && e.queue[e.idx-1].ID == entry.before.ID {
		e.idx--
		e.queue[e.idx] = entry.before
	} else {
		// The graded card is no longer behind the cursor (the queue was
		// rebuilt since); splice it back in as the current card.
		rest := append([]srs.Card{entry.before}, e.queue[e.idx:]...)
		e.queue = append(e.queue[:e.idx], rest...)
	}
	e.revealed = true
	e.restartTimer()
	return nil
}

// StudyMore leaves recap by building a fresh queue. Session counters keep
// running across queues.
func (e *Engine) StudyMore() {
	e.resetQueue()
}

// Close stops the per-card timer. The engine must not be used afterwards.
func (e *Engine) Close() {
	e.stopTimer()
}

// restartTimer resets the elapsed counter and starts a fresh 1-second tick.
// Stale tickers are stopped first so they can never increment a card they no
// longer belong to.
func (e *Engine) restartTimer() {
	e.stopTimer()
	e.elapsed.Store(0)

	done := make(chan struct{})
	e.timerDone = done
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				e.elapsed.Add(1)
			}
		}
	}()
}

func (e *Engine) stopTimer() {
	if e.timerDone != nil {
		close(e.timerDone)
		e.timerDone = nil
	}
}
