package srs

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	DefaultEasinessFactor = 2.5
	MinEasinessFactor     = 1.3

	// MinGrade and MaxGrade bound the accepted quality scale:
	// 0 is a total blackout, 5 is perfect recall. Grades below
	// SuccessGrade count as a lapse.
	MinGrade     = 0
	MaxGrade     = 5
	SuccessGrade = 3
)

// ErrInvalidGrade is returned when a grade falls outside [MinGrade, MaxGrade].
// Out-of-range grades are rejected, never clamped.
var ErrInvalidGrade = errors.New("grade must be between 0 and 5")

// Schedule applies one graded review to card and returns the updated card.
// It is pure: card is taken by value and a new value is returned, so callers
// can keep the pre-review state for undo.
//
// Lapses (grade < 3) reset the repetition streak and schedule the card for
// tomorrow without touching the easiness factor. Successful reviews grow the
// interval 1 -> 6 -> round(interval * EF) and update EF from the grade,
// clamped at MinEasinessFactor.
func Schedule(card Card, grade int, now time.Time) (Card, error) {
	if grade < MinGrade || grade > MaxGrade {
		return Card{}, fmt.Errorf("%w: got %d", ErrInvalidGrade, grade)
	}

	if grade < SuccessGrade {
		card.Repetitions = 0
		card.Interval = 1
	} else {
		card.Repetitions++
		switch card.Repetitions {
		case 1:
			card.Interval = 1
		case 2:
			card.Interval = 6
		default:
			card.Interval = roundHalfAwayFromZero(float64(card.Interval) * card.EF)
		}

		q := float64(grade)
		card.EF = math.Max(MinEasinessFactor, card.EF+(-0.8+0.28*q-0.02*q*q))
	}

	card.Due = now.Add(time.Duration(card.Interval) * 24 * time.Hour)
	card.UpdatedAt = now
	return card, nil
}

// IsSuccess reports whether grade counts as a successful recall.
func IsSuccess(grade int) bool {
	return grade >= SuccessGrade
}

func roundHalfAwayFromZero(v float64) int {
	return int(math.Round(v))
}
