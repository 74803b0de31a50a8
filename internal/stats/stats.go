// Package stats derives calendar-bucketed metrics from the review history
// and card collections. Everything here is read-only.
package stats

import (
	"math"
	"time"

	"mnemo/internal/srs"
)

// Source is the read-only slice of the store the aggregator consumes.
type Source interface {
	Logs() []srs.ReviewLog
	Cards() []srs.Card
}

// DayPoint is one calendar day's count, labeled MM/DD for display.
type DayPoint struct {
	Date  time.Time
	Label string
	Count int
}

// Aggregator computes statistics over a source's logs and cards on demand.
type Aggregator struct {
	source Source
}

// New creates an aggregator over the given source.
func New(source Source) *Aggregator {
	return &Aggregator{source: source}
}

// ReviewsOnDate counts the reviews whose timestamp falls within day's local
// calendar day, midnight to midnight.
func (a *Aggregator) ReviewsOnDate(day time.Time) int {
	start := startOfDay(day)
	end := start.AddDate(0, 0, 1)

	count := 0
	for _, log := range a.source.Logs() {
		if !log.TS.Before(start) && log.TS.Before(end) {
			count++
		}
	}
	return count
}

// DueCountOnDate counts the cards whose due instant falls within day's local
// calendar day.
func (a *Aggregator) DueCountOnDate(day time.Time) int {
	start := startOfDay(day)
	end := start.AddDate(0, 0, 1)

	count := 0
	for _, card := range a.source.Cards() {
		if !card.Due.Before(start) && card.Due.Before(end) {
			count++
		}
	}
	return count
}

// GradeCounts returns a histogram of all reviews by grade.
func (a *Aggregator) GradeCounts() map[int]int {
	counts := make(map[int]int)
	for _, log := range a.source.Logs() {
		counts[log.Grade]++
	}
	return counts
}

// TotalReviews returns the number of reviews ever recorded.
func (a *Aggregator) TotalReviews() int {
	return len(a.source.Logs())
}

// CorrectReviews returns the number of successful reviews.
func (a *Aggregator) CorrectReviews() int {
	count := 0
	for _, log := range a.source.Logs() {
		if srs.IsSuccess(log.Grade) {
			count++
		}
	}
	return count
}

// Accuracy returns correct/total as a rounded percentage, 0 with no reviews.
func (a *Aggregator) Accuracy() int {
	total := a.TotalReviews()
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(a.CorrectReviews()) / float64(total) * 100))
}

// DailySeries returns one point per day for the last days local calendar
// days, oldest first, ending today.
func (a *Aggregator) DailySeries(now time.Time, days int) []DayPoint {
	points := make([]DayPoint, 0, days)
	for offset := days - 1; offset >= 0; offset-- {
		day := startOfDay(now).AddDate(0, 0, -offset)
		points = append(points, DayPoint{
			Date:  day,
			Label: day.Format("01/02"),
			Count: a.ReviewsOnDate(day),
		})
	}
	return points
}

// DueForecast returns one point per day for today and the following days-1
// local calendar days.
func (a *Aggregator) DueForecast(now time.Time, days int) []DayPoint {
	points := make([]DayPoint, 0, days)
	for offset := 0; offset < days; offset++ {
		day := startOfDay(now).AddDate(0, 0, offset)
		points = append(points, DayPoint{
			Date:  day,
			Label: day.Format("01/02"),
			Count: a.DueCountOnDate(day),
		})
	}
	return points
}

// startOfDay truncates t to local midnight. time.Truncate would use UTC, so
// the boundary is built from the local calendar date instead.
func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
