package report

import (
	"time"

	"github.com/ayoisaiah/proctor/internal/models"
)

// Analyze computes the time analytics of events, which must be in timestamp
// order. An event without a measured sustain window counts for the estimate
// of its category, or nothing when there is none.
func Analyze(
	events []models.ViolationEvent,
	estimates map[models.Category]time.Duration,
) models.TimeAnalysis {
	ta := models.TimeAnalysis{
		PerCategory: make(map[models.Category]time.Duration, len(models.Categories)),
	}

	for _, c := range models.Categories {
		ta.PerCategory[c] = 0
	}

	for i := range events {
		d := events[i].Sustained
		if d <= 0 {
			d = estimates[events[i].Category]
		}

		ta.PerCategory[events[i].Category] += d
		ta.TotalViolationTime += d
	}

	if len(events) < 2 {
		return ta
	}

	var sum time.Duration

	for i := 1; i < len(events); i++ {
		gap := events[i].Timestamp.Sub(events[i-1].Timestamp)
		sum += gap

		if gap > ta.LongestGap {
			ta.LongestGap = gap
		}
	}

	ta.AverageGap = sum / time.Duration(len(events)-1)

	return ta
}
