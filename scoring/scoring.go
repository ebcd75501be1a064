// Package scoring converts violation events into an integrity score and a
// risk tier. Everything here is pure.
package scoring

import (
	"time"

	"github.com/ayoisaiah/proctor/internal/models"
)

// MaxScore is the score of a session without violations.
const MaxScore = 100

type weight struct {
	severity models.RiskTier
	points   int
}

var weights = map[models.Category]weight{
	models.FocusLost:         {points: 3, severity: models.RiskLow},
	models.NoFace:            {points: 5, severity: models.RiskMedium},
	models.MultipleFaces:     {points: 8, severity: models.RiskHigh},
	models.DeviceDetected:    {points: 15, severity: models.RiskCritical},
	models.MaterialsDetected: {points: 10, severity: models.RiskHigh},
}

// Points returns the deduction for one event of category c.
func Points(c models.Category) int {
	return weights[c].points
}

// Severity returns the severity label of category c.
func Severity(c models.Category) models.RiskTier {
	return weights[c].severity
}

// Result is the outcome of scoring a set of events.
type Result struct {
	Tier           models.RiskTier    `json:"risk_tier"`
	Breakdown      []models.Deduction `json:"breakdown"`
	Score          int                `json:"score"`
	TotalDeduction int                `json:"total_deduction"`
}

// Score computes the integrity score of events. Unknown categories carry no
// points. The breakdown lists every category in a fixed order.
func Score(events []models.ViolationEvent) Result {
	counts := make(map[models.Category]int, len(models.Categories))
	for i := range events {
		counts[events[i].Category]++
	}

	res := Result{
		Breakdown: make([]models.Deduction, 0, len(models.Categories)),
	}

	for _, c := range models.Categories {
		w := weights[c]
		d := models.Deduction{
			Category:   c,
			Severity:   w.severity,
			Count:      counts[c],
			PointsEach: w.points,
			Deduction:  counts[c] * w.points,
		}

		res.TotalDeduction += d.Deduction
		res.Breakdown = append(res.Breakdown, d)
	}

	res.Score = max(0, MaxScore-res.TotalDeduction)
	res.Tier = Tier(res.Score)

	return res
}

// Tier buckets a score.
func Tier(score int) models.RiskTier {
	switch {
	case score >= 80:
		return models.RiskLow
	case score >= 60:
		return models.RiskMedium
	case score >= 40:
		return models.RiskHigh
	default:
		return models.RiskCritical
	}
}

// Duration is the observed length of a session. Event times take precedence
// over the lifecycle timestamps, and now is used for a session that has not
// ended. The result is never negative. events must be in timestamp order.
func Duration(
	sess *models.Session,
	events []models.ViolationEvent,
	now time.Time,
) time.Duration {
	var start, end time.Time

	switch {
	case len(events) > 0:
		start = events[0].Timestamp
	case sess.StartTime != nil:
		start = *sess.StartTime
	default:
		start = sess.CreatedAt
	}

	switch {
	case len(events) > 0:
		end = events[len(events)-1].Timestamp
	case sess.EndTime != nil:
		end = *sess.EndTime
	default:
		end = now
	}

	return max(0, end.Sub(start))
}
