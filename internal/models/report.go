package models

import "time"

// RiskTier buckets an integrity score.
type RiskTier string

const (
	RiskLow      RiskTier = "LOW"
	RiskMedium   RiskTier = "MEDIUM"
	RiskHigh     RiskTier = "HIGH"
	RiskCritical RiskTier = "CRITICAL"
)

// Valid reports whether r is a known tier.
func (r RiskTier) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}

	return false
}

// Deduction is the contribution of one category to the score.
type Deduction struct {
	Category   Category `json:"category"`
	Severity   RiskTier `json:"severity"`
	Count      int      `json:"count"`
	PointsEach int      `json:"points_each"`
	Deduction  int      `json:"deduction"`
}

// TimeAnalysis holds the time-based report analytics.
type TimeAnalysis struct {
	PerCategory        map[Category]time.Duration `json:"per_category"`
	TotalViolationTime time.Duration              `json:"total_violation_time"`
	AverageGap         time.Duration              `json:"average_gap"`
	LongestGap         time.Duration              `json:"longest_gap"`
}

// IntegrityReport is the persisted outcome of scoring a session.
type IntegrityReport struct {
	GeneratedAt    time.Time        `json:"generated_at"`
	StartTime      *time.Time       `json:"start_time"`
	EndTime        *time.Time       `json:"end_time"`
	TimeAnalysis   TimeAnalysis     `json:"time_analysis"`
	SessionID      string           `json:"session_id"`
	CandidateName  string           `json:"candidate_name"`
	CandidateEmail string           `json:"candidate_email"`
	Status         Status           `json:"status"`
	RiskTier       RiskTier         `json:"risk_tier"`
	Version        string           `json:"report_version"`
	Breakdown      []Deduction      `json:"breakdown"`
	Events         []ViolationEvent `json:"events"`
	Duration       time.Duration    `json:"duration"`
	Score          int              `json:"score"`
	TotalDeduction int              `json:"total_deduction"`
	TotalEvents    int              `json:"total_events"`
}
