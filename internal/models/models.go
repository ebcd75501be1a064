// Package models defines the records shared by the store, the detection
// engine and the transport layers.
package models

import "time"

// Status is the lifecycle state of a monitored session.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusExpired   Status = "expired"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{
	StatusPending,
	StatusActive,
	StatusCompleted,
	StatusExpired,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusCompleted, StatusExpired:
		return true
	}

	return false
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusExpired
}

// JoinInfo records how and when the candidate joined a session.
type JoinInfo struct {
	JoinedAt  time.Time         `json:"joined_at"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	IPAddress string            `json:"ip_address,omitempty"`
	UserAgent string            `json:"user_agent,omitempty"`
	Country   string            `json:"country,omitempty"`
}

// Session is one monitored interaction with an expiry deadline.
type Session struct {
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	ExpiresAt      time.Time  `json:"expires_at"`
	StartTime      *time.Time `json:"start_time"`
	EndTime        *time.Time `json:"end_time"`
	Join           *JoinInfo  `json:"join,omitempty"`
	ID             string     `json:"session_id"`
	CandidateName  string     `json:"candidate_name"`
	CandidateEmail string     `json:"candidate_email"`
	Notes          string     `json:"notes"`
	Status         Status     `json:"status"`
}

// CandidateLink is the shareable reference handed to the candidate.
func (s *Session) CandidateLink() string {
	return "/candidate/" + s.ID
}

// Due reports whether the expiry deadline has passed for a session that can
// still expire.
func (s *Session) Due(now time.Time) bool {
	return !s.Status.Terminal() && now.After(s.ExpiresAt)
}
