package models

import "time"

// Category is one of the recognised violation classes.
type Category string

const (
	FocusLost         Category = "focus_lost"
	NoFace            Category = "no_face"
	MultipleFaces     Category = "multiple_faces"
	DeviceDetected    Category = "device_detected"
	MaterialsDetected Category = "materials_detected"
)

// Categories lists every category in report order.
var Categories = []Category{
	FocusLost,
	NoFace,
	MultipleFaces,
	DeviceDetected,
	MaterialsDetected,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case FocusLost, NoFace, MultipleFaces, DeviceDetected, MaterialsDetected:
		return true
	}

	return false
}

// Source identifies where a violation event came from.
type Source string

const (
	SourceLiveSignal Source = "live-signal"
	SourceManualTest Source = "manual-test"
)

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	return s == SourceLiveSignal || s == SourceManualTest
}

// ViolationEvent is an immutable record of a confirmed violation.
type ViolationEvent struct {
	Timestamp   time.Time     `json:"timestamp"`
	SessionID   string        `json:"session_id"`
	Category    Category      `json:"category"`
	Description string        `json:"description"`
	Source      Source        `json:"source"`
	Confidence  float64       `json:"confidence"`
	Seq         uint64        `json:"seq"`
	Sustained   time.Duration `json:"sustained,omitempty"`
}
