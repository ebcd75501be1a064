package models

import "time"

// Sample is one observation from a perceptual signal source.
type Sample struct {
	// ObservedAt is when the source produced the sample. It is informational
	// only: debouncing uses the time the sample is processed.
	ObservedAt    time.Time `json:"observed_at,omitempty"`
	ObjectClasses []string  `json:"object_classes"`
	FaceCount     int       `json:"face_count"`
	Confidence    float64   `json:"confidence"`
	// Reliable marks samples from a high-reliability source, which shortens
	// sustain windows.
	Reliable bool `json:"reliable"`
}
