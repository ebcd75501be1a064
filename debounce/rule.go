package debounce

import (
	"fmt"
	"time"

	"github.com/hako/durafmt"

	"github.com/ayoisaiah/proctor/internal/models"
)

// rule is the detection policy of one category.
type rule struct {
	// match reports whether the sample triggers the category and returns a
	// detail used in the event description.
	match           func(s models.Sample) (string, bool)
	describe        func(s models.Sample, detail string, sustain time.Duration) string
	category        models.Category
	sustain         time.Duration
	sustainReliable time.Duration
	cooldown        time.Duration
}

func (r *rule) sustainFor(s models.Sample) time.Duration {
	if s.Reliable && r.sustainReliable > 0 {
		return r.sustainReliable
	}

	return r.sustain
}

func buildRules(cfg Config) []rule {
	cls := newClassifier(cfg.Classes)

	objectRule := func(c models.Category, cooldown time.Duration, label string) rule {
		return rule{
			category: c,
			cooldown: cooldown,
			match: func(s models.Sample) (string, bool) {
				return cls.first(s.ObjectClasses, c)
			},
			describe: func(_ models.Sample, class string, _ time.Duration) string {
				return fmt.Sprintf("%s (%s) detected", label, class)
			},
		}
	}

	return []rule{
		{
			category:        models.FocusLost,
			sustain:         cfg.FocusLostSustain,
			sustainReliable: cfg.FocusLostSustainReliable,
			match: func(s models.Sample) (string, bool) {
				return "", s.FaceCount == 1 && s.Confidence < cfg.FocusThreshold
			},
			describe: func(models.Sample, string, time.Duration) string {
				return "Low confidence face detection - possible looking away"
			},
		},
		{
			category:        models.NoFace,
			sustain:         cfg.NoFaceSustain,
			sustainReliable: cfg.NoFaceSustainReliable,
			match: func(s models.Sample) (string, bool) {
				return "", s.FaceCount == 0
			},
			describe: func(_ models.Sample, _ string, sustain time.Duration) string {
				return "No face detected for " + durafmt.Parse(sustain).String()
			},
		},
		{
			category: models.MultipleFaces,
			cooldown: cfg.MultipleFacesCooldown,
			match: func(s models.Sample) (string, bool) {
				return "", s.FaceCount > 1
			},
			describe: func(s models.Sample, _ string, _ time.Duration) string {
				return fmt.Sprintf("%d faces detected", s.FaceCount)
			},
		},
		objectRule(models.DeviceDetected, cfg.DeviceCooldown, "Electronic device"),
		objectRule(models.MaterialsDetected, cfg.MaterialsCooldown, "Written material"),
	}
}
