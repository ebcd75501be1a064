package debounce

import (
	"sort"
	"strings"
	"time"

	"github.com/ayoisaiah/proctor/internal/models"
)

// Config holds the detection thresholds and windows.
type Config struct {
	// Classes maps a detected object class (matched case-insensitively as
	// a substring) to the category it violates.
	Classes                  map[string]models.Category
	FocusThreshold           float64
	NoFaceSustain            time.Duration
	NoFaceSustainReliable    time.Duration
	FocusLostSustain         time.Duration
	FocusLostSustainReliable time.Duration
	MultipleFacesCooldown    time.Duration
	DeviceCooldown           time.Duration
	MaterialsCooldown        time.Duration
}

// DefaultClasses is the default prohibited object table.
func DefaultClasses() map[string]models.Category {
	return map[string]models.Category{
		"phone":     models.DeviceDetected,
		"mobile":    models.DeviceDetected,
		"laptop":    models.DeviceDetected,
		"computer":  models.DeviceDetected,
		"keyboard":  models.DeviceDetected,
		"mouse":     models.DeviceDetected,
		"tablet":    models.DeviceDetected,
		"book":      models.MaterialsDetected,
		"paper":     models.MaterialsDetected,
		"clipboard": models.MaterialsDetected,
		"magazine":  models.MaterialsDetected,
		"newspaper": models.MaterialsDetected,
	}
}

// DefaultConfig returns the standard detection settings.
func DefaultConfig() Config {
	return Config{
		Classes:                  DefaultClasses(),
		FocusThreshold:           0.4,
		NoFaceSustain:            10 * time.Second,
		NoFaceSustainReliable:    8 * time.Second,
		FocusLostSustain:         5 * time.Second,
		FocusLostSustainReliable: 4 * time.Second,
		MultipleFacesCooldown:    25 * time.Second,
		DeviceCooldown:           20 * time.Second,
		MaterialsCooldown:        20 * time.Second,
	}
}

// Estimates returns the time in violation assumed for an event of a
// sustained category that carries no measured window: the configured
// sustain of the category.
func (c Config) Estimates() map[models.Category]time.Duration {
	return map[models.Category]time.Duration{
		models.FocusLost: c.FocusLostSustain,
		models.NoFace:    c.NoFaceSustain,
	}
}

// LongestSustain returns the longest sustain window of any category.
func (c Config) LongestSustain() time.Duration {
	return max(
		c.NoFaceSustain,
		c.NoFaceSustainReliable,
		c.FocusLostSustain,
		c.FocusLostSustainReliable,
	)
}

// classifier resolves object classes to categories. Longer keys are tried
// first so that "cell phone" never loses to a shorter overlapping key.
type classifier struct {
	table map[string]models.Category
	keys  []string
}

func newClassifier(table map[string]models.Category) classifier {
	c := classifier{table: make(map[string]models.Category, len(table))}

	for k, v := range table {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || !v.Valid() {
			continue
		}

		c.table[k] = v
		c.keys = append(c.keys, k)
	}

	sort.Slice(c.keys, func(i, j int) bool {
		if len(c.keys[i]) != len(c.keys[j]) {
			return len(c.keys[i]) > len(c.keys[j])
		}

		return c.keys[i] < c.keys[j]
	})

	return c
}

func (c classifier) category(class string) (models.Category, bool) {
	class = strings.ToLower(strings.TrimSpace(class))
	if class == "" {
		return "", false
	}

	for _, k := range c.keys {
		if strings.Contains(class, k) {
			return c.table[k], true
		}
	}

	return "", false
}

// first returns the first class in classes that maps to want.
func (c classifier) first(classes []string, want models.Category) (string, bool) {
	for _, class := range classes {
		if got, ok := c.category(class); ok && got == want {
			return class, true
		}
	}

	return "", false
}
