package config

import (
	"slices"
	"strings"
	"time"
)

var (
	minPort = 1
	maxPort = 65535

	minExpiry = time.Minute

	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Validate performs validation checks on the Config struct and its fields.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if c.Session.Expiry < minExpiry {
		return errInvalidExpiry.Fmt(minExpiry, c.Session.Expiry)
	}

	if err := c.validateDetection(); err != nil {
		return err
	}

	return c.validateLog()
}

func (c *Config) validateServer() error {
	if c.Server.Port < minPort || c.Server.Port > maxPort {
		return errInvalidPort.Fmt(minPort, maxPort, c.Server.Port)
	}

	if c.Server.SweepInterval <= 0 {
		return errNonPositiveDuration.Fmt("server.sweep_interval", c.Server.SweepInterval)
	}

	return nil
}

func (c *Config) validateDetection() error {
	d := c.Detection

	if d.FocusThreshold <= 0 || d.FocusThreshold > 1 {
		return errInvalidThreshold.Fmt(d.FocusThreshold)
	}

	sustains := []struct {
		name string
		d    time.Duration
	}{
		{"detection.no_face.sustain", d.NoFaceSustain},
		{"detection.no_face.sustain_reliable", d.NoFaceSustainReliable},
		{"detection.focus_lost.sustain", d.FocusLostSustain},
		{"detection.focus_lost.sustain_reliable", d.FocusLostSustainReliable},
	}

	for _, s := range sustains {
		if s.d <= 0 {
			return errNonPositiveDuration.Fmt(s.name, s.d)
		}
	}

	if d.NoFaceSustainReliable > d.NoFaceSustain {
		return errReliableTooLong.Fmt("no_face", d.NoFaceSustainReliable, d.NoFaceSustain)
	}

	if d.FocusLostSustainReliable > d.FocusLostSustain {
		return errReliableTooLong.Fmt("focus_lost", d.FocusLostSustainReliable, d.FocusLostSustain)
	}

	for _, cd := range []time.Duration{
		d.MultipleFacesCooldown,
		d.DeviceCooldown,
		d.MaterialsCooldown,
	} {
		if cd < 0 {
			return errNegativeCooldown.Fmt(cd)
		}
	}

	for class, cat := range d.ProhibitedClasses {
		if strings.TrimSpace(class) == "" {
			return errEmptyClass
		}

		if !cat.Valid() {
			return errUnknownCategory.Fmt(class, cat)
		}
	}

	return nil
}

func (c *Config) validateLog() error {
	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		return errInvalidLogLevel.Fmt(c.Log.Level)
	}

	if !slices.Contains(logFormats, strings.ToLower(c.Log.Format)) {
		return errInvalidLogFormat.Fmt(c.Log.Format)
	}

	return nil
}
