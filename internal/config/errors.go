package config

import "github.com/ayoisaiah/proctor/internal/apperr"

var (
	errConfigOption = &apperr.Error{
		Message: "config option error",
		Kind:    apperr.KindValidation,
	}

	errConfigValidation = &apperr.Error{
		Message: "config validation error",
		Kind:    apperr.KindValidation,
	}

	errReadConfig = &apperr.Error{
		Message: "reading config file failed",
	}

	errWriteConfig = &apperr.Error{
		Message: "writing default config failed",
	}

	errInvalidPort = &apperr.Error{
		Message: "server port must be between %d and %d, got %d",
	}

	errInvalidExpiry = &apperr.Error{
		Message: "session expiry must be at least %v, got %v",
	}

	errNonPositiveDuration = &apperr.Error{
		Message: "%s must be greater than zero, got %v",
	}

	errReliableTooLong = &apperr.Error{
		Message: "%s reliable sustain (%v) must not exceed the regular sustain (%v)",
	}

	errNegativeCooldown = &apperr.Error{
		Message: "cooldowns cannot be negative, got %v",
	}

	errInvalidThreshold = &apperr.Error{
		Message: "focus threshold must be in (0, 1], got %v",
	}

	errEmptyClass = &apperr.Error{
		Message: "prohibited class names cannot be empty",
	}

	errUnknownCategory = &apperr.Error{
		Message: "prohibited class %q maps to unknown category %q",
	}

	errInvalidLogLevel = &apperr.Error{
		Message: "unknown log level: %s (must be debug, info, warn or error)",
	}

	errInvalidLogFormat = &apperr.Error{
		Message: "unknown log format: %s (must be text or json)",
	}

	errPrompt = &apperr.Error{
		Message: "first-run prompt failed",
	}
)
