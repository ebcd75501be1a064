package eventlog

import "github.com/ayoisaiah/proctor/internal/apperr"

var (
	ErrCategoryRequired = &apperr.Error{
		Message: "event category is required",
		Kind:    apperr.KindValidation,
	}

	ErrUnknownCategory = &apperr.Error{
		Message: "unknown event category: %s",
		Kind:    apperr.KindValidation,
	}

	ErrUnknownSource = &apperr.Error{
		Message: "unknown event source: %s",
		Kind:    apperr.KindValidation,
	}

	ErrSessionNotActive = &apperr.Error{
		Message: "session %s is %s, events can only be logged while it is active",
		Kind:    apperr.KindSessionNotActive,
	}
)
