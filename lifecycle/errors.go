package lifecycle

import "github.com/ayoisaiah/proctor/internal/apperr"

var (
	ErrNameRequired = &apperr.Error{
		Message: "candidate name is required",
		Kind:    apperr.KindValidation,
	}

	ErrInvalidEmail = &apperr.Error{
		Message: "invalid candidate email: %q",
		Kind:    apperr.KindValidation,
	}

	ErrInvalidTransition = &apperr.Error{
		Message: "cannot %s session %s: status is %s",
		Kind:    apperr.KindInvalidTransition,
	}

	ErrExpired = &apperr.Error{
		Message: "session %s expired at %s",
		Kind:    apperr.KindExpired,
	}
)
