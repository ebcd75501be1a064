package store

import "github.com/ayoisaiah/proctor/internal/apperr"

var (
	errProctorRunning = &apperr.Error{
		Message: "is proctor already running? The database is locked by another process",
		Kind:    apperr.KindInternal,
	}

	errOpenDB = &apperr.Error{
		Message: "unable to open the database",
		Kind:    apperr.KindInternal,
	}

	errSchemaTooNew = &apperr.Error{
		Message: "database schema version %d is newer than supported version %d",
		Kind:    apperr.KindInternal,
	}

	ErrSessionExists = &apperr.Error{
		Message: "session %s already exists",
		Kind:    apperr.KindValidation,
	}

	ErrSessionNotFound = &apperr.Error{
		Message: "session %s not found",
		Kind:    apperr.KindNotFound,
	}

	ErrReportNotFound = &apperr.Error{
		Message: "no report has been generated for session %s",
		Kind:    apperr.KindNotFound,
	}
)
