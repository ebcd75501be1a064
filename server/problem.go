package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ayoisaiah/proctor/internal/apperr"
)

// Problem is an RFC 7807 error body.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Detail   string `json:"detail"`
	Instance string `json:"instance"`
	Kind     string `json:"kind"`
	Status   int    `json:"status"`
}

func (p *Problem) Error() string {
	return fmt.Sprintf("%s: %s", p.Title, p.Detail)
}

// NewProblem creates a Problem for status.
func NewProblem(status int, kind apperr.Kind, detail, instance string) *Problem {
	return &Problem{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: instance,
		Kind:     string(kind),
	}
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidTransition, apperr.KindSessionNotActive:
		return http.StatusConflict
	case apperr.KindExpired:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

// abort writes err as a problem response.
func abort(c *gin.Context, err error) {
	var p *Problem
	if !errors.As(err, &p) {
		kind := apperr.KindOf(err)
		p = NewProblem(statusFor(kind), kind, err.Error(), c.Request.URL.Path)
	}

	if p.Status >= http.StatusInternalServerError {
		slog.ErrorContext(
			c.Request.Context(),
			"request failed",
			slog.String("path", p.Instance),
			slog.Any("error", err),
		)

		p.Detail = "internal error"
	}

	c.Header("Content-Type", "application/problem+json")
	c.AbortWithStatusJSON(p.Status, p)
}

func badRequest(c *gin.Context, detail string) {
	abort(c, NewProblem(
		http.StatusBadRequest,
		apperr.KindValidation,
		detail,
		c.Request.URL.Path,
	))
}
