package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ayoisaiah/proctor/internal/models"
	"github.com/ayoisaiah/proctor/internal/timeutil"
	"github.com/ayoisaiah/proctor/lifecycle"
	"github.com/ayoisaiah/proctor/report"
	"github.com/ayoisaiah/proctor/signal"
	"github.com/ayoisaiah/proctor/store"
)

type createSessionRequest struct {
	CandidateName  string `json:"candidate_name"`
	CandidateEmail string `json:"candidate_email"`
	Notes          string `json:"notes"`
}

type createSessionResponse struct {
	Session       *models.Session `json:"session"`
	SessionID     string          `json:"session_id"`
	CandidateLink string          `json:"candidate_link"`
}

type startSessionRequest struct {
	Metadata map[string]string `json:"metadata"`
}

type logEventRequest struct {
	Category    models.Category `json:"category"`
	Description string          `json:"description"`
	Source      models.Source   `json:"source"`
	Confidence  float64         `json:"confidence"`
}

type ingestResponse struct {
	Accepted bool `json:"accepted"`
}

// bindOptional decodes an optional JSON body into v.
func bindOptional(c *gin.Context, v any) error {
	err := c.ShouldBindJSON(v)
	if errors.Is(err, io.EOF) {
		return nil
	}

	return err
}

func (s *Server) createSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body: "+err.Error())
		return
	}

	sess, err := s.svc.CreateSession(c.Request.Context(), lifecycle.CreateInput{
		CandidateName:  req.CandidateName,
		CandidateEmail: req.CandidateEmail,
		Notes:          req.Notes,
	})
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, createSessionResponse{
		Session:       sess,
		SessionID:     sess.ID,
		CandidateLink: sess.CandidateLink(),
	})
}

func (s *Server) listSessions(c *gin.Context) {
	var filter store.SessionFilter

	if status := c.Query("status"); status != "" {
		filter.Status = models.Status(status)
		if !filter.Status.Valid() {
			badRequest(c, "unknown status: "+status)
			return
		}
	}

	now := s.now()

	if since := c.Query("since"); since != "" {
		t, err := timeutil.FromStr(since, now)
		if err != nil {
			abort(c, err)
			return
		}

		filter.Since = t
	}

	if until := c.Query("until"); until != "" {
		t, err := timeutil.FromStr(until, now)
		if err != nil {
			abort(c, err)
			return
		}

		filter.Until = t
	}

	res, err := s.svc.ListSessions(c.Request.Context(), filter)
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (s *Server) getSession(c *gin.Context) {
	details, err := s.svc.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

func (s *Server) startSession(c *gin.Context) {
	var req startSessionRequest
	if err := bindOptional(c, &req); err != nil {
		badRequest(c, "invalid JSON body: "+err.Error())
		return
	}

	sess, err := s.svc.StartSession(c.Request.Context(), c.Param("id"), models.JoinInfo{
		Metadata:  req.Metadata,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, sess)
}

func (s *Server) completeSession(c *gin.Context) {
	sess, err := s.svc.CompleteSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, sess)
}

func (s *Server) ingestSignal(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		badRequest(c, "unable to read request body")
		return
	}

	sample, err := signal.DecodeSample(raw)
	if err != nil {
		abort(c, err)
		return
	}

	accepted, err := s.svc.IngestSignal(c.Request.Context(), c.Param("id"), sample)
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusAccepted, ingestResponse{Accepted: accepted})
}

func (s *Server) logEvent(c *gin.Context) {
	var req logEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body: "+err.Error())
		return
	}

	ev, err := s.svc.LogEvent(c.Request.Context(), models.ViolationEvent{
		SessionID:   c.Param("id"),
		Category:    req.Category,
		Description: req.Description,
		Source:      req.Source,
		Confidence:  req.Confidence,
	})
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, ev)
}

func (s *Server) listEvents(c *gin.Context) {
	events, err := s.svc.ListEvents(c.Request.Context(), c.Param("id"))
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

func (s *Server) generateReport(c *gin.Context) {
	r, err := s.svc.GenerateReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, r)
}

func (s *Server) getReport(c *gin.Context) {
	r, err := s.svc.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, r)
}

func (s *Server) listReports(c *gin.Context) {
	f := report.Filter{
		Tier: models.RiskTier(c.Query("tier")),
	}

	var err error

	if v := c.Query("limit"); v != "" {
		f.Limit, err = strconv.Atoi(v)
		if err != nil || f.Limit < 0 {
			badRequest(c, "limit must be a non-negative integer")
			return
		}
	}

	if v := c.Query("offset"); v != "" {
		f.Offset, err = strconv.Atoi(v)
		if err != nil || f.Offset < 0 {
			badRequest(c, "offset must be a non-negative integer")
			return
		}
	}

	page, err := s.svc.ListReports(c.Request.Context(), f)
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"trackers": s.svc.Trackers(),
	})
}
