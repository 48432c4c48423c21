package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	evaldomain "github.com/smallbiznis/teampulse/internal/evaluation/domain"
	"github.com/smallbiznis/teampulse/internal/period"
	userdomain "github.com/smallbiznis/teampulse/internal/user/domain"
)

type SubmitAnswerRequest struct {
	Period     string       `json:"period"`
	SubjectID  snowflake.ID `json:"subject_id,string"`
	QuestionID snowflake.ID `json:"question_id,string"`
	Source     string       `json:"source"`
	Score      int          `json:"score"`
}

func (s *Server) SubmitAnswer(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	source, ok := evaldomain.ParseSource(req.Source)
	if !ok {
		AbortWithError(c, evaldomain.ErrInvalidSource)
		return
	}
	if source == evaldomain.SourceManager && !identity.Role().CanRateAsManager() {
		AbortWithError(c, ErrForbidden)
		return
	}

	if s.submitLimiter.Enabled() {
		allowed, err := s.submitLimiter.Allow(c.Request.Context(), identity.User.ID)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if !allowed {
			s.obsMetrics.RecordRateLimitDenied(c.Request.Context())
			AbortWithError(c, ErrRateLimited)
			return
		}
	}

	p := period.FromTime(s.clock.Now(), s.resolution)
	if raw := strings.TrimSpace(req.Period); raw != "" {
		parsed, err := period.ParseKey(raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		p = parsed
	}

	answer, err := s.answerSvc.Submit(c.Request.Context(), evaldomain.SubmitAnswerRequest{
		Period:     p,
		RaterID:    identity.User.ID,
		SubjectID:  req.SubjectID,
		QuestionID: req.QuestionID,
		Source:     string(source),
		Score:      req.Score,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, answer)
}

func (s *Server) ListAnswers(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	p, err := s.periodFromQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	subjectID := identity.User.ID
	if raw := strings.TrimSpace(c.Query("subject_id")); raw != "" {
		if identity.Role() != userdomain.RoleAdmin {
			AbortWithError(c, ErrForbidden)
			return
		}
		subjectID, err = parseSnowflakeParam(raw)
		if err != nil {
			AbortWithError(c, newValidationError("subject_id", "invalid_subject_id", "must be a numeric user id"))
			return
		}
	}

	answers, err := s.answerSvc.ListForSubject(c.Request.Context(), evaldomain.ListAnswersRequest{
		Period:    p,
		SubjectID: subjectID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"answers": answers})
}
