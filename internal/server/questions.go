package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/teampulse/internal/period"
	questiondomain "github.com/smallbiznis/teampulse/internal/question/domain"
)

type CreateQuestionRequest struct {
	Period string `json:"period"`
	Text   string `json:"text"`
}

func (s *Server) CreateQuestion(c *gin.Context) {
	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
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

	question, err := s.questionSvc.Create(c.Request.Context(), questiondomain.CreateQuestionRequest{
		Period: p,
		Text:   req.Text,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

func (s *Server) ListQuestions(c *gin.Context) {
	p, err := s.periodFromQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	questions, err := s.questionSvc.List(c.Request.Context(), questiondomain.ListQuestionsRequest{Period: p})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions": questions})
}
