package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	rankingdomain "github.com/smallbiznis/teampulse/internal/ranking/domain"
)

func (s *Server) GetRanking(c *gin.Context) {
	p, err := s.periodFromQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.rankingSvc.GetRanking(c.Request.Context(), rankingdomain.GetRankingRequest{Period: p})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) RecomputeRanking(c *gin.Context) {
	p, err := s.periodFromQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.rankingSvc.Recompute(c.Request.Context(), rankingdomain.GetRankingRequest{Period: p})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
