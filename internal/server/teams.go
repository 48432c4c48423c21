package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/teampulse/internal/period"
	teamdomain "github.com/smallbiznis/teampulse/internal/team/domain"
)

type GenerateTeamsRequest struct {
	Period       string `json:"period"`
	TeamSize     int    `json:"team_size"`
	Force        bool   `json:"force"`
	Seed         int64  `json:"seed"`
	AvoidRepeats bool   `json:"avoid_repeats"`
}

func (s *Server) GenerateTeams(c *gin.Context) {
	var req GenerateTeamsRequest
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

	result, err := s.teamSvc.FormTeams(c.Request.Context(), teamdomain.FormTeamsRequest{
		Period:       p,
		TeamSize:     req.TeamSize,
		Force:        req.Force,
		Seed:         req.Seed,
		AvoidRepeats: req.AvoidRepeats,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (s *Server) ListTeams(c *gin.Context) {
	p, err := s.periodFromQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	teams, err := s.teamSvc.List(c.Request.Context(), teamdomain.ListTeamsRequest{Period: p})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

func (s *Server) TeamMembers(c *gin.Context) {
	teamID, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_team_id", "must be a numeric team id"))
		return
	}

	members, err := s.teamSvc.ListMembers(c.Request.Context(), teamdomain.ListMembersRequest{TeamID: teamID})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

type MoveMemberRequest struct {
	Period   string       `json:"period"`
	UserID   snowflake.ID `json:"user_id,string"`
	ToTeamID snowflake.ID `json:"to_team_id,string"`
}

func (s *Server) MoveMember(c *gin.Context) {
	fromTeamID, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_team_id", "must be a numeric team id"))
		return
	}

	var req MoveMemberRequest
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

	err = s.teamSvc.MoveMember(c.Request.Context(), teamdomain.MoveMemberRequest{
		Period:     p,
		UserID:     req.UserID,
		FromTeamID: fromTeamID,
		ToTeamID:   req.ToTeamID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
