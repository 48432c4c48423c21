package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/teampulse/internal/period"
)

// periodFromQuery resolves the ?period= query parameter, defaulting to the
// current period when absent.
func (s *Server) periodFromQuery(c *gin.Context) (period.Period, error) {
	raw := strings.TrimSpace(c.Query("period"))
	if raw == "" {
		return period.FromTime(s.clock.Now(), s.resolution), nil
	}
	return period.ParseKey(raw)
}

func parseSnowflakeParam(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}
