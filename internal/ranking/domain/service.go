package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/teampulse/internal/period"
)

// RankedTeam is one entry in the ordered ranking.
type RankedTeam struct {
	Rank               int          `json:"rank"`
	TeamID             snowflake.ID `json:"team_id"`
	TeamName           string       `json:"team_name"`
	TotalScore         float64      `json:"total_score"`
	AverageScore       float64      `json:"average_score"`
	AnswerCount        int          `json:"answer_count"`
	QuestionCount      int          `json:"question_count"`
	Weighted           bool         `json:"weighted"`
	EarliestSubmission *time.Time   `json:"earliest_submission,omitempty"`
}

// RankedResult is the full ranking for one period. Winner is nil when the
// top team never collected a positive total.
type RankedResult struct {
	PeriodKey  string       `json:"period_key"`
	Cached     bool         `json:"cached"`
	ComputedAt time.Time    `json:"computed_at"`
	Ordered    []RankedTeam `json:"ordered"`
	Winner     *RankedTeam  `json:"winner,omitempty"`
}

type GetRankingRequest struct {
	Period period.Period
}

type Service interface {
	// GetRanking serves from the snapshot cache when present, computing
	// and caching otherwise.
	GetRanking(context.Context, GetRankingRequest) (RankedResult, error)
	// Recompute discards any cached rows and rebuilds the ranking.
	Recompute(context.Context, GetRankingRequest) (RankedResult, error)
}

var ErrNotFound = errors.New("not_found")
