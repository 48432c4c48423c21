// Package domain contains core types for ranking and its snapshot cache.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ScoreSnapshot is one cached team total for a period. The cache stores raw
// totals only; averages and submission timing are re-derived from live data
// on every read.
type ScoreSnapshot struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	PeriodKey     string       `gorm:"type:text;not null;index;uniqueIndex:idx_score_snapshots_period_team,priority:1" json:"period_key"`
	TeamID        snowflake.ID `gorm:"column:team_id;not null;uniqueIndex:idx_score_snapshots_period_team,priority:2" json:"team_id"`
	TeamName      string       `gorm:"type:text;not null" json:"team_name"`
	TotalScore    float64      `gorm:"not null" json:"total_score"`
	AnswerCount   int          `gorm:"not null" json:"answer_count"`
	QuestionCount int          `gorm:"not null" json:"question_count"`
	Weighted      bool         `gorm:"not null" json:"weighted"`
	ComputedAt    time.Time    `gorm:"not null" json:"computed_at"`
}

// TableName sets the database table name.
func (ScoreSnapshot) TableName() string { return "score_snapshots" }
