// Package domain contains core types for evaluation answers and scoring.
package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Source tags who an answer came from relative to its subject. Legacy rows
// may carry an empty source, which switches scoring to unweighted mode.
type Source string

const (
	SourceSelf    Source = "self"
	SourcePeer    Source = "peer"
	SourceManager Source = "manager"
)

// ParseSource normalizes and validates a raw source value.
func ParseSource(raw string) (Source, bool) {
	switch Source(strings.ToLower(strings.TrimSpace(raw))) {
	case SourceSelf:
		return SourceSelf, true
	case SourcePeer:
		return SourcePeer, true
	case SourceManager:
		return SourceManager, true
	default:
		return "", false
	}
}

// Answer is one scored response by a rater about a subject for one question.
// The four-column uniqueness makes re-submission a constraint violation
// instead of a silent duplicate.
type Answer struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	PeriodKey  string       `gorm:"type:text;not null;index" json:"period_key"`
	RaterID    snowflake.ID `gorm:"column:rater_id;not null;uniqueIndex:idx_answers_rater_question_subject_source,priority:1" json:"rater_id"`
	QuestionID snowflake.ID `gorm:"column:question_id;not null;uniqueIndex:idx_answers_rater_question_subject_source,priority:2" json:"question_id"`
	SubjectID  snowflake.ID `gorm:"column:subject_id;not null;uniqueIndex:idx_answers_rater_question_subject_source,priority:3" json:"subject_id"`
	Source     Source       `gorm:"type:text;not null;default:'';uniqueIndex:idx_answers_rater_question_subject_source,priority:4" json:"source"`
	TeamID     snowflake.ID `gorm:"column:team_id;not null;index" json:"team_id"`
	Score      int          `gorm:"not null" json:"score"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Answer) TableName() string { return "answers" }

// ValidScore reports whether a raw score sits in the accepted 1..5 range.
func ValidScore(score int) bool { return score >= 1 && score <= 5 }
