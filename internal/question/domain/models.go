// Package domain contains core types for evaluation questions.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Question is a rating prompt scoped to one period. Questions are immutable
// once any answer references them; no update operation exists.
type Question struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	PeriodKey string       `gorm:"type:text;not null;index" json:"period"`
	Text      string       `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Question) TableName() string { return "questions" }
