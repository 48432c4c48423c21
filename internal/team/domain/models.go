// Package domain contains core types for period-scoped teams.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Team is one generated group for a single period.
type Team struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	PeriodKey string       `gorm:"type:text;not null;index;uniqueIndex:idx_teams_period_name,priority:1" json:"period_key"`
	Name      string       `gorm:"type:text;not null;uniqueIndex:idx_teams_period_name,priority:2" json:"name"`
	Size      int          `gorm:"not null" json:"size"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Team) TableName() string { return "teams" }

// TeamMembership links one user to one team. The (period_key, user_id)
// uniqueness puts each user on at most one team per period and is what a
// concurrently-run generation trips over.
type TeamMembership struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TeamID    snowflake.ID `gorm:"column:team_id;not null;index;uniqueIndex:idx_team_members_team_user,priority:1" json:"team_id"`
	UserID    snowflake.ID `gorm:"column:user_id;not null;uniqueIndex:idx_team_members_team_user,priority:2;uniqueIndex:idx_team_members_period_user,priority:2" json:"user_id"`
	PeriodKey string       `gorm:"type:text;not null;index;uniqueIndex:idx_team_members_period_user,priority:1" json:"period_key"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (TeamMembership) TableName() string { return "team_members" }
