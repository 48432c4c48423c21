package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, answer *Answer) error
	ListByTeam(ctx context.Context, db *gorm.DB, periodKey string, teamID snowflake.ID) ([]*Answer, error)
	ListBySubject(ctx context.Context, db *gorm.DB, periodKey string, subjectID snowflake.ID) ([]*Answer, error)
	ListByRaters(ctx context.Context, db *gorm.DB, periodKey string, raterIDs []snowflake.ID) ([]*Answer, error)
	// SampleOne returns any single answer row, or nil when none exist. The
	// scorer inspects it to decide between weighted and unweighted mode.
	SampleOne(ctx context.Context, db *gorm.DB) (*Answer, error)
	// TeamStats returns the live answer count and first submission time
	// for a team, used to refresh tie-break inputs on cached rankings.
	TeamStats(ctx context.Context, db *gorm.DB, periodKey string, teamID snowflake.ID) (int64, *time.Time, error)
}
