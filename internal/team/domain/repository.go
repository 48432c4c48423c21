package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository persists teams and memberships. Every method takes the *gorm.DB
// handle so services can run several calls inside one transaction.
type Repository interface {
	InsertTeams(ctx context.Context, db *gorm.DB, teams []*Team) error
	InsertMemberships(ctx context.Context, db *gorm.DB, memberships []*TeamMembership) error
	CountByPeriod(ctx context.Context, db *gorm.DB, periodKey string) (int64, error)
	ListByPeriod(ctx context.Context, db *gorm.DB, periodKey string) ([]*Team, error)
	FindTeam(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Team, error)
	ListMembers(ctx context.Context, db *gorm.DB, teamID snowflake.ID) ([]*TeamMembership, error)
	ListMemberDetails(ctx context.Context, db *gorm.DB, teamID snowflake.ID) ([]*TeamMember, error)
	ListMembershipsByPeriod(ctx context.Context, db *gorm.DB, periodKey string) ([]*TeamMembership, error)
	FindMembership(ctx context.Context, db *gorm.DB, periodKey string, userID snowflake.ID) (*TeamMembership, error)
	DeleteByPeriod(ctx context.Context, db *gorm.DB, periodKey string) error
	UpdateMembershipTeam(ctx context.Context, db *gorm.DB, membershipID, teamID snowflake.ID) error
	UpdateTeamSize(ctx context.Context, db *gorm.DB, teamID snowflake.ID, delta int) error
}
