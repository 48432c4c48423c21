package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/teampulse/internal/period"
)

type FormTeamsRequest struct {
	Period   period.Period
	TeamSize int
	Force    bool
	// Seed overrides the default period-derived shuffle seed. Zero means
	// derive from the period key, which makes regeneration reproducible.
	Seed int64
	// AvoidRepeats turns on the best-effort swap pass that tries not to
	// re-team users who shared a team in the previous period.
	AvoidRepeats bool
}

type FormTeamsResult struct {
	Teams     []Team `json:"teams"`
	TeamCount int    `json:"team_count"`
	// Skipped is set when teams already existed and force was not given.
	Skipped bool `json:"skipped"`
}

type ListTeamsRequest struct {
	Period period.Period
}

type ListMembersRequest struct {
	TeamID snowflake.ID
}

type TeamMember struct {
	MembershipID snowflake.ID `json:"membership_id"`
	UserID       snowflake.ID `json:"user_id"`
	DisplayName  string       `json:"display_name"`
	Email        string       `json:"email"`
}

type MoveMemberRequest struct {
	Period     period.Period
	UserID     snowflake.ID
	FromTeamID snowflake.ID
	ToTeamID   snowflake.ID
}

type Service interface {
	FormTeams(context.Context, FormTeamsRequest) (FormTeamsResult, error)
	List(context.Context, ListTeamsRequest) ([]Team, error)
	ListMembers(context.Context, ListMembersRequest) ([]TeamMember, error)
	// MoveMember is the admin escape hatch: relocate one user between two
	// teams of the same period.
	MoveMember(context.Context, MoveMemberRequest) error
}

var (
	ErrAlreadyFormed          = errors.New("already_formed")
	ErrInsufficientPopulation = errors.New("insufficient_population")
	ErrConcurrentGeneration   = errors.New("concurrent_generation")
	ErrDuplicateMember        = errors.New("duplicate_member")
	ErrInvalidTeamSize        = errors.New("invalid_team_size")
	ErrNotFound               = errors.New("not_found")
	ErrCrossPeriodMove        = errors.New("cross_period_move")
)
