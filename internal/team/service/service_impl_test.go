package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/teampulse/internal/config"
	"github.com/smallbiznis/teampulse/internal/period"
	"github.com/smallbiznis/teampulse/internal/team/domain"
	teamrepo "github.com/smallbiznis/teampulse/internal/team/repository"
	userdomain "github.com/smallbiznis/teampulse/internal/user/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type populationStub struct {
	users []userdomain.User
}

func (s *populationStub) Create(context.Context, userdomain.CreateUserRequest) (userdomain.User, error) {
	return userdomain.User{}, nil
}

func (s *populationStub) List(context.Context, userdomain.ListUsersRequest) (userdomain.ListUsersResponse, error) {
	return userdomain.ListUsersResponse{}, nil
}

func (s *populationStub) GetByID(context.Context, userdomain.GetUserRequest) (userdomain.User, error) {
	return userdomain.User{}, nil
}

func (s *populationStub) ActivePopulation(context.Context) ([]userdomain.User, error) {
	return s.users, nil
}

func setupTeamService(t *testing.T, populationSize int) (domain.Service, *gorm.DB, []userdomain.User) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&userdomain.User{},
		&domain.Team{},
		&domain.TeamMembership{},
	)
	assert.NoError(t, err)

	node, _ := snowflake.NewNode(1)
	users := make([]userdomain.User, 0, populationSize)
	for i := 0; i < populationSize; i++ {
		user := userdomain.User{
			ID:          node.Generate(),
			Email:       fmt.Sprintf("user%d@example.com", i),
			DisplayName: fmt.Sprintf("User %d", i),
			Role:        userdomain.RoleMember,
			Active:      true,
		}
		assert.NoError(t, db.Create(&user).Error)
		users = append(users, user)
	}

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Cfg:   config.Config{DefaultTeamSize: 4},
		Repo:  teamrepo.Provide(),
		Users: &populationStub{users: users},
	})
	return svc, db, users
}

func testPeriod() period.Period {
	return period.Period{Month: 8, Year: 2026}
}

func TestFormTeams_CreatesTeamsAndMemberships(t *testing.T) {
	svc, db, users := setupTeamService(t, 8)

	result, err := svc.FormTeams(context.Background(), domain.FormTeamsRequest{Period: testPeriod()})
	assert.NoError(t, err)
	assert.Equal(t, 2, result.TeamCount)
	assert.Len(t, result.Teams, 2)

	var memberships []domain.TeamMembership
	assert.NoError(t, db.Find(&memberships).Error)
	assert.Len(t, memberships, len(users))

	seen := make(map[snowflake.ID]struct{})
	for _, m := range memberships {
		_, dup := seen[m.UserID]
		assert.False(t, dup, "user %d appears twice", m.UserID)
		seen[m.UserID] = struct{}{}
	}
}

func TestFormTeams_SecondCallSkips(t *testing.T) {
	svc, db, _ := setupTeamService(t, 8)

	_, err := svc.FormTeams(context.Background(), domain.FormTeamsRequest{Period: testPeriod()})
	assert.NoError(t, err)

	result, err := svc.FormTeams(context.Background(), domain.FormTeamsRequest{Period: testPeriod()})
	assert.ErrorIs(t, err, domain.ErrAlreadyFormed)
	assert.True(t, result.Skipped)

	var count int64
	assert.NoError(t, db.Model(&domain.Team{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestFormTeams_ForceRegenerates(t *testing.T) {
	svc, db, users := setupTeamService(t, 8)
	ctx := context.Background()

	first, err := svc.FormTeams(ctx, domain.FormTeamsRequest{Period: testPeriod()})
	assert.NoError(t, err)

	second, err := svc.FormTeams(ctx, domain.FormTeamsRequest{Period: testPeriod(), Force: true})
	assert.NoError(t, err)
	assert.NotEqual(t, first.Teams[0].ID, second.Teams[0].ID)

	var teams []domain.Team
	assert.NoError(t, db.Find(&teams).Error)
	assert.Len(t, teams, 2)

	var memberships []domain.TeamMembership
	assert.NoError(t, db.Find(&memberships).Error)
	assert.Len(t, memberships, len(users))
}

func TestFormTeams_InsufficientPopulation(t *testing.T) {
	svc, _, _ := setupTeamService(t, 2)

	_, err := svc.FormTeams(context.Background(), domain.FormTeamsRequest{Period: testPeriod()})
	assert.ErrorIs(t, err, domain.ErrInsufficientPopulation)
}

func TestFormTeams_ConcurrentGeneration(t *testing.T) {
	svc, db, users := setupTeamService(t, 8)

	// A racing generation already claimed one user for this period even
	// though the team count check still sees zero rows.
	node, _ := snowflake.NewNode(2)
	assert.NoError(t, db.Create(&domain.TeamMembership{
		ID:        node.Generate(),
		TeamID:    node.Generate(),
		UserID:    users[0].ID,
		PeriodKey: testPeriod().Key(),
	}).Error)

	_, err := svc.FormTeams(context.Background(), domain.FormTeamsRequest{Period: testPeriod()})
	assert.ErrorIs(t, err, domain.ErrConcurrentGeneration)
}

func TestFormTeams_DeterministicForSeed(t *testing.T) {
	svc, _, _ := setupTeamService(t, 8)
	ctx := context.Background()

	first, err := svc.FormTeams(ctx, domain.FormTeamsRequest{Period: testPeriod(), Seed: 99})
	assert.NoError(t, err)

	second, err := svc.FormTeams(ctx, domain.FormTeamsRequest{Period: testPeriod(), Seed: 99, Force: true})
	assert.NoError(t, err)

	assert.Equal(t, teamNames(first.Teams), teamNames(second.Teams))
}

func teamNames(teams []domain.Team) []string {
	names := make([]string, 0, len(teams))
	for _, team := range teams {
		names = append(names, team.Name)
	}
	return names
}

func TestListMembers_UnknownTeam(t *testing.T) {
	svc, _, _ := setupTeamService(t, 8)

	_, err := svc.ListMembers(context.Background(), domain.ListMembersRequest{TeamID: 12345})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMoveMember_MovesBetweenTeamsOfPeriod(t *testing.T) {
	svc, db, _ := setupTeamService(t, 8)
	ctx := context.Background()

	result, err := svc.FormTeams(ctx, domain.FormTeamsRequest{Period: testPeriod()})
	assert.NoError(t, err)
	assert.Len(t, result.Teams, 2)

	from, to := result.Teams[0], result.Teams[1]
	var membership domain.TeamMembership
	assert.NoError(t, db.Where("team_id = ?", from.ID).First(&membership).Error)

	err = svc.MoveMember(ctx, domain.MoveMemberRequest{
		Period:     testPeriod(),
		UserID:     membership.UserID,
		FromTeamID: from.ID,
		ToTeamID:   to.ID,
	})
	assert.NoError(t, err)

	var moved domain.TeamMembership
	assert.NoError(t, db.Where("id = ?", membership.ID).First(&moved).Error)
	assert.Equal(t, to.ID, moved.TeamID)

	var fromTeam, toTeam domain.Team
	assert.NoError(t, db.Where("id = ?", from.ID).First(&fromTeam).Error)
	assert.NoError(t, db.Where("id = ?", to.ID).First(&toTeam).Error)
	assert.Equal(t, 3, fromTeam.Size)
	assert.Equal(t, 5, toTeam.Size)
}

func TestMoveMember_RejectsUnknownMember(t *testing.T) {
	svc, _, _ := setupTeamService(t, 8)
	ctx := context.Background()

	result, err := svc.FormTeams(ctx, domain.FormTeamsRequest{Period: testPeriod()})
	assert.NoError(t, err)

	err = svc.MoveMember(ctx, domain.MoveMemberRequest{
		Period:     testPeriod(),
		UserID:     snowflake.ID(424242),
		FromTeamID: result.Teams[0].ID,
		ToTeamID:   result.Teams[1].ID,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
