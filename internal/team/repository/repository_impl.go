package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/teampulse/internal/team/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertTeams(ctx context.Context, db *gorm.DB, teams []*domain.Team) error {
	if len(teams) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(teams).Error
}

func (r *repo) InsertMemberships(ctx context.Context, db *gorm.DB, memberships []*domain.TeamMembership) error {
	if len(memberships) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(memberships).Error
}

func (r *repo) CountByPeriod(ctx context.Context, db *gorm.DB, periodKey string) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Team{}).
		Where("period_key = ?", periodKey).
		Count(&count).Error
	return count, err
}

func (r *repo) ListByPeriod(ctx context.Context, db *gorm.DB, periodKey string) ([]*domain.Team, error) {
	var teams []*domain.Team
	err := db.WithContext(ctx).
		Where("period_key = ?", periodKey).
		Order("name asc").
		Find(&teams).Error
	return teams, err
}

func (r *repo) FindTeam(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Team, error) {
	var team domain.Team
	if err := db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&team).Error; err != nil {
		return nil, err
	}
	if team.ID == 0 {
		return nil, nil
	}
	return &team, nil
}

func (r *repo) ListMembers(ctx context.Context, db *gorm.DB, teamID snowflake.ID) ([]*domain.TeamMembership, error) {
	var memberships []*domain.TeamMembership
	err := db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("created_at asc, id asc").
		Find(&memberships).Error
	return memberships, err
}

func (r *repo) ListMemberDetails(ctx context.Context, db *gorm.DB, teamID snowflake.ID) ([]*domain.TeamMember, error) {
	var members []*domain.TeamMember
	err := db.WithContext(ctx).
		Table("team_members").
		Select("team_members.id as membership_id, team_members.user_id, users.display_name, users.email").
		Joins("JOIN users ON users.id = team_members.user_id").
		Where("team_members.team_id = ?", teamID).
		Order("users.display_name asc").
		Scan(&members).Error
	return members, err
}

func (r *repo) ListMembershipsByPeriod(ctx context.Context, db *gorm.DB, periodKey string) ([]*domain.TeamMembership, error) {
	var memberships []*domain.TeamMembership
	err := db.WithContext(ctx).
		Where("period_key = ?", periodKey).
		Find(&memberships).Error
	return memberships, err
}

func (r *repo) FindMembership(ctx context.Context, db *gorm.DB, periodKey string, userID snowflake.ID) (*domain.TeamMembership, error) {
	var membership domain.TeamMembership
	err := db.WithContext(ctx).
		Where("period_key = ? AND user_id = ?", periodKey, userID).
		Limit(1).
		Find(&membership).Error
	if err != nil {
		return nil, err
	}
	if membership.ID == 0 {
		return nil, nil
	}
	return &membership, nil
}

func (r *repo) DeleteByPeriod(ctx context.Context, db *gorm.DB, periodKey string) error {
	if err := db.WithContext(ctx).
		Where("period_key = ?", periodKey).
		Delete(&domain.TeamMembership{}).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).
		Where("period_key = ?", periodKey).
		Delete(&domain.Team{}).Error
}

func (r *repo) UpdateMembershipTeam(ctx context.Context, db *gorm.DB, membershipID, teamID snowflake.ID) error {
	return db.WithContext(ctx).
		Model(&domain.TeamMembership{}).
		Where("id = ?", membershipID).
		Update("team_id", teamID).Error
}

func (r *repo) UpdateTeamSize(ctx context.Context, db *gorm.DB, teamID snowflake.ID, delta int) error {
	return db.WithContext(ctx).
		Model(&domain.Team{}).
		Where("id = ?", teamID).
		Update("size", gorm.Expr("size + ?", delta)).Error
}
