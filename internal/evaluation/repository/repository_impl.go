package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/teampulse/internal/evaluation/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, answer *domain.Answer) error {
	return db.WithContext(ctx).Create(answer).Error
}

func (r *repo) ListByTeam(ctx context.Context, db *gorm.DB, periodKey string, teamID snowflake.ID) ([]*domain.Answer, error) {
	var answers []*domain.Answer
	err := db.WithContext(ctx).
		Where("period_key = ? AND team_id = ?", periodKey, teamID).
		Order("created_at asc, id asc").
		Find(&answers).Error
	return answers, err
}

func (r *repo) ListBySubject(ctx context.Context, db *gorm.DB, periodKey string, subjectID snowflake.ID) ([]*domain.Answer, error) {
	var answers []*domain.Answer
	err := db.WithContext(ctx).
		Where("period_key = ? AND subject_id = ?", periodKey, subjectID).
		Order("created_at asc, id asc").
		Find(&answers).Error
	return answers, err
}

func (r *repo) ListByRaters(ctx context.Context, db *gorm.DB, periodKey string, raterIDs []snowflake.ID) ([]*domain.Answer, error) {
	if len(raterIDs) == 0 {
		return nil, nil
	}
	var answers []*domain.Answer
	err := db.WithContext(ctx).
		Where("period_key = ? AND rater_id IN ?", periodKey, raterIDs).
		Order("created_at asc, id asc").
		Find(&answers).Error
	return answers, err
}

func (r *repo) TeamStats(ctx context.Context, db *gorm.DB, periodKey string, teamID snowflake.ID) (int64, *time.Time, error) {
	var count int64
	query := db.WithContext(ctx).
		Model(&domain.Answer{}).
		Where("period_key = ? AND team_id = ?", periodKey, teamID)
	if err := query.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	var first domain.Answer
	err := db.WithContext(ctx).
		Where("period_key = ? AND team_id = ?", periodKey, teamID).
		Order("created_at asc, id asc").
		Limit(1).
		Find(&first).Error
	if err != nil {
		return 0, nil, err
	}
	earliest := first.CreatedAt
	return count, &earliest, nil
}

func (r *repo) SampleOne(ctx context.Context, db *gorm.DB) (*domain.Answer, error) {
	var answer domain.Answer
	if err := db.WithContext(ctx).Limit(1).Find(&answer).Error; err != nil {
		return nil, err
	}
	if answer.ID == 0 {
		return nil, nil
	}
	return &answer, nil
}
