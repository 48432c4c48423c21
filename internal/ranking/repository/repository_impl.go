package repository

import (
	"context"

	"github.com/smallbiznis/teampulse/internal/ranking/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListByPeriod(ctx context.Context, db *gorm.DB, periodKey string) ([]*domain.ScoreSnapshot, error) {
	var snapshots []*domain.ScoreSnapshot
	err := db.WithContext(ctx).
		Where("period_key = ?", periodKey).
		Find(&snapshots).Error
	return snapshots, err
}

func (r *repo) DeleteByPeriod(ctx context.Context, db *gorm.DB, periodKey string) error {
	return db.WithContext(ctx).
		Where("period_key = ?", periodKey).
		Delete(&domain.ScoreSnapshot{}).Error
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, snapshots []*domain.ScoreSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(snapshots).Error
}
