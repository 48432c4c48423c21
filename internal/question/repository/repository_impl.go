package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/teampulse/internal/question/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, question *domain.Question) error {
	return db.WithContext(ctx).Create(question).Error
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Question, error) {
	var question domain.Question
	if err := db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&question).Error; err != nil {
		return nil, err
	}
	if question.ID == 0 {
		return nil, nil
	}
	return &question, nil
}

func (r *repo) ListByPeriod(ctx context.Context, db *gorm.DB, periodKey string) ([]*domain.Question, error) {
	var questions []*domain.Question
	err := db.WithContext(ctx).
		Where("period_key = ?", periodKey).
		Order("created_at asc, id asc").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}
