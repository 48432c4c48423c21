package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	ListByPeriod(ctx context.Context, db *gorm.DB, periodKey string) ([]*ScoreSnapshot, error)
	DeleteByPeriod(ctx context.Context, db *gorm.DB, periodKey string) error
	Insert(ctx context.Context, db *gorm.DB, snapshots []*ScoreSnapshot) error
}
