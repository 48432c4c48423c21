package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, question *Question) error
	Find(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Question, error)
	ListByPeriod(ctx context.Context, db *gorm.DB, periodKey string) ([]*Question, error)
}
