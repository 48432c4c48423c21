// Package option provides composable query modifiers for gorm statements.
package option

import (
	"strconv"

	"github.com/smallbiznis/teampulse/pkg/db/pagination"
	"gorm.io/gorm"
)

type QueryOption interface {
	Apply(*gorm.DB) *gorm.DB
}

type queryOptionFunc func(*gorm.DB) *gorm.DB

func (f queryOptionFunc) Apply(db *gorm.DB) *gorm.DB { return f(db) }

func WithLimit(limit int) QueryOption {
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		return db.Limit(limit)
	})
}

func WithOrder(order string) QueryOption {
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		if order == "" {
			return db
		}
		return db.Order(order)
	})
}

// ApplyPagination turns a cursor token into a keyset predicate plus a
// limit of pageSize+1 so callers can detect a further page.
func ApplyPagination(page pagination.Pagination) QueryOption {
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		pageSize := page.PageSize
		if pageSize <= 0 {
			pageSize = 50
		}
		if page.PageToken != "" {
			cursor, err := pagination.DecodeCursor(page.PageToken)
			if err == nil && cursor != nil && cursor.ID != "" {
				// IDs are snowflakes, so keyset on id alone preserves
				// creation order across dialects.
				if id, perr := strconv.ParseInt(cursor.ID, 10, 64); perr == nil {
					db = db.Where("id < ?", id)
				}
			}
		}
		return db.Limit(pageSize + 1)
	})
}
