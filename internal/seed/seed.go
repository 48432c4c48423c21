// Package seed bootstraps the minimum data a fresh install needs.
package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/teampulse/internal/auth/password"
	userdomain "github.com/smallbiznis/teampulse/internal/user/domain"
	"gorm.io/gorm"
)

const (
	defaultAdminEmail    = "admin@teampulse.local"
	defaultAdminPassword = "admin"
	defaultAdminDisplay  = "TeamPulse Admin"
)

// EnsureDefaultAdmin creates the default admin account when no admin exists
// yet, so a fresh install is immediately operable.
func EnsureDefaultAdmin(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&userdomain.User{}).
			Where("role = ?", userdomain.RoleAdmin).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		hash, err := password.Hash(defaultAdminPassword)
		if err != nil {
			return err
		}
		admin := userdomain.User{
			ID:           node.Generate(),
			Email:        defaultAdminEmail,
			DisplayName:  defaultAdminDisplay,
			Role:         userdomain.RoleAdmin,
			PasswordHash: &hash,
			Active:       true,
		}
		return tx.Create(&admin).Error
	})
}
