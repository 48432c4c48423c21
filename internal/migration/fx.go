package migration

import (
	"strings"

	authdomain "github.com/smallbiznis/teampulse/internal/auth/domain"
	"github.com/smallbiznis/teampulse/internal/config"
	evaldomain "github.com/smallbiznis/teampulse/internal/evaluation/domain"
	questiondomain "github.com/smallbiznis/teampulse/internal/question/domain"
	rankingdomain "github.com/smallbiznis/teampulse/internal/ranking/domain"
	"github.com/smallbiznis/teampulse/internal/seed"
	teamdomain "github.com/smallbiznis/teampulse/internal/team/domain"
	userdomain "github.com/smallbiznis/teampulse/internal/user/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if strings.EqualFold(cfg.DBType, "postgres") {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// mysql and sqlite deployments lean on gorm's schema sync.
			if err := conn.AutoMigrate(
				&userdomain.User{},
				&authdomain.Session{},
				&questiondomain.Question{},
				&teamdomain.Team{},
				&teamdomain.TeamMembership{},
				&evaldomain.Answer{},
				&rankingdomain.ScoreSnapshot{},
			); err != nil {
				return err
			}
		}

		return seed.EnsureDefaultAdmin(conn)
	}),
)
