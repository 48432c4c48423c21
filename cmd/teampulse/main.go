package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/teampulse/internal/clock"
	"github.com/smallbiznis/teampulse/internal/config"
	"github.com/smallbiznis/teampulse/internal/migration"
	"github.com/smallbiznis/teampulse/internal/observability"
	"github.com/smallbiznis/teampulse/internal/scheduler"
	"github.com/smallbiznis/teampulse/internal/server"
	"github.com/smallbiznis/teampulse/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		server.Module,
		scheduler.Module,
	)
	app.Run()
}

func registerSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
