package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/medipos/internal/config"
	"github.com/smallbiznis/medipos/internal/logger"
	"github.com/smallbiznis/medipos/internal/migration"
	"github.com/smallbiznis/medipos/internal/observability"
	"github.com/smallbiznis/medipos/internal/server"
	"github.com/smallbiznis/medipos/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		// HTTP surface plus every functional domain it wires in
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
