package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/eventlane/eventlane/internal/migration"
	"github.com/eventlane/eventlane/internal/observability"
	"github.com/eventlane/eventlane/internal/scheduler"
	"github.com/eventlane/eventlane/internal/server"
	"github.com/eventlane/eventlane/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
		scheduler.Module,
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
