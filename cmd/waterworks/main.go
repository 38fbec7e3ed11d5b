package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/introaqua/waterworks/internal/config"
	"github.com/introaqua/waterworks/internal/migration"
	"github.com/introaqua/waterworks/internal/observability"
	"github.com/introaqua/waterworks/internal/server"
	"github.com/introaqua/waterworks/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
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
