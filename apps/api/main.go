package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/craftedcv/craftedcv/internal/config"
	"github.com/craftedcv/craftedcv/internal/migration"
	"github.com/craftedcv/craftedcv/internal/observability"
	"github.com/craftedcv/craftedcv/internal/server"
	"github.com/craftedcv/craftedcv/pkg/db"
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
