package main

import (
	"github.com/altvik/plume/cache"
	"github.com/altvik/plume/config"
	"github.com/altvik/plume/models"
	"github.com/altvik/plume/routes"
	"github.com/altvik/plume/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	)

	pages := cache.NewRedis(cfg, utils.Sugar)

	r := routes.SetupRouter(db, pages)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
