package main

import (
	"coderr/config"
	"coderr/database"
	"coderr/routers"
	"coderr/utils"

	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	defer utils.GetLogger().Sync()

	database.ConnectDb()

	app := routers.NewApp(config.AppConfig)

	log := utils.GetLogger()
	log.Info("Server is running", zap.String("port", config.AppConfig.Port), zap.String("env", config.AppConfig.Env))
	if err := app.Listen(":" + config.AppConfig.Port); err != nil {
		log.Fatal("Server stopped", zap.Error(err))
	}
}
