package main

import (
	"log"

	"proteoportal/adapters/excel"
	"proteoportal/app"
	"proteoportal/internal"
	"proteoportal/internal/config"
	"proteoportal/internal/visualization"
	"proteoportal/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.LoggerOptions{
		Level:    internal.ParseLogLevel(appConfig.Log.Level),
		FilePath: appConfig.Log.File,
		JSON:     appConfig.Log.JSON,
	})
	defer logger.Sync()
	internal.DefaultLogger = logger

	gin.SetMode(appConfig.Server.GinMode)

	readerOpts := excel.DefaultReaderOptions()
	readerOpts.InferNumbers = appConfig.Data.InferNumbers
	readerOpts.Concurrency = appConfig.Data.LoadConcurrency
	readerOpts.Logger = logger

	figureOpts := visualization.DefaultOptions()
	figureOpts.ForestRowLimit = appConfig.Visualization.ForestRowLimit
	figureOpts.HeatmapTopN = appConfig.Visualization.HeatmapTopN

	service := app.NewPortalService(excel.NewTableSource(readerOpts), appConfig.Data.Dir, figureOpts, logger)

	server, err := ui.NewServer(service, logger)
	if err != nil {
		logger.Error("[Main] Failed to initialize server: %v", err)
		log.Fatalf("Failed to initialize server: %v", err)
	}

	logger.Info("[Main] Serving result tables from %s", appConfig.Data.Dir)
	if err := server.Start(":" + appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
