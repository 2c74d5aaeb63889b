package main

import (
	"go.uber.org/zap"

	"mindscreen/internal/analysis"
	"mindscreen/internal/catalog"
	"mindscreen/internal/config"
	"mindscreen/internal/database"
	"mindscreen/internal/history"
	"mindscreen/internal/logging"
	"mindscreen/internal/recorder"
	"mindscreen/internal/router"
	"mindscreen/internal/services"
)

func main() {
	// Configuration comes first, so a bootstrap logger covers config loading
	// and hot-reload events until the real one exists.
	bootLog, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize bootstrap logger: " + err.Error())
	}
	if err := config.Init(".", bootLog); err != nil {
		bootLog.Fatal("Failed to load configuration", zap.Error(err))
	}

	log, err := logging.Init(config.Conf.Logging)
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer log.Sync()

	// Postgres is optional; without it the service runs local-only.
	database.Init(log)

	// Word pools for the recall tasks; the built-in pools cover ten
	// languages and a config file can override them.
	var pools map[string][]string
	if path := config.Conf.Catalog.WordPoolFile; path != "" {
		pools, err = catalog.LoadWordPools(path)
		if err != nil {
			log.Fatal("Failed to load word pools", zap.Error(err))
		}
	}
	generator := catalog.NewGenerator(pools)

	analysisMgr := analysis.NewManager(analysis.Config{
		TickInterval:    config.Conf.Analysis.TickInterval,
		MinimumDuration: config.Conf.Analysis.MinimumDuration,
		FinalizeHold:    config.Conf.Analysis.FinalizeHold,
	})

	historyChain := buildHistoryChain(log)

	var processor services.Processor
	if url := config.Conf.Speech.ProcessorURL; url != "" {
		processor = services.NewHTTPProcessor(log, url, config.Conf.Speech.Timeout)
	} else {
		processor = services.NewLocalProcessor(log)
	}
	speechService := services.NewSpeechService(log, processor, config.Conf.Storage.AudioDir)

	r := router.Setup(log, router.Deps{
		Generator: generator,
		Sessions:  recorder.NewManager(),
		Analysis:  analysisMgr,
		History:   historyChain,
		Speech:    speechService,
	})

	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}

// buildHistoryChain wires the history backends in priority order: Postgres
// when available, then the file store. A configured passphrase switches the
// file store to the encrypted one.
func buildHistoryChain(log *zap.Logger) *history.Chain {
	var stores []history.Store
	if database.DB != nil {
		stores = append(stores, history.NewPostgresStore(database.DB))
	}

	dir := config.Conf.Storage.HistoryDir
	if pass := config.Conf.Storage.HistoryPassphrase; pass != "" {
		stores = append(stores, history.NewEncryptedStore(dir, pass))
	} else {
		stores = append(stores, history.NewPlainStore(dir))
	}

	return history.NewChain(log, stores...)
}
