package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/nerggnet/WebBackend/internal/logging"
	"github.com/nerggnet/WebBackend/modules/api"
	"github.com/nerggnet/WebBackend/modules/cookbook"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Optional .env file
	_ = godotenv.Load()

	log.Println("=== Cookbook Backend ===")

	logger := logging.New(logging.ConfigFromEnv(), nil)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := cookbook.NewMetrics(registry)

	cookbookCfg := cookbook.ConfigFromEnv()
	apiCfg := api.ConfigFromEnv()

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Order: independent modules first, then dependent modules
	cookbookModule := cookbook.NewModule(cookbookCfg, metrics, logger)
	apiModule := api.NewModule(apiCfg, registry, logger)
	apiModule.WatchHealth(cookbookModule)

	app.Register(cookbookModule)
	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cookbookCfg, apiCfg)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(cookbookCfg cookbook.Config, apiCfg api.Config) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Printf("Store driver: %s (update attempts: %d)", cookbookCfg.Store.Driver, cookbookCfg.MaxUpdateAttempts)
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%s):", apiCfg.Port)
	log.Println("  POST   /api/v1/recipes        - Recipe commands")
	log.Println("  POST   /api/v1/menus          - Menu commands")
	log.Println("  POST   /api/v1/shoppinglists  - Shopping list commands")
	log.Println("  GET    /health                - Health check")
	log.Println("  GET    /metrics               - Prometheus metrics")
	log.Println("")
	log.Println(`Example: {"action":"insert","recipe":{"name":"Pasta","portions":4}}`)
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
