package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smartbin/internal/handlers"
	"smartbin/internal/hub"
	"smartbin/internal/logger"
	"smartbin/internal/repository"
	"smartbin/internal/server"
	"smartbin/internal/service"

	"github.com/spf13/viper"
)

func main() {
	// init logger
	log := logger.Get(logger.InfoLevel)

	// load config.yml
	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	// open DB
	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(db)
	syncHub := hub.New(repos.Bins, log)
	services := service.NewService(repos, syncHub, log, viper.GetString("auth.signing_key"))
	apiHandler := handlers.NewHandler(services, syncHub, log, viper.GetString("env"))

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// bootstrap seeding: only touches an empty store
	if err := services.SeedDefaults(ctx); err != nil {
		log.Fatalw("failed to seed default fleet", "err", err)
	}
	if err := services.SeedAdmin(ctx); err != nil {
		log.Fatalw("failed to seed admin user", "err", err)
	}

	// start the sensor simulator
	go services.Simulator.Run(ctx, simTick())

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "smartbin.db")
		dbPath = "smartbin.db"
	}
	return repository.InitDB(dbPath)
}

// simTick reads the simulator period from config, defaulting to 30s.
func simTick() time.Duration {
	if d := viper.GetDuration("simulator.tick"); d > 0 {
		return d
	}
	return service.DefaultSimTick
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "5000"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
