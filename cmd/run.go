package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"tambola/api"
	"tambola/config"
	"tambola/database"
	"tambola/events"
	"tambola/infrastructure"
	"tambola/observability"
	"tambola/repository"
	"tambola/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const (
	shutdownTimeout     = 10 * time.Second
	rateLimiterSweep    = 5 * time.Minute
	autoEvaluateTimeout = 30 * time.Second
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	configureLogging(cfg)

	log.WithField("environment", cfg.Environment).Info("Starting tambola service...")

	// Initialize database connection
	databaseURL := database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName)
	db, err := database.NewConnection(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	services := api.Services{
		Games:   service.NewGameService(uowFactory),
		Tickets: service.NewTicketFactory(uowFactory, cfg),
		Draws:   service.NewDrawEngine(uowFactory),
		Winners: service.NewWinnerService(uowFactory),
		Prizes:  service.NewPrizeDistributor(uowFactory),
		Clubs:   service.NewClubService(uowFactory, cfg),
	}
	log.Info("Services initialized")

	if cfg.AutoEvaluate {
		subscribeAutoEvaluate(ctx, eventBus, services.Winners)
		log.Info("Automatic winner evaluation enabled")
	}

	metrics := observability.NewMetrics()
	metrics.Attach(eventBus)

	hub := infrastructure.NewLiveHub()
	hub.Attach(eventBus)
	defer hub.Close()
	metrics.RegisterGauge("live", "clients", "Connected live feed clients.", func() float64 {
		return float64(hub.ClientCount())
	})

	if cfg.NATSServers != "" {
		natsClient, err := connectNATS(ctx, cfg.NATSServers)
		if err != nil {
			return err
		}
		defer func() {
			if err := natsClient.Close(); err != nil {
				log.WithError(err).Error("Error closing NATS connection")
			}
		}()
		infrastructure.NewNATSEventPublisher(natsClient, infrastructure.NewEventSubjectMapper()).Attach(eventBus)
		log.Info("Publishing game events to NATS")
	}

	var limiter *api.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = api.NewRateLimiter(cfg.RateLimitRPS, cfg.RateBurst)
		go sweepRateLimiter(ctx, limiter)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.NewHandler(services, db), api.RouterOptions{
		Metrics:     metrics,
		Live:        hub,
		RateLimiter: limiter,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	}

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server did not shut down cleanly")
	}

	log.Info("Shutdown completed")
	return nil
}

func configureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("logLevel", cfg.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

func connectNATS(ctx context.Context, servers string) (*infrastructure.NATSClient, error) {
	client := infrastructure.NewNATSClient(servers)
	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	if err := client.EnsureGameEventStream(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ensure game event stream: %w", err)
	}
	return client, nil
}

// subscribeAutoEvaluate runs an evaluation pass after every committed draw.
// Passes run off the bus goroutine so broadcasts are never delayed.
func subscribeAutoEvaluate(ctx context.Context, bus *events.Bus, winners service.WinnerService) {
	bus.Subscribe(events.EventTypeNumberDrawn, func(_ context.Context, e events.Event) {
		gameID := e.Game()
		go func() {
			evalCtx, cancel := context.WithTimeout(ctx, autoEvaluateTimeout)
			defer cancel()

			if _, err := winners.EvaluateWinners(evalCtx, gameID); err != nil {
				log.WithFields(log.Fields{
					"gameId": gameID,
					"error":  err,
				}).Error("Automatic winner evaluation failed")
			}
		}()
	})
}

func sweepRateLimiter(ctx context.Context, limiter *api.RateLimiter) {
	ticker := time.NewTicker(rateLimiterSweep)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := limiter.Cleanup(); removed > 0 {
				log.WithField("removed", removed).Debug("Pruned idle rate limiter entries")
			}
		}
	}
}
