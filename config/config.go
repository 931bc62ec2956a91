package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// HTTP configuration
	HTTPAddr     string
	RateLimitRPS float64 // per client IP, 0 disables limiting
	RateBurst    int

	// Message bus, empty disables publishing
	NATSServers string

	// Ticket configuration
	RecentTicketWindow int // recent tickets compared for duplicates
	TicketMaxAttempts  int
	MaxBuildTickets    int
	MaxClubTickets     int

	// Run a winner evaluation after every draw
	AutoEvaluate bool

	// Logging
	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables, reading .env first when present
func load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Failed to read .env file")
	}

	config := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),
		HTTPAddr:     envOrDefault("HTTP_ADDR", ":8080"),
		NATSServers:  os.Getenv("NATS_SERVERS"),
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		Environment:  envOrDefault("ENVIRONMENT", "development"),

		RateLimitRPS: 20,
		RateBurst:    40,

		RecentTicketWindow: 250,
		TicketMaxAttempts:  10,
		MaxBuildTickets:    50,
		MaxClubTickets:     200,

		AutoEvaluate: os.Getenv("AUTO_EVALUATE") == "true",
	}

	var err error
	if config.RateLimitRPS, err = floatEnv("RATE_LIMIT_RPS", config.RateLimitRPS); err != nil {
		return nil, err
	}
	if config.RateBurst, err = intEnv("RATE_LIMIT_BURST", config.RateBurst); err != nil {
		return nil, err
	}
	if config.RecentTicketWindow, err = intEnv("RECENT_TICKET_WINDOW", config.RecentTicketWindow); err != nil {
		return nil, err
	}
	if config.TicketMaxAttempts, err = intEnv("TICKET_MAX_ATTEMPTS", config.TicketMaxAttempts); err != nil {
		return nil, err
	}
	if config.MaxBuildTickets, err = intEnv("MAX_BUILD_TICKETS", config.MaxBuildTickets); err != nil {
		return nil, err
	}
	if config.MaxClubTickets, err = intEnv("MAX_CLUB_TICKETS", config.MaxClubTickets); err != nil {
		return nil, err
	}

	if config.TicketMaxAttempts < 1 {
		return nil, fmt.Errorf("TICKET_MAX_ATTEMPTS must be at least 1")
	}
	if config.RecentTicketWindow < 0 {
		return nil, fmt.Errorf("RECENT_TICKET_WINDOW must not be negative")
	}

	if config.Environment != "test" && config.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return config, nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
