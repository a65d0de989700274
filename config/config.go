package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"adsbot/database"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Telegram configuration
	BotToken    string
	BotUsername string // Used to build invite deep links

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Auth configuration
	JWTSecret string

	// Admin configuration
	AdminExternalIDs []string // External IDs allowed to call admin endpoints

	// HTTP server configuration
	Port int

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// IsAdmin reports whether an external identifier is configured as an admin
func (c *Config) IsAdmin(externalID string) bool {
	for _, id := range c.AdminExternalIDs {
		if id == externalID {
			return true
		}
	}
	return false
}

// load loads configuration from environment variables
func load() (*Config, error) {
	// A missing .env file is fine; real deployments set the environment directly
	_ = godotenv.Load()

	config := &Config{
		// Telegram
		BotToken:    os.Getenv("BOT_TOKEN"),
		BotUsername: os.Getenv("BOT_USERNAME"),

		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// Auth
		JWTSecret: os.Getenv("JWT_SECRET"),

		// HTTP
		Port: 8080,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	if port := os.Getenv("PORT"); port != "" {
		if parsedPort, err := strconv.Atoi(port); err == nil {
			config.Port = parsedPort
		}
	}

	// Parse admin external IDs
	if adminIDs := os.Getenv("ADMIN_IDS"); adminIDs != "" {
		idStrings := strings.Split(adminIDs, ",")
		for _, idStr := range idStrings {
			idStr = strings.TrimSpace(idStr)
			if idStr != "" {
				config.AdminExternalIDs = append(config.AdminExternalIDs, idStr)
			}
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.BotToken == "" {
			return nil, fmt.Errorf("BOT_TOKEN is required")
		}
		if config.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		// If DatabaseName is provided, ensure it's not empty
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	return config, nil
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:      "test",
		BotToken:         "test-token",
		BotUsername:      "test_bot",
		JWTSecret:        "test-secret",
		AdminExternalIDs: []string{"999999"},
		Port:             8080,
	}
}
