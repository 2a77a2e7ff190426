package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	App          *AppConfig
	Gateway      *GatewayConfig
	Security     *SecurityConfig
	Redis        *RedisConfig
	Location     *LocationConfig
	Subscription *SubscriptionConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Port        int
	Host        string
	Debug       bool
	LogLevel    string
}

// GatewayConfig points at the remote ride-matching backend. Every operation
// multiplexes over this single endpoint.
type GatewayConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SecurityConfig struct {
	JWTSecret  string
	SessionTTL time.Duration

	// Emergency admin access. Both values must be set for the login fallback
	// to be active at all; left empty it is fully disabled.
	EmergencyAdminEmail    string
	EmergencyAdminPassword string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

type LocationConfig struct {
	DefaultLatitude    float64
	DefaultLongitude   float64
	GeolocationTimeout time.Duration
	FeedPollInterval   time.Duration
}

type SubscriptionConfig struct {
	Cost int
	Days int
}

func Load() (*Config, error) {
	config := &Config{
		App:          loadAppConfig(),
		Gateway:      loadGatewayConfig(),
		Security:     loadSecurityConfig(),
		Redis:        loadRedisConfig(),
		Location:     loadLocationConfig(),
		Subscription: loadSubscriptionConfig(),
	}

	return config, nil
}

func loadAppConfig() *AppConfig {
	return &AppConfig{
		Name:        getEnv("APP_NAME", "SimbengRide"),
		Version:     getEnv("APP_VERSION", "1.0.0"),
		Environment: getEnv("APP_ENV", "development"),
		Port:        getEnvAsInt("APP_PORT", 8080),
		Host:        getEnv("APP_HOST", "localhost"),
		Debug:       getEnvAsBool("APP_DEBUG", true),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
}

func loadGatewayConfig() *GatewayConfig {
	return &GatewayConfig{
		BaseURL: getEnv("RIDE_API_BASE_URL", ""),
		Timeout: getEnvAsDuration("RIDE_API_TIMEOUT", 30*time.Second),
	}
}

func loadSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		JWTSecret:              getEnv("JWT_SECRET", "change-me-in-production"),
		SessionTTL:             getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		EmergencyAdminEmail:    getEnv("EMERGENCY_ADMIN_EMAIL", ""),
		EmergencyAdminPassword: getEnv("EMERGENCY_ADMIN_PASSWORD", ""),
	}
}

func loadRedisConfig() *RedisConfig {
	return &RedisConfig{
		Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnvAsInt("REDIS_PORT", 6379),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvAsInt("REDIS_DB", 0),
		PoolSize: getEnvAsInt("REDIS_POOL_SIZE", 10),
	}
}

func loadLocationConfig() *LocationConfig {
	return &LocationConfig{
		DefaultLatitude:    getEnvAsFloat64("DEFAULT_LATITUDE", 12.9716),
		DefaultLongitude:   getEnvAsFloat64("DEFAULT_LONGITUDE", 77.5946),
		GeolocationTimeout: getEnvAsDuration("GEOLOCATION_TIMEOUT", 10*time.Second),
		FeedPollInterval:   getEnvAsDuration("FEED_POLL_INTERVAL", 10*time.Second),
	}
}

func loadSubscriptionConfig() *SubscriptionConfig {
	return &SubscriptionConfig{
		Cost: getEnvAsInt("SUBSCRIPTION_COST", 100),
		Days: getEnvAsInt("SUBSCRIPTION_DAYS", 100),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func IsProduction() bool {
	return getEnv("APP_ENV", "development") == "production"
}

func IsDevelopment() bool {
	return getEnv("APP_ENV", "development") == "development"
}
