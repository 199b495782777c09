package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/nnminh-sam/watch-store-backend/internal/utils"
)

// Config holds all application configuration, including secrets and
// token lifetimes. Loaded once at startup and passed by reference into
// every constructor; nothing reads the environment after LoadConfig.
type Config struct {
	OrganizationName string
	AppName          string
	AppPort          string
	AppUrl           string
	DBUrl            string
	RedisUrl         string

	JWTSecret                 []byte
	AccessTokenExpiry         time.Duration
	RefreshTokenExpiry        time.Duration
	PasswordChangeGuardWindow time.Duration

	MaxLoginAttempts int
	AttemptWindow    time.Duration
	LockDuration     time.Duration

	SendGridAPIKey      string
	SendGridFromEmail   string
	SendGridSandboxMode bool

	TempPasswordLength int
}

// Constants for time-based configuration defaults.
const (
	OrganizationName                 = "Watch Store"
	DefaultAccessTokenExpiry         = 1 * time.Hour
	DefaultRefreshTokenExpiry        = 30 * 24 * time.Hour
	DefaultPasswordChangeGuardWindow = 10 * 24 * time.Hour
	MaxLoginAttempts                 = 10
	AttemptWindow                    = 5 * time.Minute
	LockDuration                     = 10 * time.Minute
	TempPasswordLength               = 12
)

// LoadConfig reads the environment (plus an optional local .env file)
// and returns a *Config. Missing required variables are fatal.
func LoadConfig(appName string) *Config {
	if err := godotenv.Load(); err != nil {
		utils.Logger.Debug("No .env file found; relying on process environment")
	}

	utils.Logger.Info("Loading config for app: ", appName)

	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		utils.Logger.Fatal("APP_PORT env var is missing")
	}
	appUrl := os.Getenv("APP_URL")
	if appUrl == "" {
		utils.Logger.Fatal("APP_URL env var is missing")
	}
	dbUrl := os.Getenv("DB_URL")
	if dbUrl == "" {
		utils.Logger.Fatal("DB_URL env var is missing")
	}
	redisUrl := os.Getenv("REDIS_URL")
	if redisUrl == "" {
		utils.Logger.Fatal("REDIS_URL env var is missing")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		utils.Logger.Fatal("JWT_SECRET env var is missing")
	}
	sendGridAPIKey := os.Getenv("SENDGRID_API_KEY")
	if sendGridAPIKey == "" {
		utils.Logger.Fatal("SENDGRID_API_KEY env var is missing")
	}
	sendGridFromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	if sendGridFromEmail == "" {
		utils.Logger.Fatal("SENDGRID_FROM_EMAIL env var is missing")
	}

	accessExpiry := durationFromEnv("ACCESS_TOKEN_TTL", DefaultAccessTokenExpiry)
	refreshExpiry := durationFromEnv("REFRESH_TOKEN_TTL", DefaultRefreshTokenExpiry)

	return &Config{
		OrganizationName:          OrganizationName,
		AppName:                   appName,
		AppPort:                   appPort,
		AppUrl:                    appUrl,
		DBUrl:                     dbUrl,
		RedisUrl:                  redisUrl,
		JWTSecret:                 []byte(jwtSecret),
		AccessTokenExpiry:         accessExpiry,
		RefreshTokenExpiry:        refreshExpiry,
		PasswordChangeGuardWindow: DefaultPasswordChangeGuardWindow,
		MaxLoginAttempts:          MaxLoginAttempts,
		AttemptWindow:             AttemptWindow,
		LockDuration:              LockDuration,
		SendGridAPIKey:            sendGridAPIKey,
		SendGridFromEmail:         sendGridFromEmail,
		SendGridSandboxMode:       os.Getenv("SENDGRID_SANDBOX_MODE") == "true",
		TempPasswordLength:        TempPasswordLength,
	}
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		utils.Logger.Warnf("Invalid %s '%s', defaulting to %s", key, raw, fallback)
		return fallback
	}
	return d
}
