package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"food-ordering-api/models"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// JWTSecret used to sign tokens, read from env or fallback
var JWTSecret = []byte(getEnv("JWT_SECRET", "food_ordering_super_secret_2024"))

// TokenTTL is how long an issued bearer token stays valid
var TokenTTL = 24 * time.Hour

// Logger is the process-wide structured logger
var Logger = logrus.New()

type Config struct {
	Port               string
	DBDriver           string
	DatabaseURL        string
	JWTSecret          string
	TokenTTL           time.Duration
	AllowPasswordReset bool
	KafkaBrokers       []string
	OTLPEndpoint       string
	LogLevel           string
	LogFormat          string
	CORSOrigins        []string
	SeedDemo           bool
}

// Load reads configuration from the environment, after merging in a .env
// file when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		DBDriver:           strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DatabaseURL:        getEnv("DATABASE_URL", "food_ordering.db"),
		JWTSecret:          getEnv("JWT_SECRET", string(JWTSecret)),
		TokenTTL:           ttl,
		AllowPasswordReset: getBool("ALLOW_PASSWORD_RESET", true),
		KafkaBrokers:       splitList(getEnv("KAFKA_BROKERS", "")),
		OTLPEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "*")),
		SeedDemo:           getBool("SEED_DEMO", false),
	}

	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (want sqlite or postgres)", cfg.DBDriver)
	}

	JWTSecret = []byte(cfg.JWTSecret)
	TokenTTL = cfg.TokenTTL
	return cfg, nil
}

// ConfigureLogger applies level and format settings to Logger.
func ConfigureLogger(cfg *Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)
	if cfg.LogFormat == "text" {
		Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		Logger.SetFormatter(&logrus.JSONFormatter{})
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// OpenDB connects to the configured database and migrates every model.
// Foreign keys are not enforced at the schema level: a dish can be removed
// while orders and reviews still point at it.
func OpenDB(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Dish{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.Review{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func InitDB(cfg *Config) {
	var err error
	DB, err = OpenDB(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		Logger.WithError(err).Fatal("Failed to initialise database")
	}
	Logger.WithField("driver", cfg.DBDriver).Info("Database connected and migrated")
}
