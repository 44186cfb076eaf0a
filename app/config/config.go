package config

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

type Config struct {
	DB         *sql.DB
	Logger     *zap.Logger
	Port       string
	UploadPath string
}

var AppConfig *Config

// envOr returns the environment value for key, or fallback when unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Init loads .env, connects to Postgres and builds the application logger.
func Init() {
	// .env is optional; deployments may set the environment directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger, err := newLogger()
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}

	host := envOr("DB_HOST", "localhost")
	port, _ := strconv.Atoi(envOr("DB_PORT", "5432"))
	user := envOr("DB_USER", "postgres")
	password := os.Getenv("DB_PASSWORD")
	dbname := envOr("DB_NAME", "kingsway")
	sslmode := envOr("DB_SSLMODE", "disable")

	psqlInfo := fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s connect_timeout=10",
		host, port, user, dbname, sslmode)
	if password != "" {
		psqlInfo += " password=" + password
	}

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		logger.Fatal("Failed to open database connection", zap.Error(err))
	}

	// Connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if err = db.Ping(); err != nil {
		logger.Fatal("Cannot establish database connection",
			zap.String("host", host), zap.Int("port", port), zap.Error(err))
	}

	AppConfig = &Config{
		DB:         db,
		Logger:     logger,
		Port:       envOr("PORT", "8080"),
		UploadPath: envOr("UPLOAD_PATH", "./uploads"),
	}
	logger.Info("Database connected", zap.String("host", host), zap.String("database", dbname))
}

func newLogger() (*zap.Logger, error) {
	if envOr("APP_ENV", "development") == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func GetDB() *sql.DB {
	return AppConfig.DB
}

func GetLogger() *zap.Logger {
	return AppConfig.Logger
}
