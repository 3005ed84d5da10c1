package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBUrl          string
	LogLevel       string
	MigrateOnStart bool

	AWSBucket    string
	AWSRegion    string
	AWSAccessKey string
	AWSSecretKey string
}

// LoadConfig lit le fichier .env s'il existe, puis l'environnement.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		DBUrl:          databaseURL(),
		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", false),
		AWSBucket:      os.Getenv("AWS_BUCKET_NAME"),
		AWSRegion:      getEnv("AWS_REGION", "eu-west-3"),
		AWSAccessKey:   os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey:   os.Getenv("AWS_SECRET_ACCESS_KEY"),
	}
}

// StorageEnabled indique si les photos de profil sont stockées sur S3.
func (c *Config) StorageEnabled() bool {
	return c.AWSBucket != ""
}

func databaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "bookhub"),
		getEnv("DB_PASSWORD", "bookhub"),
		getEnv("DB_NAME", "bookhub"),
		getEnv("DB_SSLMODE", "disable"),
	)
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
