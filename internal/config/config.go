package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/models"
)

type Config struct {
	SERVER_PORT string
	LOG_LEVEL   string

	DB_HOST     string
	DB_PORT     string
	DB_USER     string
	DB_PASSWORD string
	DB_NAME     string

	JWT_SECRET      string
	JWT_ALGORITHM   string
	ACCESS_TTL_MIN  int
	REFRESH_TTL_HRS int

	ES_URL      string
	ES_USER     string
	ES_PASSWORD string

	KAFKA_ADDRESS string

	IMAGEHOST_URL    string
	IMAGEHOST_KEY    string
	IMAGEHOST_SECRET string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		SERVER_PORT: envDefault("SERVER_PORT", "8080"),
		LOG_LEVEL:   envDefault("LOG_LEVEL", "info"),

		DB_HOST:     os.Getenv("DB_HOST"),
		DB_PORT:     os.Getenv("DB_PORT"),
		DB_USER:     os.Getenv("DB_USER"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_NAME:     os.Getenv("DB_NAME"),

		JWT_SECRET:      os.Getenv("JWT_SECRET"),
		JWT_ALGORITHM:   envDefault("JWT_ALGORITHM", "HS256"),
		ACCESS_TTL_MIN:  envIntDefault("ACCESS_TTL_MIN", 15),
		REFRESH_TTL_HRS: envIntDefault("REFRESH_TTL_HRS", 7*24),

		ES_URL:      os.Getenv("ES_URL"),
		ES_USER:     os.Getenv("ES_USER"),
		ES_PASSWORD: os.Getenv("ES_PASSWORD"),

		KAFKA_ADDRESS: os.Getenv("KAFKA_ADDRESS"),

		IMAGEHOST_URL:    os.Getenv("IMAGEHOST_URL"),
		IMAGEHOST_KEY:    os.Getenv("IMAGEHOST_KEY"),
		IMAGEHOST_SECRET: os.Getenv("IMAGEHOST_SECRET"),
	}

	MustNonEmpty(config.JWT_SECRET, "JWT_SECRET")

	return config, nil
}

func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.ACCESS_TTL_MIN) * time.Minute
}

func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.REFRESH_TTL_HRS) * time.Hour
}

func InitDB(c *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DB_USER, c.DB_PASSWORD, c.DB_HOST, c.DB_PORT, c.DB_NAME,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Photo{}, &models.Tag{}, &models.Comment{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
