package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	AppPort   string
	AppEnv    string
	JWTSecret string
	Timezone  string
	TokenTTL  time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	ReportTTL     time.Duration

	StorageEndpoint  string
	StorageRegion    string
	StorageBucket    string
	StorageAccessKey string
	StorageSecretKey string
	StoragePathStyle bool
	PresignExpiry    time.Duration

	CORSOrigins []string
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("TIMEZONE", "Local")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REPORT_CACHE_TTL", "5m")
	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("STORAGE_PATH_STYLE", true)
	v.SetDefault("STORAGE_PRESIGN_EXPIRY", "15m")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	return v
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	v := newViper()

	cfg := &Config{
		DBHost:     v.GetString("DB_HOST"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBPort:     v.GetString("DB_PORT"),
		DBSSLMode:  v.GetString("DB_SSLMODE"),

		AppPort:   v.GetString("APP_PORT"),
		AppEnv:    v.GetString("APP_ENV"),
		JWTSecret: v.GetString("JWT_SECRET"),
		Timezone:  v.GetString("TIMEZONE"),
		TokenTTL:  v.GetDuration("TOKEN_TTL"),

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		ReportTTL:     v.GetDuration("REPORT_CACHE_TTL"),

		StorageEndpoint:  v.GetString("STORAGE_ENDPOINT"),
		StorageRegion:    v.GetString("STORAGE_REGION"),
		StorageBucket:    v.GetString("STORAGE_BUCKET"),
		StorageAccessKey: v.GetString("STORAGE_ACCESS_KEY"),
		StorageSecretKey: v.GetString("STORAGE_SECRET_KEY"),
		StoragePathStyle: v.GetBool("STORAGE_PATH_STYLE"),
		PresignExpiry:    v.GetDuration("STORAGE_PRESIGN_EXPIRY"),

		CORSOrigins: v.GetStringSlice("CORS_ORIGINS"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

// Location resolves Timezone, falling back to the process local zone.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("unknown TIMEZONE %q, using local time: %v", c.Timezone, err)
		return time.Local
	}
	return loc
}
