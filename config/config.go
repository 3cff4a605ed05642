package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

type Config struct {
	Port               string
	GinMode            string
	JWTSecret          string
	Storage            string
	MongoURI           string
	MongoDatabase      string
	CorsAllowedOrigins []string

	UploadBackend string
	UploadDir     string
	PublicBaseURL string
	CloudinaryURL string
	S3Bucket      string
	AWSRegion     string

	DefaultAdminName     string
	DefaultAdminEmail    string
	DefaultAdminPassword string

	LogLevel zerolog.Level
}

// Load reads .env when present and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	port := getEnv("PORT", getEnv("DB_PORT", "8080"))
	cfg := Config{
		Port:               port,
		GinMode:            getEnv("GIN_MODE", "debug"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		Storage:            strings.ToLower(getEnv("STORAGE", StorageMongo)),
		MongoURI:           getEnv("MONGODB_URI", ""),
		MongoDatabase:      getEnv("MONGODB_DATABASE", "ssrss"),
		CorsAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		UploadBackend: strings.ToLower(getEnv("UPLOAD_BACKEND", "disk")),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:"+port), "/"),
		CloudinaryURL: getEnv("CLOUDINARY_URL", ""),
		S3Bucket:      getEnv("S3_BUCKET", ""),
		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),

		DefaultAdminName:     getEnv("DEFAULT_ADMIN_NAME", "Super Admin"),
		DefaultAdminEmail:    getEnv("DEFAULT_ADMIN_EMAIL", "admin@ssrss.com"),
		DefaultAdminPassword: getEnv("DEFAULT_ADMIN_PASSWORD", "Admin123"),
	}

	level, err := zerolog.ParseLevel(strings.ToLower(getEnv("LOG_LEVEL", "info")))
	if err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	switch cfg.Storage {
	case StorageMongo:
		if cfg.MongoURI == "" {
			return Config{}, errors.New("MONGODB_URI is required when STORAGE=mongo")
		}
	case StorageMemory:
	default:
		return Config{}, fmt.Errorf("STORAGE must be %q or %q, got %q", StorageMongo, StorageMemory, cfg.Storage)
	}
	return cfg, nil
}

func (c Config) Release() bool { return c.GinMode == "release" }

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
