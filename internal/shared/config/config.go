package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	Port        string
	Env         string

	// Auth
	JWTSecret string

	// Draft session store (local sqlite file)
	DraftStorePath string
	DraftTTLHours  int

	// Uploads
	UploadProvider      string // "local", "cloudinary" or "s3"
	UploadLocalPath     string
	UploadBaseURL       string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSRegion           string
	AWSBucketName       string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		Port:                os.Getenv("PORT"),
		Env:                 os.Getenv("ENV"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		DraftStorePath:      os.Getenv("DRAFT_STORE_PATH"),
		UploadProvider:      os.Getenv("UPLOAD_PROVIDER"),
		UploadLocalPath:     os.Getenv("UPLOAD_LOCAL_PATH"),
		UploadBaseURL:       os.Getenv("UPLOAD_BASE_URL"),
		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		AWSAccessKeyID:      os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey:  os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSRegion:           os.Getenv("AWS_REGION"),
		AWSBucketName:       os.Getenv("AWS_BUCKET_NAME"),
	}

	if ttl := os.Getenv("DRAFT_TTL_HOURS"); ttl != "" {
		if n, err := strconv.Atoi(ttl); err == nil && n > 0 {
			cfg.DraftTTLHours = n
		}
	}

	// Default values
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.DraftStorePath == "" {
		cfg.DraftStorePath = "drafts.db"
	}
	if cfg.DraftTTLHours == 0 {
		cfg.DraftTTLHours = 24
	}
	if cfg.UploadProvider == "" {
		cfg.UploadProvider = "local"
	}
	if cfg.UploadLocalPath == "" {
		cfg.UploadLocalPath = "uploads"
	}
	if cfg.UploadBaseURL == "" {
		cfg.UploadBaseURL = "http://localhost:" + cfg.Port
	}

	return cfg
}
