package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`
	// Record storage: "file" (JSON document) or "postgres"
	StorageDriver string `yaml:"storage_driver"`
	DBPath        string `yaml:"db_path"`
	DBUrl         string `yaml:"database_url"`
	// Uploads: "local" directory or "s3" bucket
	UploadDriver   string `yaml:"upload_driver"`
	UploadDir      string `yaml:"upload_dir"`
	UploadMaxBytes int64  `yaml:"upload_max_bytes"`
	ClamAVAddress  string `yaml:"clamav_address"`
	// S3 / Wasabi
	S3Provider        string `yaml:"s3_provider"`
	S3AccessKeyID     string `yaml:"s3_access_key_id"`
	S3SecretAccessKey string `yaml:"s3_secret_access_key"`
	S3Region          string `yaml:"s3_region"`
	S3Bucket          string `yaml:"s3_bucket"`
	S3Endpoint        string `yaml:"s3_endpoint"`
	// Redis
	RedisURL      string `yaml:"redis_url"`
	RedisPassword string `yaml:"redis_password"`
	// Rate limiting
	RateLimitWindowSeconds   int `yaml:"rate_limit_window_seconds"`
	RateLimitGlobalThreshold int `yaml:"rate_limit_global_threshold"`
	UploadsPerMinute         int `yaml:"uploads_per_minute"`
	UploadsPerDay            int `yaml:"uploads_per_day"`
	// SMTP
	SMTPHost      string `yaml:"smtp_host"`
	SMTPPort      string `yaml:"smtp_port"`
	SMTPUsername  string `yaml:"smtp_username"`
	SMTPPassword  string `yaml:"smtp_password"`
	SMTPFromEmail string `yaml:"smtp_from_email"`
	// Sessions
	JWTSecret         string   `yaml:"jwt_secret"`
	TokenTTLMinutes   int      `yaml:"token_ttl_minutes"`
	AuthEnforce       bool     `yaml:"auth_enforce"`
	AdminAccounts     []string `yaml:"admin_accounts"`
	RecruiterAccounts []string `yaml:"recruiter_accounts"`
	// HTTP
	CORSOrigins []string `yaml:"cors_origins"`
}

func LoadConfig() (*Config, error) {
	// .env is optional; the process environment wins.
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "3001"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		StorageDriver: getEnv("STORAGE_DRIVER", "file"),
		DBPath:        getEnv("DB_PATH", "db.json"),
		DBUrl:         getEnv("DATABASE_URL", ""),

		UploadDriver:   getEnv("UPLOAD_DRIVER", "local"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		UploadMaxBytes: int64(getEnvInt("UPLOAD_MAX_BYTES", 10*1024*1024)),
		ClamAVAddress:  getEnv("CLAMAV_ADDRESS", ""),

		S3Provider:        getEnv("S3_PROVIDER", "aws"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Region:          getEnv("S3_REGION", ""),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 300),
		UploadsPerMinute:         getEnvInt("UPLOADS_PER_MINUTE", 10),
		UploadsPerDay:            getEnvInt("UPLOADS_PER_DAY", 100),

		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail: getEnv("SMTP_FROM_EMAIL", ""),

		JWTSecret:         getEnv("JWT_SECRET", ""),
		TokenTTLMinutes:   getEnvInt("TOKEN_TTL_MINUTES", 24*60),
		AuthEnforce:       getEnvBool("AUTH_ENFORCE", false),
		AdminAccounts:     getEnvList("ADMIN_ACCOUNTS"),
		RecruiterAccounts: getEnvList("RECRUITER_ACCOUNTS"),

		CORSOrigins: getEnvList("CORS_ORIGINS"),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is missing. /auth/login will be unavailable.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// overlayFile applies a YAML file on top of the environment values; keys
// absent from the file keep their current value.
func (c *Config) overlayFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case "file":
		if c.DBPath == "" {
			return fmt.Errorf("config: DB_PATH is required for the file storage driver")
		}
	case "postgres":
		if c.DBUrl == "" {
			return fmt.Errorf("config: DATABASE_URL is required for the postgres storage driver")
		}
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	switch c.UploadDriver {
	case "local":
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("config: S3_BUCKET is required for the s3 upload driver")
		}
	default:
		return fmt.Errorf("config: unknown UPLOAD_DRIVER %q", c.UploadDriver)
	}

	if c.UploadMaxBytes <= 0 {
		return fmt.Errorf("config: UPLOAD_MAX_BYTES must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping empty items.
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
