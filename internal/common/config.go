package common

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/menu-extractor/constants"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	LLM      LLMConfig
	Log      LogConfig
	Archive  ArchiveConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver           string // "postgres" or "sqlite"
	DSN              string
	SQLitePath       string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr          string
	GRPCHealthAddr    string
	MaxUploadBytes    int64
	StrictPersistence bool
	AllowedOrigins    []string
}

// LLMConfig holds LLM-related configuration
type LLMConfig struct {
	Provider         string // "gemini" or "openai"
	GeminiAPIKey     string
	GeminiModel      string
	GeminiBaseURL    string
	OpenAIAPIKey     string
	OpenAIModel      string
	OpenAIBaseURL    string
	Temperature      float32
	Timeout          time.Duration
	StructuredOutput bool
}

// ArchiveConfig locates the optional bucket raw uploads are copied to.
// An empty Bucket disables archiving.
type ArchiveConfig struct {
	Bucket    string
	Prefix    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string // "text" or "json"
}

// APIKey returns the credential of the selected provider.
func (c LLMConfig) APIKey() string {
	if strings.EqualFold(c.Provider, "openai") {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// LoadDotEnv loads a local .env file outside production. A missing file is not an error.
func LoadDotEnv() {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:           strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			DSN:              getEnv("DB_URL", ""),
			SQLitePath:       getEnv("SQLITE_PATH", "./data/menu.db"),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 2),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", time.Hour),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
			GRPCHealthAddr:    os.Getenv("GRPC_HEALTH_ADDR"),
			MaxUploadBytes:    getEnvAsInt64("MAX_UPLOAD_BYTES", constants.DefaultMaxUploadBytes),
			StrictPersistence: getEnvAsBool("STRICT_PERSISTENCE", false),
			AllowedOrigins:    getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		},
		LLM: LLMConfig{
			Provider:         strings.ToLower(getEnv("LLM_PROVIDER", "gemini")),
			GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
			GeminiModel:      getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			GeminiBaseURL:    getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Temperature:      getEnvAsFloat32("LLM_TEMPERATURE", 0.2),
			Timeout:          getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
			StructuredOutput: getEnvAsBool("LLM_STRUCTURED_OUTPUT", true),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Archive: ArchiveConfig{
			Bucket:    os.Getenv("ARCHIVE_BUCKET"),
			Prefix:    getEnv("ARCHIVE_PREFIX", "menus"),
			Endpoint:  os.Getenv("ARCHIVE_ENDPOINT"),
			Region:    getEnv("ARCHIVE_REGION", "auto"),
			AccessKey: os.Getenv("ARCHIVE_ACCESS_KEY"),
			SecretKey: os.Getenv("ARCHIVE_SECRET_KEY"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the loaded configuration. Credentials have no defaults:
// a missing API key for the selected provider is a hard error.
func (c *Config) Validate() error {
	var chk Checks
	chk.OneOf("DB_DRIVER", c.Database.Driver, "postgres", "sqlite")
	if c.Database.Driver == "postgres" {
		chk.NotBlank("DB_URL", c.Database.DSN)
	} else {
		chk.NotBlank("SQLITE_PATH", c.Database.SQLitePath)
	}

	chk.OneOf("LLM_PROVIDER", c.LLM.Provider, "gemini", "openai")
	switch c.LLM.Provider {
	case "openai":
		chk.NotBlank("OPENAI_API_KEY", c.LLM.OpenAIAPIKey)
		chk.NotBlank("OPENAI_MODEL", c.LLM.OpenAIModel)
	default:
		chk.NotBlank("GEMINI_API_KEY", c.LLM.GeminiAPIKey)
		chk.NotBlank("GEMINI_MODEL", c.LLM.GeminiModel)
	}

	chk.NotBlank("HTTP_ADDR", c.Server.HTTPAddr)
	chk.Positive("MAX_UPLOAD_BYTES", c.Server.MaxUploadBytes)
	if c.Archive.AccessKey != "" {
		chk.NotBlank("ARCHIVE_SECRET_KEY", c.Archive.SecretKey)
	}
	return chk.Err()
}
