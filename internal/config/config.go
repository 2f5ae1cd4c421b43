package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Qdrant    QdrantConfig
	Gemini    GeminiConfig
	Storage   StorageConfig
	Interview InterviewConfig
	Session   SessionConfig
	Redis     RedisConfig
	Worker    WorkerConfig
	Log       LogConfig

	// EnvFileLoaded reports whether a .env file was found.
	EnvFileLoaded bool
}

type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	Enabled    bool
	URL        string
	APIKey     string
	Collection string
}

type GeminiConfig struct {
	APIKey     string
	Model      string
	EmbedModel string
	MaxTokens  int32
	MaxRetries int
}

type StorageConfig struct {
	UploadPath        string
	MaxFileSize       int64
	AllowedExtensions []string
}

type InterviewConfig struct {
	TotalQuestions  int
	AnswerTimeLimit time.Duration
	PrepTime        time.Duration
}

type SessionConfig struct {
	Store         string
	TTL           time.Duration
	SweepInterval time.Duration
}

type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	KeyPrefix  string
	LockPrefix string
	LockTTL    time.Duration
	LockWait   time.Duration
}

type WorkerConfig struct {
	Concurrency int
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

func Load() *Config {
	envLoaded := godotenv.Load() == nil

	return &Config{
		EnvFileLoaded: envLoaded,
		Server: ServerConfig{
			Port:           getEnv("PORT", "3000"),
			Env:            getEnv("ENV", "development"),
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "interview_coach"),
		},
		Qdrant: QdrantConfig{
			Enabled:    getEnvAsBool("QDRANT_ENABLED", false),
			URL:        getEnv("QDRANT_URL", "http://localhost:6334"),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "interview_guides"),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			Model:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			EmbedModel: getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
			MaxTokens:  int32(getEnvAsInt("GEMINI_MAX_TOKENS", 2048)),
			MaxRetries: getEnvAsInt("GEMINI_MAX_RETRIES", 3),
		},
		Storage: StorageConfig{
			UploadPath:        getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize:       getEnvAsInt64("MAX_FILE_SIZE", 10485760),
			AllowedExtensions: getEnvAsList("ALLOWED_EXTENSIONS", []string{".pdf", ".docx", ".txt"}),
		},
		Interview: InterviewConfig{
			TotalQuestions:  getEnvAsInt("TOTAL_QUESTIONS", 5),
			AnswerTimeLimit: time.Duration(getEnvAsInt("ANSWER_TIME_SECONDS", 180)) * time.Second,
			PrepTime:        time.Duration(getEnvAsInt("PREP_TIME_SECONDS", 30)) * time.Second,
		},
		Session: SessionConfig{
			Store:         strings.ToLower(getEnv("SESSION_STORE", StoreMemory)),
			TTL:           getEnvAsDuration("SESSION_TTL", "24h"),
			SweepInterval: getEnvAsDuration("SESSION_SWEEP_INTERVAL", "5m"),
		},
		Redis: RedisConfig{
			Addr:       getEnv("REDIS_ADDR", "localhost:6379"),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvAsInt("REDIS_DB", 0),
			KeyPrefix:  getEnv("REDIS_KEY_PREFIX", "interview:session:"),
			LockPrefix: getEnv("REDIS_LOCK_PREFIX", "interview:lock:"),
			LockTTL:    getEnvAsDuration("SESSION_LOCK_TTL", "2m"),
			LockWait:   getEnvAsDuration("SESSION_LOCK_WAIT", "30s"),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvAsInt("WORKER_CONCURRENCY", 2),
		},
		Log: LogConfig{
			JSON:  getEnvAsBool("LOG_JSON", false),
			Debug: getEnvAsBool("LOG_DEBUG", false),
		},
	}
}

// Validate checks the values the interview engine cannot run without.
func (c *Config) Validate() error {
	if c.Interview.TotalQuestions <= 0 {
		return fmt.Errorf("TOTAL_QUESTIONS must be positive, got %d", c.Interview.TotalQuestions)
	}
	if c.Interview.AnswerTimeLimit <= 0 {
		return fmt.Errorf("ANSWER_TIME_SECONDS must be positive")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	switch c.Session.Store {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", c.Session.Store)
	}
	if c.Worker.Concurrency <= 0 {
		return fmt.Errorf("WORKER_CONCURRENCY must be positive, got %d", c.Worker.Concurrency)
	}
	return nil
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	var values []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
