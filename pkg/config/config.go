package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Admin     AdminConfig
	Redis     RedisConfig
	Embedding EmbeddingConfig
	Learning  LearningConfig
	Recommend RecommendConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
	TTL       time.Duration
}

// AdminConfig is the single operator account; an empty hash disables
// admin login.
type AdminConfig struct {
	Username     string
	PasswordHash string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	// empty host disables the vector cache
	Enabled bool
}

type EmbeddingConfig struct {
	// "http" talks to an OpenAI compatible /v1/embeddings endpoint,
	// "hashing" uses the local feature hashing model
	Provider          string
	BaseURL           string
	Model             string
	APIKey            string
	BasicAuthUsername string
	BasicAuthPassword string
	Dimension         int
	Timeout           time.Duration
	CacheTTL          time.Duration
}

type LearningConfig struct {
	// simple | adaptive
	Policy          string
	AdaptivePercent int
	MinFeedback     int
}

type RecommendConfig struct {
	DefaultTopK  int
	DefaultCity  string
	DefaultState string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Group Recommender API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "group_recommender"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
			TTL:       getEnvDuration("JWT_TTL", 24*time.Hour),
		},
		Admin: AdminConfig{
			Username:     getEnv("ADMIN_USERNAME", "admin"),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", ""),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		Embedding: EmbeddingConfig{
			Provider:          getEnv("EMBEDDING_PROVIDER", "hashing"),
			BaseURL:           getEnv("EMBEDDING_BASE_URL", "http://localhost:11434"),
			Model:             getEnv("EMBEDDING_MODEL", "all-MiniLM-L6-v2"),
			APIKey:            getEnv("EMBEDDING_API_KEY", ""),
			BasicAuthUsername: getEnv("EMBEDDING_BASIC_AUTH_USERNAME", ""),
			BasicAuthPassword: getEnv("EMBEDDING_BASIC_AUTH_PASSWORD", ""),
			Dimension:         getEnvInt("EMBEDDING_DIMENSION", 384),
			Timeout:           getEnvDuration("EMBEDDING_TIMEOUT", 10*time.Second),
			CacheTTL:          getEnvDuration("EMBEDDING_CACHE_TTL", 7*24*time.Hour),
		},
		Learning: LearningConfig{
			Policy:          getEnv("LEARNING_POLICY", "adaptive"),
			AdaptivePercent: getEnvInt("LEARNING_ADAPTIVE_PERCENT", 0),
			MinFeedback:     getEnvInt("LEARNING_MIN_FEEDBACK", 3),
		},
		Recommend: RecommendConfig{
			DefaultTopK:  getEnvInt("RECOMMEND_DEFAULT_TOP_K", 10),
			DefaultCity:  getEnv("DEFAULT_CITY", "San Francisco"),
			DefaultState: getEnv("DEFAULT_STATE", "CA"),
		},
	}
	cfg.Redis.Enabled = cfg.Redis.RedisHost != ""

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" && cfg.App.Environment != "development" {
		return nil, errors.New("missing database password")
	}

	switch cfg.Learning.Policy {
	case "simple", "adaptive":
	default:
		return nil, errors.New("invalid learning policy")
	}

	switch cfg.Embedding.Provider {
	case "http", "hashing":
	default:
		return nil, errors.New("invalid embedding provider")
	}

	if cfg.Learning.AdaptivePercent < 0 || cfg.Learning.AdaptivePercent > 100 {
		return nil, errors.New("learning adaptive percent must be within 0..100")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}

	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}

	return defaultVal
}
