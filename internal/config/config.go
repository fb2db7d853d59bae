package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Cache    CacheConfig
	Speech   SpeechConfig
	Generate GenerateConfig
	Prompts  PromptsConfig
}

type PromptsConfig struct {
	Path string
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	URL            string
	MaxConns       int
	MinConns       int
	MigrationsPath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret    string
	APIKey       string
	APIKeyHeader string
}

type CacheConfig struct {
	Backend string // "memory" or "redis"
	TTL     time.Duration
}

// SpeechConfig carries one credential per transcription vendor. Base URLs
// default to the public endpoints and exist so tests can point adapters at
// a fake backend.
type SpeechConfig struct {
	AssemblyKey     string
	AssemblyBaseURL string
	DeepgramKey     string
	DeepgramBaseURL string
	GladiaKey       string
	GladiaBaseURL   string
	GroqKey         string
	OpenAIKey       string
	DefaultProvider string
	PollInterval    time.Duration
	RequestTimeout  time.Duration
}

type GenerateConfig struct {
	GeminiKey        string
	GeminiBaseURL    string
	TogetherKey      string
	AnthropicKey     string
	DefaultGenerator string
	GeminiModel      string
	TogetherModel    string
	AnthropicModel   string
	RequestTimeout   time.Duration
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cacheTTL, err := getEnvDuration("CACHE_TTL", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}

	pollInterval, err := getEnvDuration("SPEECH_POLL_INTERVAL", time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SPEECH_POLL_INTERVAL: %w", err)
	}

	requestTimeout, err := getEnvDuration("SPEECH_REQUEST_TIMEOUT", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid SPEECH_REQUEST_TIMEOUT: %w", err)
	}

	generateTimeout, err := getEnvDuration("GENERATE_REQUEST_TIMEOUT", 2*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid GENERATE_REQUEST_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConns:       maxConns,
			MinConns:       minConns,
			MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("JWT_SECRET", ""),
			APIKey:       getEnv("API_KEY", ""),
			APIKeyHeader: getEnv("API_KEY_HEADER", "X-API-Key"),
		},
		Cache: CacheConfig{
			Backend: getEnv("CACHE_BACKEND", "memory"),
			TTL:     cacheTTL,
		},
		Speech: SpeechConfig{
			AssemblyKey:     getEnv("ASSEMBLY_API_KEY", ""),
			AssemblyBaseURL: getEnv("ASSEMBLY_BASE_URL", ""),
			DeepgramKey:     getEnv("DEEPGRAM_API_KEY", ""),
			DeepgramBaseURL: getEnv("DEEPGRAM_BASE_URL", ""),
			GladiaKey:       getEnv("GLADIA_API_KEY", ""),
			GladiaBaseURL:   getEnv("GLADIA_BASE_URL", ""),
			GroqKey:         getEnv("GROQ_API_KEY", ""),
			OpenAIKey:       getEnv("OPENAI_API_KEY", ""),
			DefaultProvider: getEnv("SPEECH_DEFAULT_PROVIDER", "whisper"),
			PollInterval:    pollInterval,
			RequestTimeout:  requestTimeout,
		},
		Generate: GenerateConfig{
			GeminiKey:        getEnv("GEMINI_API_KEY", ""),
			GeminiBaseURL:    getEnv("GEMINI_BASE_URL", ""),
			TogetherKey:      getEnv("TG_API_TOKEN", ""),
			AnthropicKey:     getEnv("ANTHROPIC_API_KEY", ""),
			DefaultGenerator: getEnv("GENERATE_DEFAULT_PROVIDER", "together"),
			GeminiModel:      getEnv("GEMINI_MODEL", "models/gemini-1.5-flash"),
			TogetherModel:    getEnv("TOGETHER_MODEL", "meta-llama/Llama-4-Maverick-17B-128E-Instruct-FP8"),
			AnthropicModel:   getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
			RequestTimeout:   generateTimeout,
		},
		Prompts: PromptsConfig{
			Path: getEnv("PROMPTS_PATH", "prompts.json"),
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var problems []string
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		problems = append(problems, fmt.Sprintf("CACHE_BACKEND must be memory or redis, got %q", c.Cache.Backend))
	}
	if c.Speech.PollInterval <= 0 {
		problems = append(problems, "SPEECH_POLL_INTERVAL must be positive")
	}
	if c.Speech.RequestTimeout <= 0 {
		problems = append(problems, "SPEECH_REQUEST_TIMEOUT must be positive")
	}
	if c.Generate.RequestTimeout <= 0 {
		problems = append(problems, "GENERATE_REQUEST_TIMEOUT must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}
