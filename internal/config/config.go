package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App        AppConfig       `toml:"app"`
	Embedding  ProviderConfig  `toml:"embedding"`
	Generation ProviderConfig  `toml:"generation"`
	Chunking   ChunkingConfig  `toml:"chunking"`
	Retrieval  RetrievalConfig `toml:"retrieval"`
	Store      StoreConfig     `toml:"store"`
}

type AppConfig struct {
	Name    string `toml:"name"`
	Env     string `toml:"env"`
	Region  string `toml:"region"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	GinMode string `toml:"gin_mode"`
}

// ProviderConfig points at an OpenAI-compatible API.
type ProviderConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
}

type ChunkingConfig struct {
	WindowSize int `toml:"window_size"`
	Overlap    int `toml:"overlap"`
}

type RetrievalConfig struct {
	TopK int `toml:"top_k"`
}

// StoreKind values accepted for StoreConfig.Kind.
const (
	StoreKindMemory   = "memory"
	StoreKindQdrant   = "qdrant"
	StoreKindMySQL    = "mysql"
	StoreKindPgvector = "pgvector"
	StoreKindRedis    = "redis"
)

type StoreConfig struct {
	Kind string `toml:"kind"`
	// Dimension is the embedding dimension; backends that manage a schema
	// (qdrant, pgvector) need it before the first upsert.
	Dimension int            `toml:"dimension"`
	Qdrant    QdrantConfig   `toml:"qdrant"`
	MySQL     MySQLConfig    `toml:"mysql"`
	Postgres  PostgresConfig `toml:"postgres"`
	Redis     RedisConfig    `toml:"redis"`
}

type QdrantConfig struct {
	Endpoint   string `toml:"endpoint"`
	APIKey     string `toml:"api_key"`
	Collection string `toml:"collection"`
}

type MySQLConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	DB       string `toml:"db"`
	Params   string `toml:"params"`
}

type PostgresConfig struct {
	DSN string `toml:"dsn"`
}

type RedisConfig struct {
	Addr      string `toml:"addr"`
	Password  string `toml:"password"`
	DB        int    `toml:"db"`
	KeyPrefix string `toml:"key_prefix"`
}

func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		c.Store.MySQL.User,
		c.Store.MySQL.Password,
		c.Store.MySQL.Host,
		c.Store.MySQL.Port,
		c.Store.MySQL.DB,
		c.Store.MySQL.Params,
	)
}

func (c *Config) Validate() error {
	if c.Chunking.WindowSize <= 0 {
		return fmt.Errorf("chunking window_size must be positive, got %d", c.Chunking.WindowSize)
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.WindowSize {
		return fmt.Errorf("chunking overlap must satisfy 0 <= overlap < window_size, got %d", c.Chunking.Overlap)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval top_k must be positive, got %d", c.Retrieval.TopK)
	}
	switch c.Store.Kind {
	case StoreKindMemory, StoreKindQdrant, StoreKindMySQL, StoreKindPgvector, StoreKindRedis:
	default:
		return fmt.Errorf("unknown vector store kind %q", c.Store.Kind)
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "docrag",
			Env:     "dev",
			Region:  "us-central1",
			Host:    "0.0.0.0",
			Port:    8080,
			GinMode: "debug",
		},
		Embedding: ProviderConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "text-embedding-3-small",
		},
		Generation: ProviderConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
		},
		Chunking: ChunkingConfig{
			WindowSize: 800,
			Overlap:    120,
		},
		Retrieval: RetrievalConfig{
			TopK: 5,
		},
		Store: StoreConfig{
			Kind:      StoreKindMemory,
			Dimension: 1536,
			Qdrant: QdrantConfig{
				Endpoint:   "http://127.0.0.1:6333",
				Collection: "doc_chunks",
			},
			MySQL: MySQLConfig{
				Host:   "127.0.0.1",
				Port:   3306,
				User:   "root",
				DB:     "docrag",
				Params: "parseTime=true&loc=Local&charset=utf8mb4",
			},
			Postgres: PostgresConfig{
				DSN: "postgres://postgres@127.0.0.1:5432/docrag",
			},
			Redis: RedisConfig{
				Addr:      "127.0.0.1:6379",
				KeyPrefix: "docrag",
			},
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Region = getEnv("REGION", cfg.App.Region)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)

	cfg.Embedding.BaseURL = getEnv("EMBEDDING_PROVIDER_BASE_URL", cfg.Embedding.BaseURL)
	cfg.Embedding.APIKey = getEnv("EMBEDDING_PROVIDER_API_KEY", cfg.Embedding.APIKey)
	cfg.Embedding.Model = getEnv("EMBEDDING_PROVIDER_MODEL", cfg.Embedding.Model)

	cfg.Generation.BaseURL = getEnv("GENERATION_PROVIDER_BASE_URL", cfg.Generation.BaseURL)
	cfg.Generation.APIKey = getEnv("GENERATION_PROVIDER_API_KEY", cfg.Generation.APIKey)
	cfg.Generation.Model = getEnv("GENERATION_PROVIDER_MODEL", cfg.Generation.Model)

	cfg.Chunking.WindowSize = getEnvAsInt("CHUNK_WINDOW_SIZE", cfg.Chunking.WindowSize)
	cfg.Chunking.Overlap = getEnvAsInt("CHUNK_OVERLAP", cfg.Chunking.Overlap)
	cfg.Retrieval.TopK = getEnvAsInt("TOP_K", cfg.Retrieval.TopK)

	cfg.Store.Kind = getEnv("VECTOR_STORE_KIND", cfg.Store.Kind)
	cfg.Store.Dimension = getEnvAsInt("VECTOR_STORE_DIMENSION", cfg.Store.Dimension)
	cfg.Store.Qdrant.Endpoint = getEnv("VECTOR_STORE_ENDPOINT", cfg.Store.Qdrant.Endpoint)
	cfg.Store.Qdrant.APIKey = getEnv("QDRANT_API_KEY", cfg.Store.Qdrant.APIKey)
	cfg.Store.Qdrant.Collection = getEnv("QDRANT_COLLECTION", cfg.Store.Qdrant.Collection)

	cfg.Store.MySQL.Host = getEnv("MYSQL_HOST", cfg.Store.MySQL.Host)
	cfg.Store.MySQL.Port = getEnvAsInt("MYSQL_PORT", cfg.Store.MySQL.Port)
	cfg.Store.MySQL.User = getEnv("MYSQL_USER", cfg.Store.MySQL.User)
	cfg.Store.MySQL.Password = getEnv("MYSQL_PASSWORD", cfg.Store.MySQL.Password)
	cfg.Store.MySQL.DB = getEnv("MYSQL_DB", cfg.Store.MySQL.DB)
	cfg.Store.MySQL.Params = getEnv("MYSQL_PARAMS", cfg.Store.MySQL.Params)

	cfg.Store.Postgres.DSN = getEnv("POSTGRES_DSN", cfg.Store.Postgres.DSN)

	cfg.Store.Redis.Addr = getEnv("REDIS_ADDR", cfg.Store.Redis.Addr)
	cfg.Store.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Store.Redis.Password)
	cfg.Store.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Store.Redis.DB)
	cfg.Store.Redis.KeyPrefix = getEnv("REDIS_KEY_PREFIX", cfg.Store.Redis.KeyPrefix)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
