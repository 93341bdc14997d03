package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names recognized by FromEnv
const (
	EnvQdrantHost        = "QDRANT_HOST"
	EnvQdrantPort        = "QDRANT_PORT"
	EnvQdrantAPIKey      = "QDRANT_API_KEY"
	EnvQdrantTimeout     = "QDRANT_TIMEOUT_SECS"
	EnvCollection        = "QDRANT_COLLECTION"
	EnvEmbeddingModel    = "EMBEDDING_MODEL"
	EnvBatchSize         = "BATCH_SIZE"
	EnvKBRoot            = "KB_ROOT"
	EnvMaxChunkWords     = "MAX_CHUNK_WORDS"
	EnvChunkOverlapWords = "CHUNK_OVERLAP_WORDS"
	EnvTopK              = "TOP_K"
)

// QdrantConfig holds the vector index connection settings
type QdrantConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	APIKey      string `yaml:"api_key,omitempty"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// Config is the root application configuration. Values come from a YAML
// file, then environment variables override field by field.
type Config struct {
	Qdrant            QdrantConfig `yaml:"qdrant"`
	Collection        string       `yaml:"collection"`
	EmbeddingModel    string       `yaml:"embedding_model"`
	BatchSize         int          `yaml:"batch_size"`
	KBRoot            string       `yaml:"kb_root"`
	MaxChunkWords     int          `yaml:"max_chunk_words"`
	ChunkOverlapWords int          `yaml:"chunk_overlap_words"`
	TopK              int          `yaml:"top_k"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Qdrant:            QdrantConfig{Host: "localhost", Port: 6333, TimeoutSecs: 15},
		Collection:        "kb_vectors",
		EmbeddingModel:    "text-embedding-3-small",
		BatchSize:         64,
		KBRoot:            "./KB",
		MaxChunkWords:     1000,
		ChunkOverlapWords: 200,
		TopK:              5,
	}
}

// Load reads a YAML config from path, falling back to defaults when the
// file does not exist, then applies environment overrides. A .env file in
// the working directory is honored if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// Save writes cfg to path as YAML, creating parent directories as needed
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// FromEnv returns the default configuration with environment overrides
// applied, loading a .env file first when one exists.
func FromEnv() *Config {
	_ = godotenv.Load()
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyEnv() {
	setString(&c.Qdrant.Host, EnvQdrantHost)
	setInt(&c.Qdrant.Port, EnvQdrantPort)
	setString(&c.Qdrant.APIKey, EnvQdrantAPIKey)
	setInt(&c.Qdrant.TimeoutSecs, EnvQdrantTimeout)
	setString(&c.Collection, EnvCollection)
	setString(&c.EmbeddingModel, EnvEmbeddingModel)
	setInt(&c.BatchSize, EnvBatchSize)
	setString(&c.KBRoot, EnvKBRoot)
	setInt(&c.MaxChunkWords, EnvMaxChunkWords)
	setInt(&c.ChunkOverlapWords, EnvChunkOverlapWords)
	setInt(&c.TopK, EnvTopK)
}

// Validate checks the configuration for suspicious values. Problems are
// returned as warnings rather than errors: startup proceeds, and the
// component constructors enforce their own hard preconditions.
func (c *Config) Validate() []string {
	var warnings []string

	if c.Qdrant.Port < 1 || c.Qdrant.Port > 65535 {
		warnings = append(warnings, fmt.Sprintf("qdrant port %d is outside valid range (1-65535)", c.Qdrant.Port))
	}
	if c.BatchSize <= 0 {
		warnings = append(warnings, fmt.Sprintf("batch size %d should be positive", c.BatchSize))
	} else if c.BatchSize > 1000 {
		warnings = append(warnings, fmt.Sprintf("large batch size %d may cause memory issues", c.BatchSize))
	}
	if c.MaxChunkWords <= 0 {
		warnings = append(warnings, fmt.Sprintf("max chunk words %d should be positive", c.MaxChunkWords))
	}
	if c.ChunkOverlapWords < 0 {
		warnings = append(warnings, fmt.Sprintf("chunk overlap words %d should be non-negative", c.ChunkOverlapWords))
	}
	if c.MaxChunkWords > 0 && c.ChunkOverlapWords >= c.MaxChunkWords {
		warnings = append(warnings, fmt.Sprintf("chunk overlap %d should be less than max chunk size %d", c.ChunkOverlapWords, c.MaxChunkWords))
	}
	if c.TopK <= 0 {
		warnings = append(warnings, fmt.Sprintf("top_k %d should be positive", c.TopK))
	}
	if c.Collection == "" {
		warnings = append(warnings, "collection name is empty")
	}
	if c.KBRoot != "" {
		if _, err := os.Stat(c.KBRoot); err != nil {
			warnings = append(warnings, fmt.Sprintf("knowledge base root does not exist: %s", c.KBRoot))
		}
	}

	return warnings
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*dst = n
}
