// Package config loads the application configuration from a TOML file
// under ~/.docask, with environment overrides for secrets.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Environment variables that override file values. Secrets belong in
// the environment, not on disk.
const (
	EnvAzureAPIKey  = "AZURE_OPENAI_API_KEY"
	EnvQdrantAPIKey = "QDRANT_API_KEY"
)

// Config is the full application configuration.
type Config struct {
	Azure     AzureConfig     `toml:"azure"`
	Qdrant    QdrantConfig    `toml:"qdrant"`
	Chunking  ChunkingConfig  `toml:"chunking"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Server    ServerConfig    `toml:"server"`
	Watch     WatchConfig     `toml:"watch"`
}

// AzureConfig configures the Azure OpenAI resource.
type AzureConfig struct {
	// Endpoint is the resource endpoint, e.g.
	// https://my-resource.openai.azure.com.
	Endpoint string `toml:"endpoint"`

	// APIKey authenticates requests. Prefer the AZURE_OPENAI_API_KEY
	// environment variable over storing it here.
	APIKey string `toml:"api_key"`

	// EmbeddingDeployment is the embedding deployment name.
	EmbeddingDeployment string `toml:"embedding_deployment"`

	// ChatDeployment is the chat deployment name.
	ChatDeployment string `toml:"chat_deployment"`

	// APIVersion selects the API version.
	APIVersion string `toml:"api_version"`
}

// QdrantConfig configures the vector index.
type QdrantConfig struct {
	URL        string `toml:"url"`
	APIKey     string `toml:"api_key"`
	Collection string `toml:"collection"`
}

// ChunkingConfig configures the text splitter.
type ChunkingConfig struct {
	ChunkSize    int `toml:"chunk_size"`
	ChunkOverlap int `toml:"chunk_overlap"`
}

// RetrievalConfig configures similarity search.
type RetrievalConfig struct {
	TopK int `toml:"top_k"`
}

// ServerConfig configures the HTTP query server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// WatchConfig configures drop-folder ingestion.
type WatchConfig struct {
	Dir string `toml:"dir"`
}

// Default returns the configuration defaults.
func Default() Config {
	return Config{
		Azure: AzureConfig{
			EmbeddingDeployment: "text-embedding-3-large",
			ChatDeployment:      "gpt-4o",
		},
		Qdrant: QdrantConfig{
			URL:        "http://localhost:6333",
			Collection: "documents",
		},
		Chunking: ChunkingConfig{
			ChunkSize:    1000,
			ChunkOverlap: 200,
		},
		Retrieval: RetrievalConfig{
			TopK: 5,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// DefaultPath returns ~/.docask/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".docask", "config.toml"), nil
}

// Load reads the configuration file at path, layering it over the
// defaults and the environment over both. A missing file is not an
// error; the defaults stand.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No config file yet - that's fine, defaults apply
	case err != nil:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// Save writes the configuration with restricted permissions.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if key := os.Getenv(EnvAzureAPIKey); key != "" {
		cfg.Azure.APIKey = key
	}
	if key := os.Getenv(EnvQdrantAPIKey); key != "" {
		cfg.Qdrant.APIKey = key
	}
}
