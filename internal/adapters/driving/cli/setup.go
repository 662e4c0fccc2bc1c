package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	clsollama "github.com/verifact-labs/verifact-cli/internal/adapters/driven/classifier/ollama"
	clsopenai "github.com/verifact-labs/verifact-cli/internal/adapters/driven/classifier/openai"
	"github.com/verifact-labs/verifact-cli/internal/adapters/driven/config/file"
	embollama "github.com/verifact-labs/verifact-cli/internal/adapters/driven/embedding/ollama"
	embopenai "github.com/verifact-labs/verifact-cli/internal/adapters/driven/embedding/openai"
	"github.com/verifact-labs/verifact-cli/internal/adapters/driven/storage/sqlitevec"
	"github.com/verifact-labs/verifact-cli/internal/chunker"
	"github.com/verifact-labs/verifact-cli/internal/core/ports/driven"
	"github.com/verifact-labs/verifact-cli/internal/core/services"
	"github.com/verifact-labs/verifact-cli/internal/extractors"
	"github.com/verifact-labs/verifact-cli/internal/logger"
)

// Environment variables honoured alongside the config file.
const (
	envOpenAIKey  = "OPENAI_API_KEY"
	envProvider   = "VERIFACT_PROVIDER"
	envStorePath  = "VERIFACT_DB"
	envOllamaBase = "OLLAMA_HOST"
)

// ensureServices wires the adapter stack behind the package-level service
// variables. Commands call it on first use; repeated calls are no-ops.
func ensureServices() error {
	if factCheckService != nil && ingestService != nil {
		return nil
	}

	// Secrets may live in a .env next to the binary; absence is fine.
	_ = godotenv.Load()

	cfg, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	embedder, classifier, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	store, err := openStore(cfg, embedder.Dimensions())
	if err != nil {
		return err
	}

	var chunkOpts []chunker.Option
	if size := cfg.GetInt(file.KeyChunkSize); size > 0 {
		chunkOpts = append(chunkOpts, chunker.WithSize(size))
	}
	if overlap := cfg.GetInt(file.KeyChunkOverlap); overlap > 0 {
		chunkOpts = append(chunkOpts, chunker.WithOverlap(overlap))
	}
	chk, err := chunker.New(chunkOpts...)
	if err != nil {
		return fmt.Errorf("configure chunker: %w", err)
	}

	ingest, err := services.NewIngestService(store, embedder, extractors.NewDefaultRegistry(),
		services.WithChunker(chk))
	if err != nil {
		return err
	}

	var checkOpts []services.FactCheckOption
	if k := cfg.GetInt(file.KeyDefaultK); k > 0 {
		checkOpts = append(checkOpts, services.WithDefaultK(k))
	}
	factCheck, err := services.NewFactCheckService(store, embedder, classifier, checkOpts...)
	if err != nil {
		return err
	}

	ingestService = ingest
	factCheckService = factCheck
	return nil
}

// buildProvider constructs the embedding service and classifier for the
// configured provider. OpenAI is the default when an API key is present;
// otherwise a local Ollama instance is assumed.
func buildProvider(cfg driven.ConfigStore) (driven.EmbeddingService, driven.Classifier, error) {
	provider := os.Getenv(envProvider)
	if provider == "" {
		provider = cfg.GetString(file.KeyProvider)
	}
	apiKey := os.Getenv(envOpenAIKey)
	if provider == "" {
		if apiKey != "" {
			provider = "openai"
		} else {
			provider = "ollama"
		}
	}
	logger.Debug("Provider: %s", provider)

	prompts, err := file.NewPromptStore("")
	if err != nil {
		return nil, nil, fmt.Errorf("load prompts: %w", err)
	}

	switch provider {
	case "openai":
		embedder, err := embopenai.NewEmbeddingService(embopenai.Config{
			APIKey:  apiKey,
			BaseURL: cfg.GetString(file.KeyOpenAIBaseURL),
			Model:   cfg.GetString(file.KeyEmbeddingModel),
		})
		if err != nil {
			return nil, nil, err
		}
		classifier, err := clsopenai.NewClassifier(clsopenai.Config{
			APIKey:  apiKey,
			BaseURL: cfg.GetString(file.KeyOpenAIBaseURL),
			Model:   cfg.GetString(file.KeyClassifierModel),
			Prompts: prompts,
		})
		if err != nil {
			return nil, nil, err
		}
		return embedder, classifier, nil

	case "ollama":
		baseURL := os.Getenv(envOllamaBase)
		if baseURL == "" {
			baseURL = cfg.GetString(file.KeyOllamaBaseURL)
		}
		embedder := embollama.NewEmbeddingService(embollama.Config{
			BaseURL: baseURL,
			Model:   cfg.GetString(file.KeyEmbeddingModel),
		})
		classifier, err := clsollama.NewClassifier(clsollama.Config{
			BaseURL: baseURL,
			Model:   cfg.GetString(file.KeyClassifierModel),
			Prompts: prompts,
		})
		if err != nil {
			return nil, nil, err
		}
		return embedder, classifier, nil

	default:
		return nil, nil, fmt.Errorf("unknown provider %q (want openai or ollama)", provider)
	}
}

// openStore opens the sqlite-vec evidence database.
func openStore(cfg driven.ConfigStore, dimensions int) (driven.EvidenceStore, error) {
	path := os.Getenv(envStorePath)
	if path == "" {
		path = cfg.GetString(file.KeyDatabasePath)
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".verifact", "evidence.db")
	}
	logger.Debug("Evidence store: %s", path)

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	store, err := sqlitevec.Open(path, dimensions)
	if err != nil {
		return nil, fmt.Errorf("open evidence store: %w", err)
	}
	return store, nil
}
