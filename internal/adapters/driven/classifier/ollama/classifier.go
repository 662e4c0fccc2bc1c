// Package ollama provides a verdict classifier adapter using a local
// Ollama instance.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/verifact-labs/verifact-cli/internal/adapters/driven/classifier"
	"github.com/verifact-labs/verifact-cli/internal/core/domain"
	"github.com/verifact-labs/verifact-cli/internal/core/ports/driven"
)

// Ensure Classifier implements the interface.
var _ driven.Classifier = (*Classifier)(nil)

// Default configuration values.
const (
	DefaultBaseURL     = "http://localhost:11434"
	DefaultModel       = "llama3.2"
	DefaultTimeout     = 180 * time.Second
	DefaultTemperature = 0.2
)

// Config holds configuration for the Ollama classifier.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the chat model to use (default: llama3.2).
	Model string

	// Timeout is the request timeout (default: 180s). Local inference can
	// be slow on modest hardware.
	Timeout time.Duration

	// Prompts supplies the fact-check prompt template (optional).
	Prompts driven.PromptStore
}

// Classifier produces verdicts using the Ollama chat API.
type Classifier struct {
	client  *http.Client
	baseURL string
	model   string
	prompts driven.PromptStore
}

// chatRequest is the Ollama API request format. Format "json" constrains
// the model to emit a single JSON object.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Format   string        `json:"format"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
}

// chatResponse is the Ollama API response format.
type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Error string `json:"error,omitempty"`
}

// NewClassifier creates a new Ollama classifier.
func NewClassifier(cfg Config) (*Classifier, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Classifier{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		prompts: cfg.Prompts,
	}, nil
}

// Classify analyzes a claim against the retrieved evidence and returns a
// verdict. With no evidence the claim is unverifiable, so an INSUFFICIENT
// verdict is returned without calling the API.
func (c *Classifier) Classify(ctx context.Context, claim string, evidence []domain.EvidenceItem) (*domain.Verdict, error) {
	if len(evidence) == 0 {
		return classifier.InsufficientVerdict(), nil
	}

	prompt := classifier.BuildPrompt(c.prompts, claim, evidence)

	jsonBody, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Format: "json",
		Stream: false,
		Options: chatOptions{
			Temperature: DefaultTemperature,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/api/chat",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send request: %v", domain.ErrClassification, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrClassification, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: ollama error (status %d): %s", domain.ErrClassification, resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrClassification, err)
	}
	if chatResp.Error != "" {
		return nil, fmt.Errorf("%w: ollama error: %s", domain.ErrClassification, chatResp.Error)
	}

	return classifier.ParseVerdict(chatResp.Message.Content, evidence)
}

// ModelName returns the name of the chat model being used.
func (c *Classifier) ModelName() string {
	return c.model
}

// Ping validates Ollama is reachable by checking the /api/tags endpoint.
func (c *Classifier) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("ollama: failed to create ping request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama: ping failed with status %d", resp.StatusCode)
	}
	return nil
}

// Close releases resources. The HTTP client needs no explicit cleanup.
func (c *Classifier) Close() error {
	return nil
}
