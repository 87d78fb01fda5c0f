package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

type config struct {
	Address         string        `help:"Address the HTTP server listens on" default:":3000" env:"ADDRESS"`
	ReadTimeout     time.Duration `help:"Maximum time to read a request" default:"15s" env:"READ_TIMEOUT"`
	IdleTimeout     time.Duration `help:"Keep-alive idle timeout" default:"120s" env:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `help:"Grace period for in-flight requests on shutdown" default:"10s"`
	AllowedOrigin   string        `help:"Browser origin allowed to call the API cross-origin" env:"ALLOWED_ORIGIN"`
	LogLevel        string        `help:"Log level" enum:"debug,info,warn,error" default:"info" env:"LOG_LEVEL"`
	LogFormat       string        `help:"Log format" enum:"text,json" default:"text" env:"LOG_FORMAT"`

	// Providers
	Embedder  string `help:"Embedding provider" enum:"openai,google" default:"openai" env:"EMBEDDER"`
	Generator string `help:"Completion provider" enum:"openai,anthropic,google" default:"openai" env:"GENERATOR"`
	Storer    string `help:"Vector index" enum:"pinecone,qdrant,postgres" default:"pinecone" env:"STORER"`

	// Keys
	OpenAIKey    string `help:"OpenAI API key" env:"OPENAI_API_KEY"`
	AnthropicKey string `help:"Anthropic API key" env:"ANTHROPIC_API_KEY"`
	GeminiKey    string `help:"Gemini API key" env:"GEMINI_API_KEY"`
	PineconeKey  string `help:"Pinecone API key" env:"PINECONE_API_KEY"`
	QdrantKey    string `help:"Qdrant API key" env:"QDRANT_API_KEY"`

	// Models
	EmbeddingModel string `help:"Embedding model, provider default when empty" env:"EMBEDDING_MODEL"`
	ChatModel      string `help:"Chat model, provider default when empty" env:"CHAT_MODEL"`
	MaxTokens      int    `help:"Completion token limit for providers that require one" default:"1024"`

	// Index
	Index        string        `help:"Index, collection or table holding the reviews" default:"rag" env:"INDEX_NAME"`
	Namespace    string        `help:"Pinecone namespace" default:"ns1" env:"INDEX_NAMESPACE"`
	IndexTimeout time.Duration `help:"Timeout for one index query" default:"15s" env:"INDEX_TIMEOUT"`
	QdrantURL    string        `help:"Qdrant base URL" default:"http://localhost:6333" env:"QDRANT_URL"`
	PostgresDSN  string        `help:"Postgres DSN for the pgvector index" env:"POSTGRES_DSN"`

	SystemPromptFile string `help:"File holding a replacement system prompt" type:"path" env:"SYSTEM_PROMPT_FILE"`
}

// validate reports every credential missing for the selected providers.
func (c *config) validate() error {
	need := func(value, name, provider string) error {
		if len(strings.TrimSpace(value)) == 0 {
			return fmt.Errorf("%s is required for %s", name, provider)
		}
		return nil
	}

	var errs []error

	switch c.Embedder {
	case "openai":
		errs = append(errs, need(c.OpenAIKey, "OPENAI_API_KEY", "the openai embedder"))
	case "google":
		errs = append(errs, need(c.GeminiKey, "GEMINI_API_KEY", "the google embedder"))
	}

	switch c.Generator {
	case "openai":
		errs = append(errs, need(c.OpenAIKey, "OPENAI_API_KEY", "the openai generator"))
	case "anthropic":
		errs = append(errs, need(c.AnthropicKey, "ANTHROPIC_API_KEY", "the anthropic generator"))
	case "google":
		errs = append(errs, need(c.GeminiKey, "GEMINI_API_KEY", "the google generator"))
	}

	switch c.Storer {
	case "pinecone":
		errs = append(errs, need(c.PineconeKey, "PINECONE_API_KEY", "the pinecone index"))
	case "postgres":
		errs = append(errs, need(c.PostgresDSN, "POSTGRES_DSN", "the postgres index"))
	}

	return errors.Join(errs...)
}

func (c *config) systemPrompt() (string, error) {
	if len(c.SystemPromptFile) == 0 {
		return "", nil
	}

	bs, err := os.ReadFile(c.SystemPromptFile)
	if err != nil {
		return "", fmt.Errorf("read system prompt: %w", err)
	}

	return string(bs), nil
}

func newLogger(levelStr string, format string) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
