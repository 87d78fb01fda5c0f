package main

import (
	"context"
	"net/http"

	"github.com/w-h-a/ratemyprof/embedder"
	googleembedder "github.com/w-h-a/ratemyprof/embedder/google"
	openaiembedder "github.com/w-h-a/ratemyprof/embedder/openai"
	"github.com/w-h-a/ratemyprof/generator"
	anthropicgenerator "github.com/w-h-a/ratemyprof/generator/anthropic"
	googlegenerator "github.com/w-h-a/ratemyprof/generator/google"
	openaigenerator "github.com/w-h-a/ratemyprof/generator/openai"
	"github.com/w-h-a/ratemyprof/storer"
	"github.com/w-h-a/ratemyprof/storer/pinecone"
	"github.com/w-h-a/ratemyprof/storer/postgres"
	"github.com/w-h-a/ratemyprof/storer/qdrant"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// tracedClient has no overall timeout; completions stream until the model stops.
func tracedClient() *http.Client {
	return &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
}

func newEmbedder(c *config) embedder.Embedder {
	switch c.Embedder {
	case "google":
		return googleembedder.NewEmbedder(
			embedder.WithApiKey(c.GeminiKey),
			embedder.WithModel(c.EmbeddingModel),
			embedder.WithHTTPClient(tracedClient()),
		)
	default:
		return openaiembedder.NewEmbedder(
			embedder.WithApiKey(c.OpenAIKey),
			embedder.WithModel(c.EmbeddingModel),
			embedder.WithHTTPClient(tracedClient()),
		)
	}
}

func newGenerator(c *config) generator.Generator {
	switch c.Generator {
	case "anthropic":
		return anthropicgenerator.NewGenerator(
			generator.WithApiKey(c.AnthropicKey),
			generator.WithModel(c.ChatModel),
			generator.WithMaxTokens(c.MaxTokens),
			generator.WithHTTPClient(tracedClient()),
		)
	case "google":
		return googlegenerator.NewGenerator(
			generator.WithApiKey(c.GeminiKey),
			generator.WithModel(c.ChatModel),
			generator.WithMaxTokens(c.MaxTokens),
			generator.WithHTTPClient(tracedClient()),
		)
	default:
		return openaigenerator.NewGenerator(
			generator.WithApiKey(c.OpenAIKey),
			generator.WithModel(c.ChatModel),
			generator.WithHTTPClient(tracedClient()),
		)
	}
}

func newStorer(ctx context.Context, c *config) storer.Storer {
	switch c.Storer {
	case "qdrant":
		return qdrant.NewStorer(
			storer.WithContext(ctx),
			storer.WithTimeout(c.IndexTimeout),
			storer.WithLocation(c.QdrantURL),
			storer.WithApiKey(c.QdrantKey),
			storer.WithCollection(c.Index),
		)
	case "postgres":
		return postgres.NewStorer(
			storer.WithContext(ctx),
			storer.WithTimeout(c.IndexTimeout),
			storer.WithLocation(c.PostgresDSN),
			storer.WithCollection(c.Index),
		)
	default:
		return pinecone.NewStorer(
			storer.WithContext(ctx),
			storer.WithTimeout(c.IndexTimeout),
			storer.WithApiKey(c.PineconeKey),
			storer.WithCollection(c.Index),
			storer.WithNamespace(c.Namespace),
		)
	}
}
