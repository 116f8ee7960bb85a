// Package provider defines interfaces for pluggable components.
package provider

import (
	"context"
)

// EmbeddingProvider generates vector embeddings from text.
type EmbeddingProvider interface {
	// Name returns the provider name (e.g., "bedrock", "openai").
	Name() string

	// Embed generates embeddings for the given texts.
	// Returns a slice of embeddings, one for each input text.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding dimension size.
	Dimensions() int

	// Warmup verifies the provider is reachable by embedding a probe text.
	Warmup(ctx context.Context) error

	// Close releases any resources.
	Close() error
}

// EmbeddingConfig contains configuration for embedding providers.
type EmbeddingConfig struct {
	Provider        string // "bedrock", "openai"
	Model           string // Model name (e.g., amazon.titan-embed-text-v2:0)
	Region          string // AWS region (for Bedrock)
	AccessKeyID     string // AWS access key (for Bedrock; empty uses default chain)
	SecretAccessKey string // AWS secret key (for Bedrock)
	Endpoint        string // API endpoint override (for OpenAI-compatible servers)
	APIKey          string // API key (for OpenAI)
	Dimensions      int    // Expected dimension, 0 for model default
	BatchSize       int    // Texts per batch
}
