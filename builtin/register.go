// Package builtin registers all built-in providers with the default registry.
package builtin

import (
	"context"

	bedrockEmbed "github.com/spetr/homequery/builtin/embedding/bedrock"
	openaiEmbed "github.com/spetr/homequery/builtin/embedding/openai"
	"github.com/spetr/homequery/builtin/executor/direct"
	"github.com/spetr/homequery/builtin/executor/mcpbridge"
	"github.com/spetr/homequery/builtin/executor/simulated"
	"github.com/spetr/homequery/pkg/provider"
)

func init() {
	// Register embedding providers
	provider.RegisterEmbedding("bedrock", func(cfg provider.EmbeddingConfig) (provider.EmbeddingProvider, error) {
		return bedrockEmbed.New(context.Background(), bedrockEmbed.Config{
			Model:           cfg.Model,
			Region:          cfg.Region,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			Dimensions:      cfg.Dimensions,
		})
	})

	provider.RegisterEmbedding("openai", func(cfg provider.EmbeddingConfig) (provider.EmbeddingProvider, error) {
		return openaiEmbed.New(openaiEmbed.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.Endpoint,
			Model:      cfg.Model,
			BatchSize:  cfg.BatchSize,
			Dimensions: cfg.Dimensions,
		}), nil
	})

	// Register SQL executors
	provider.RegisterExecutor("direct", func(cfg provider.ExecutorConfig) (provider.Executor, error) {
		return direct.New(cfg)
	})

	provider.RegisterExecutor("mcpbridge", func(cfg provider.ExecutorConfig) (provider.Executor, error) {
		return mcpbridge.New(cfg)
	})

	provider.RegisterExecutor("simulated", func(cfg provider.ExecutorConfig) (provider.Executor, error) {
		return simulated.New(), nil
	})
}
