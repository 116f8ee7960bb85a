// Package bedrock implements EmbeddingProvider using Amazon Bedrock's Titan
// text embedding models.
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/spetr/homequery/pkg/provider"
	"github.com/spetr/homequery/pkg/types"
)

// Default values
const (
	DefaultModel      = "amazon.titan-embed-text-v2:0"
	DefaultRegion     = "us-east-1"
	DefaultDimensions = 1024
)

// Model dimensions for known models
var modelDimensions = map[string]int{
	"amazon.titan-embed-text-v1":   1536,
	"amazon.titan-embed-text-v2:0": 1024,
	"amazon.titan-embed-image-v1":  1024,
	"cohere.embed-english-v3":      1024,
	"cohere.embed-multilingual-v3": 1024,
}

// Config contains Bedrock provider configuration.
type Config struct {
	Model           string
	Region          string
	AccessKeyID     string // If empty, uses the default AWS credential chain
	SecretAccessKey string
	Dimensions      int // Set to 0 to use default for model
}

// Provider implements the EmbeddingProvider interface for Amazon Bedrock.
type Provider struct {
	config     Config
	client     *bedrockruntime.Client
	dimensions int
	mu         sync.RWMutex
}

// New creates a new Bedrock embedding provider. Static credentials from the
// config win over the default AWS credential chain.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	// Get dimensions for known models
	dimensions := cfg.Dimensions
	if dimensions == 0 {
		if d, ok := modelDimensions[cfg.Model]; ok {
			dimensions = d
		} else {
			dimensions = DefaultDimensions
		}
	}

	return &Provider{
		config:     cfg,
		client:     bedrockruntime.NewFromConfig(awsCfg),
		dimensions: dimensions,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "bedrock"
}

// titanRequest is the Titan text embedding request body.
type titanRequest struct {
	InputText  string `json:"inputText"`
	Dimensions int    `json:"dimensions,omitempty"`
}

// titanResponse is the Titan text embedding response body.
type titanResponse struct {
	Embedding           []float32 `json:"embedding"`
	InputTextTokenCount int       `json:"inputTextTokenCount"`
}

// Embed generates embeddings for the given texts. Titan models take one
// input per invocation, so texts are sent sequentially.
func (p *Provider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	results := make([][]float32, len(texts))
	for i, text := range texts {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		body, err := json.Marshal(p.requestFor(text))
		if err != nil {
			return nil, fmt.Errorf("encoding embedding request: %w", err)
		}

		out, err := p.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
			ModelId:     aws.String(p.config.Model),
			ContentType: aws.String("application/json"),
			Accept:      aws.String("application/json"),
			Body:        body,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: invoking %s: %v", types.ErrEmbeddingFailed, p.config.Model, err)
		}

		vec, err := parseTitanResponse(out.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrEmbeddingFailed, err)
		}
		results[i] = vec
	}

	// Track the dimensions the model actually returned
	if len(results[0]) > 0 {
		p.mu.Lock()
		p.dimensions = len(results[0])
		p.mu.Unlock()
	}

	return results, nil
}

// requestFor builds the model request. Only the v2 Titan family accepts an
// output dimensions override.
func (p *Provider) requestFor(text string) titanRequest {
	req := titanRequest{InputText: text}
	if p.config.Dimensions > 0 && strings.HasPrefix(p.config.Model, "amazon.titan-embed-text-v2") {
		req.Dimensions = p.config.Dimensions
	}
	return req
}

// parseTitanResponse extracts the embedding vector from a response body.
func parseTitanResponse(body []byte) ([]float32, error) {
	var resp titanResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding embedding response: %v", err)
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("response carries no embedding")
	}
	return resp.Embedding, nil
}

// Dimensions returns the embedding dimensions.
func (p *Provider) Dimensions() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dimensions
}

// Warmup tests model access with a minimal request.
func (p *Provider) Warmup(ctx context.Context) error {
	_, err := p.Embed(ctx, []string{"test"})
	return err
}

// Close releases resources.
func (p *Provider) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// Ensure Provider implements EmbeddingProvider interface
var _ provider.EmbeddingProvider = (*Provider)(nil)
