package provider

import (
	"fmt"
	"sync"
)

// EmbeddingFactory creates an EmbeddingProvider from configuration.
type EmbeddingFactory func(config EmbeddingConfig) (EmbeddingProvider, error)

// ExecutorFactory creates an Executor from configuration.
type ExecutorFactory func(config ExecutorConfig) (Executor, error)

// Registry holds factories for all provider types.
type Registry struct {
	mu sync.RWMutex

	embeddingFactories map[string]EmbeddingFactory
	executorFactories  map[string]ExecutorFactory
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		embeddingFactories: make(map[string]EmbeddingFactory),
		executorFactories:  make(map[string]ExecutorFactory),
	}
}

// RegisterEmbedding registers an embedding provider factory.
func (r *Registry) RegisterEmbedding(name string, factory EmbeddingFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.embeddingFactories[name] = factory
}

// RegisterExecutor registers an executor factory.
func (r *Registry) RegisterExecutor(name string, factory ExecutorFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executorFactories[name] = factory
}

// CreateEmbedding creates an embedding provider by name.
func (r *Registry) CreateEmbedding(name string, config EmbeddingConfig) (EmbeddingProvider, error) {
	r.mu.RLock()
	factory, ok := r.embeddingFactories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown embedding provider: %s (available: %v)", name, r.ListEmbeddings())
	}
	return factory(config)
}

// CreateExecutor creates an executor by name.
func (r *Registry) CreateExecutor(name string, config ExecutorConfig) (Executor, error) {
	r.mu.RLock()
	factory, ok := r.executorFactories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown executor: %s (available: %v)", name, r.ListExecutors())
	}
	return factory(config)
}

// ListEmbeddings returns all registered embedding provider names.
func (r *Registry) ListEmbeddings() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.embeddingFactories))
	for name := range r.embeddingFactories {
		names = append(names, name)
	}
	return names
}

// ListExecutors returns all registered executor names.
func (r *Registry) ListExecutors() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.executorFactories))
	for name := range r.executorFactories {
		names = append(names, name)
	}
	return names
}

// HasEmbedding checks if an embedding provider is registered.
func (r *Registry) HasEmbedding(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.embeddingFactories[name]
	return ok
}

// HasExecutor checks if an executor is registered.
func (r *Registry) HasExecutor(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.executorFactories[name]
	return ok
}

// DefaultRegistry is the global default registry.
var DefaultRegistry = NewRegistry()

// Register functions for the default registry.

// RegisterEmbedding registers an embedding provider in the default registry.
func RegisterEmbedding(name string, factory EmbeddingFactory) {
	DefaultRegistry.RegisterEmbedding(name, factory)
}

// RegisterExecutor registers an executor in the default registry.
func RegisterExecutor(name string, factory ExecutorFactory) {
	DefaultRegistry.RegisterExecutor(name, factory)
}
