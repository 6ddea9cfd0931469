package factory

import (
	"sort"
	"sync"

	"github.com/mikey/moodiary/internal/core"
)

// ProviderRegistry resolves LLM providers by their configured name
type ProviderRegistry struct {
	mu        sync.RWMutex
	providers map[string]core.LLMProvider
}

// NewProviderRegistry creates a registry holding providers
func NewProviderRegistry(providers ...core.LLMProvider) *ProviderRegistry {
	r := &ProviderRegistry{providers: make(map[string]core.LLMProvider, len(providers))}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds or replaces a provider
func (r *ProviderRegistry) Register(p core.LLMProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Provider returns the provider registered under name
func (r *ProviderRegistry) Provider(name string) (core.LLMProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

// Names returns the registered provider names in order
func (r *ProviderRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
