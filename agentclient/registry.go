package agentclient

import "sync"

// Provider builds a Client for a named backend (e.g. "anthropic", "ollama").
// Registered providers let the container select a backend by configuration
// name without the core importing any concrete HTTP client.
type Provider interface {
	Name() string
	Build(baseURL, apiKey string) Client
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Provider)
)

// RegisterProvider adds a provider to the registry.
func RegisterProvider(p Provider) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[p.Name()] = p
}

// GetProvider retrieves a provider by name.
func GetProvider(name string) Provider {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[name]
}

// ListProviders returns all registered provider names.
func ListProviders() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
