package connector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var ErrProviderNotRegistered = errors.New("connector: provider not registered")

var globalManager = &Manager{
	providers: make(map[string]Provider),
}

// Manager maps driver names to providers.
type Manager struct {
	providers map[string]Provider
	mu        sync.RWMutex
}

// Register makes provider available under name. A later registration under
// the same name replaces the earlier one.
func Register(name string, provider Provider) {
	globalManager.mu.Lock()
	defer globalManager.mu.Unlock()
	globalManager.providers[name] = provider
}

// Lookup returns the provider registered under name.
func Lookup(name string) (Provider, bool) {
	globalManager.mu.RLock()
	defer globalManager.mu.RUnlock()
	p, ok := globalManager.providers[name]
	return p, ok
}

// Providers lists the registered names in lexical order.
func Providers() []string {
	globalManager.mu.RLock()
	defer globalManager.mu.RUnlock()
	names := make([]string, 0, len(globalManager.providers))
	for name := range globalManager.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open connects through the provider registered under name. ConnectTimeout
// bounds all attempts together, and Retry enables backoff between them.
func Open(ctx context.Context, name string, config Config) (Connection, error) {
	provider, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotRegistered, name)
	}

	if config.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.ConnectTimeout)
		defer cancel()
	}

	if config.Retry == nil {
		return provider.Connect(ctx, config)
	}
	conn, err := retryConnect(ctx, *config.Retry, func(ctx context.Context) (Connection, error) {
		return provider.Connect(ctx, config)
	})
	if err != nil {
		return nil, fmt.Errorf("connector: %s: failed after %d retries: %w", name, config.Retry.MaxRetries, err)
	}
	return conn, nil
}
