package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/fivetwenty-io/hashrateindex-client/pkg/hashrateindex"
)

// legacyPrefix is accepted in front of operation names so method-style
// names such as "get_hashprice" resolve to "hashprice".
const legacyPrefix = "get_"

// Registry stores a mapping of operation names to values.
type Registry[V any] struct {
	mu      sync.RWMutex
	entries map[string]V
}

// NewRegistry allocates an empty registry.
func NewRegistry[V any]() *Registry[V] {
	return &Registry[V]{entries: make(map[string]V)}
}

// Register adds a value by name. Names are case-insensitive.
func (r *Registry[V]) Register(name string, value V) error {
	key := normalize(name)
	if key == "" {
		return fmt.Errorf("%w: operation name required", hashrateindex.ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[key]; exists {
		return fmt.Errorf("%w: %s", hashrateindex.ErrDuplicateOperation, name)
	}

	r.entries[key] = value

	return nil
}

// Get fetches a value by name.
func (r *Registry[V]) Get(name string) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.entries[normalize(name)]

	return value, ok
}

// Names returns the sorted registered keys.
func (r *Registry[V]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func normalize(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))

	return strings.TrimPrefix(key, legacyPrefix)
}
