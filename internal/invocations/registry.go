package invocations

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Factory builds an invocation from raw JSON parameters, validating
// them in the process
type Factory func(params json.RawMessage) (Invocation, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// register adds a factory for a type tag. Called from package init
// functions; duplicate registrations are a programming error.
func register(typeTag string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[typeTag]; exists {
		panic(fmt.Sprintf("invocation type %q registered twice", typeTag))
	}
	registry[typeTag] = factory
}

// New constructs a validated invocation for the given type tag
func New(typeTag string, params json.RawMessage) (Invocation, error) {
	registryMu.RLock()
	factory, ok := registry[typeTag]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typeTag)
	}

	return factory(params)
}

// Types returns all registered type tags, sorted
func Types() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	types := make([]string, 0, len(registry))
	for typeTag := range registry {
		types = append(types, typeTag)
	}
	sort.Strings(types)
	return types
}
