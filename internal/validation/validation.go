// Package validation wires the rule registry, rule library, and engine
// into a process-wide default validator.
package validation

import (
	"sync"

	"github.com/mechforge/mechforge/internal/validation/engine"
	"github.com/mechforge/mechforge/internal/validation/rule"
	"github.com/mechforge/mechforge/internal/validation/rules"
)

// Global engine instance and initialization guard.
var (
	globalEngine   *engine.Engine
	globalRegistry *rule.Registry
	globalOnce     sync.Once
)

// Default returns the singleton validation engine, backed by a registry
// preloaded with the standard construction rule library.
// Creates the default engine on first call if not already initialized.
func Default() *engine.Engine {
	globalOnce.Do(initDefault)
	return globalEngine
}

// DefaultRegistry returns the registry behind the singleton engine so
// callers can register additional rules or toggle existing ones.
func DefaultRegistry() *rule.Registry {
	globalOnce.Do(initDefault)
	return globalRegistry
}

// Init initializes the global engine with a custom registry.
// Must be called before any call to Default() to take effect.
// Safe for concurrent use but only the first call has any effect.
func Init(r *rule.Registry) {
	globalOnce.Do(func() {
		globalRegistry = r
		globalEngine = engine.New(r)
	})
}

// Reset resets the global engine for testing purposes.
// This is NOT thread-safe and should only be used in tests.
func Reset() {
	globalOnce = sync.Once{}
	globalEngine = nil
	globalRegistry = nil
}

func initDefault() {
	globalRegistry = rule.NewRegistry()
	if err := rules.RegisterAll(globalRegistry); err != nil {
		// The built-in library registers against a fresh registry; a
		// failure here is a programming error.
		panic(err)
	}
	globalEngine = engine.New(globalRegistry)
}
