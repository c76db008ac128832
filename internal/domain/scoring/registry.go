package scoring

import (
	"fmt"
	"slices"
	"sync"
)

// Registry holds the rule tables the service may score with.
type Registry struct {
	mu       sync.RWMutex
	rules    map[string]Rules
	fallback string
}

func NewRegistry(fallback Rules, others ...Rules) (*Registry, error) {
	r := &Registry{rules: make(map[string]Rules), fallback: fallback.Version}
	for _, rules := range append([]Rules{fallback}, others...) {
		if err := r.Register(rules); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DefaultRegistry knows every built-in table and falls back to DefaultRules.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultRules(), ODIRules())
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Register(rules Rules) error {
	if err := rules.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[rules.Version] = rules.Clone()
	return nil
}

// Lookup returns the table for version, or the fallback table when version
// is empty.
func (r *Registry) Lookup(version string) (Rules, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if version == "" {
		version = r.fallback
	}
	rules, ok := r.rules[version]
	if !ok {
		return Rules{}, fmt.Errorf("%w: %s", ErrUnknownRuleSet, version)
	}
	return rules.Clone(), nil
}

func (r *Registry) Versions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.rules))
	for version := range r.rules {
		out = append(out, version)
	}
	slices.Sort(out)
	return out
}

func (r *Registry) Fallback() string {
	return r.fallback
}
