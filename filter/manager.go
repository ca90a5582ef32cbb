package filter

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/s0up4200/wxapis/node"
)

// Manager keeps named filters and applies them to state-change records
type Manager struct {
	compiler Compiler
	filters  map[string]CompiledFilter
	mu       sync.RWMutex
}

// ManagerOption configures a filter manager
type ManagerOption func(*Manager)

// WithCompiler sets a custom compiler
func WithCompiler(compiler Compiler) ManagerOption {
	return func(m *Manager) {
		m.compiler = compiler
	}
}

// NewManager creates a new filter manager
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		compiler: NewExprCompiler(WithCache(100)),
		filters:  make(map[string]CompiledFilter),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// RegisterFilters compiles and registers filters by name.
// Nothing is registered unless every expression compiles.
func (m *Manager) RegisterFilters(filters map[string]string) error {
	compiled := make(map[string]CompiledFilter, len(filters))

	for name, expression := range filters {
		filter, err := m.compiler.Compile(expression)
		if err != nil {
			return fmt.Errorf("failed to compile filter '%s': %w", name, err)
		}
		compiled[name] = filter
	}

	m.mu.Lock()
	maps.Copy(m.filters, compiled)
	m.mu.Unlock()

	return nil
}

// GetFilter returns a compiled filter by name
func (m *Manager) GetFilter(name string) (CompiledFilter, bool) {
	m.mu.RLock()
	filter, exists := m.filters[name]
	m.mu.RUnlock()
	return filter, exists
}

// ListFilters returns all registered filter names, sorted
func (m *Manager) ListFilters() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var names []string
	for name := range m.filters {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Resolve returns the registered filter called nameOrExpression, or compiles it as an expression.
func (m *Manager) Resolve(nameOrExpression string) (CompiledFilter, error) {
	if filter, ok := m.GetFilter(nameOrExpression); ok {
		return filter, nil
	}
	return m.compiler.Compile(nameOrExpression)
}

// Select returns the records matching filter, keeping their order.
// Evaluation stops at the first error or when ctx is done.
func (m *Manager) Select(ctx context.Context, filter Filter, records []node.StateChanges) ([]node.StateChanges, error) {
	matched := make([]node.StateChanges, 0, len(records))
	for _, sc := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ok, err := filter.Match(sc)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, sc)
		}
	}
	return matched, nil
}
