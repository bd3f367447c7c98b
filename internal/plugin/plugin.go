// Package plugin defines the chat plugin interface and registry.
package plugin

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound reports a lookup that succeeded at the transport level but
// carried no usable payload, e.g. a dictionary entry with no definition.
var ErrNotFound = errors.New("not found")

// Plugin is any capability the dispatcher can invoke for a slash command.
type Plugin interface {
	// Name returns the plugin name (e.g. "weather", "calc", "define").
	Name() string

	// Run executes the plugin with the given argument.
	Run(ctx context.Context, arg string) (*Result, error)
}

// Result is the outcome of a plugin invocation.
type Result struct {
	// Content is the user-facing reply text.
	Content string
	// Data is the raw payload from the plugin source, kept alongside the
	// message for rendering or inspection.
	Data json.RawMessage
}

// Registry holds available plugins.
type Registry struct {
	plugins map[string]Plugin
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		plugins: make(map[string]Plugin),
	}
}

// Register adds a plugin to the registry.
func (r *Registry) Register(p Plugin) {
	r.plugins[p.Name()] = p
}

// Get retrieves a plugin by name.
func (r *Registry) Get(name string) (Plugin, bool) {
	p, ok := r.plugins[name]
	return p, ok
}
