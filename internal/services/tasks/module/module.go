// Package module wires the tasks service and exposes its converter port
package module

import (
	"lexflow/internal/modkit"
	"lexflow/internal/modkit/httpkit"

	dom "lexflow/internal/services/tasks/domain"
	"lexflow/internal/services/tasks/service"
)

// Ports holds the ports exposed by the tasks module
type Ports struct {
	Converter dom.ConverterPort
}

// Module defines the tasks module; it has no routes of its own and is
// reached through the publications API
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the tasks module
func New(deps modkit.Deps) *Module {
	svc := service.New(deps)

	m := &Module{deps: deps}
	m.ports = Ports{Converter: svc}
	return m
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "tasks" }

// Prefix returns the module mount prefix (none; no HTTP surface)
func (m *Module) Prefix() string { return "" }

// MountRoutes registers no routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
