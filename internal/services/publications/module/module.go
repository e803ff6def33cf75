// Package module wires the publications service into HTTP via modkit
package module

import (
	"net/http"

	modkit "lexflow/internal/modkit"
	"lexflow/internal/modkit/httpkit"
	str "lexflow/internal/platform/strings"

	pubhttp "lexflow/internal/services/publications/http"
	"lexflow/internal/services/publications/service"
	setdom "lexflow/internal/services/settings/domain"
	taskdom "lexflow/internal/services/tasks/domain"
)

// Ports declares the cross-module ports this module consumes
type Ports struct {
	Credentials setdom.CredentialsPort
	Converter   taskdom.ConverterPort
}

// Module implements the publications module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc *service.Svc
}

// New constructs the publications module
// requires Credentials and Converter ports via modkit.WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("publications"),
		modkit.WithPrefix("/publications"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Credentials == nil {
		panic("publications module requires Credentials port (from services/settings)")
	}
	if injected.Converter == nil {
		panic("publications module requires Converter port (from services/tasks)")
	}

	cfg := FromConfig(deps.Cfg)
	svc := service.New(deps, cfg, injected.Credentials)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		pubhttp.Register(r, m.svc, injected.Converter)
		if external != nil {
			external(r)
		}
	}
	return m
}

// Service exposes the concrete service for non-HTTP callers (one-shot sync runs)
func (m *Module) Service() service.Service { return m.svc }

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Ports returns the module ports
func (m *Module) Ports() any { return nil }

// Name is the module name
func (m *Module) Name() string { return str.MustString(m.name, "publications") }

// Prefix is the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }
