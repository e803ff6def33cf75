// Package module wires the settings service and exposes its ports
package module

import (
	"net/http"

	modkit "lexflow/internal/modkit"
	"lexflow/internal/modkit/httpkit"
	str "lexflow/internal/platform/strings"

	"lexflow/internal/services/settings/domain"
	shttp "lexflow/internal/services/settings/http"
	"lexflow/internal/services/settings/service"
)

// Ports holds the ports exposed by the settings module
type Ports struct {
	Credentials domain.CredentialsPort
}

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	ports Ports
}

// New constructs the settings module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("settings"),
		modkit.WithPrefix("/settings"),
	}, opts...)...)

	svc := service.New(deps)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		ports:     Ports{Credentials: svc},
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		shttp.Register(r, svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes implements the modkit.Module interface
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
func (m *Module) Ports() any { return m.ports }

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.name, "settings") }

// Prefix returns the mount prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }
