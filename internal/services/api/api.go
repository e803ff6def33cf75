// Package api provides the HTTP API for the application
package api

import (
	"lexflow/internal/platform/config"
	"lexflow/internal/platform/logger"
	phttp "lexflow/internal/platform/net/http"
	"lexflow/internal/platform/store"

	"lexflow/internal/modkit"
	"lexflow/internal/modkit/httpkit"
	"lexflow/internal/modkit/module"
	"lexflow/internal/modkit/swaggerkit"

	metamod "lexflow/internal/services/api/meta/module"
	pubsmod "lexflow/internal/services/publications/module"
	settingsmod "lexflow/internal/services/settings/module"
	tasksmod "lexflow/internal/services/tasks/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
	}

	// Port providers first: settings owns the OAB credential, tasks owns
	// the publication-to-task converter
	settings := settingsmod.New(deps)
	creds := module.MustPortsOf[settingsmod.Ports](settings).Credentials

	tasks := tasksmod.New(deps)
	conv := module.MustPortsOf[tasksmod.Ports](tasks).Converter

	// Publications consumes both ports
	pubs := pubsmod.New(
		deps,
		modkit.WithPorts(pubsmod.Ports{
			Credentials: creds,
			Converter:   conv,
		}),
	)

	mods := []module.Module{
		metamod.New(deps),
		settings,
		tasks, // routeless; registered so its port stays discoverable
		pubs,
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
