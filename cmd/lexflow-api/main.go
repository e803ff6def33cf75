// @title         Lexflow API
// @version       0.1.0
// @description   Court publication acquisition, storage, and task conversion

package main

import (
	"context"

	"lexflow/internal/platform/config"
	"lexflow/internal/platform/logger"
	phttp "lexflow/internal/platform/net/http"
	"lexflow/internal/platform/store"

	"lexflow/internal/services/api"
	pubrepo "lexflow/internal/services/publications/repo"
	setrepo "lexflow/internal/services/settings/repo"
	taskrepo "lexflow/internal/services/tasks/repo"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_") // pgCfg lives under SERVICE_PGSQL_*

	// bring up logging early
	l := logger.Get()

	st, err := store.Open(
		context.Background(),
		store.Config{
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			},
		},
		store.WithLogger(*l),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// schema bootstrap; tasks last since deals references publications
	ctx := context.Background()
	if err := pubrepo.EnsureSchema(ctx, st.PG); err != nil {
		l.Panic().Err(err).Msg("publications schema bootstrap failed")
	}
	if err := taskrepo.EnsureSchema(ctx, st.PG); err != nil {
		l.Panic().Err(err).Msg("tasks schema bootstrap failed")
	}
	if err := setrepo.EnsureSchema(ctx, st.PG); err != nil {
		l.Panic().Err(err).Msg("settings schema bootstrap failed")
	}

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", true),
		},
	)

	// run
	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
