// Command lexflow-sync runs one portal acquisition pass from the terminal
// the operator completes the SSO login in the opened browser window
package main

import (
	"context"
	"flag"
	"time"

	"lexflow/internal/modkit"
	"lexflow/internal/modkit/module"
	"lexflow/internal/platform/config"
	"lexflow/internal/platform/logger"
	"lexflow/internal/platform/store"

	pubdom "lexflow/internal/services/publications/domain"
	pubsmod "lexflow/internal/services/publications/module"
	pubrepo "lexflow/internal/services/publications/repo"
	settingsmod "lexflow/internal/services/settings/module"
	setrepo "lexflow/internal/services/settings/repo"
	tasksmod "lexflow/internal/services/tasks/module"
	taskrepo "lexflow/internal/services/tasks/repo"
)

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")

	l := logger.Get()

	var (
		fStart = flag.String("start", "", "window start YYYY-MM-DD (default today)")
		fEnd   = flag.String("end", "", "window end YYYY-MM-DD (default today)")
	)
	flag.Parse()

	today := time.Now().Format("2006-01-02")
	if *fStart == "" {
		*fStart = today
	}
	if *fEnd == "" {
		*fEnd = today
	}

	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", true),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

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

	deps := modkit.Deps{Cfg: root, PG: st.PG}

	settings := settingsmod.New(deps)
	creds := module.MustPortsOf[settingsmod.Ports](settings).Credentials

	tasks := tasksmod.New(deps)
	conv := module.MustPortsOf[tasksmod.Ports](tasks).Converter

	pubs := pubsmod.New(deps, modkit.WithPorts(pubsmod.Ports{
		Credentials: creds,
		Converter:   conv,
	}))

	rep, err := pubs.Service().Sync(ctx, pubdom.SyncRequest{
		StartDate: *fStart,
		EndDate:   *fEnd,
	})
	if err != nil {
		l.Fatal().Err(err).Msg("sync run failed")
	}

	l.Info().
		Str("run_id", rep.RunID).
		Int("considered", rep.Considered).
		Int("inserted", rep.Inserted).
		Msg("sync run finished")
}
