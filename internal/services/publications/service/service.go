// Package service implements the publication store and the sync pipeline
package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"lexflow/internal/modkit"
	"lexflow/internal/modkit/repokit"
	perr "lexflow/internal/platform/errors"
	"lexflow/internal/platform/logger"

	"lexflow/internal/adapters/portal"
	"lexflow/internal/services/publications/domain"
	prepo "lexflow/internal/services/publications/repo"
	setdom "lexflow/internal/services/settings/domain"
)

// Fetcher acquires raw notices from the portal for one run
type Fetcher interface {
	Fetch(ctx context.Context) ([]portal.RawNotice, error)
}

// FetcherFactory builds a fresh Fetcher per run; each run owns its browser
type FetcherFactory func() Fetcher

// Service is the publications surface consumed by HTTP
type Service interface {
	Sync(ctx context.Context, req domain.SyncRequest) (domain.SyncReport, error)
	List(ctx context.Context, q domain.ListQuery) ([]domain.Publication, error)
	Get(ctx context.Context, id int64) (domain.Publication, error)
	MarkProcessed(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// Config controls the sync pipeline
type Config struct {
	Portal portal.Config
	// StateDir holds the persisted portal session snapshot
	StateDir string
}

// Svc implements Service
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[prepo.Repo]
	repo   prepo.Repo

	creds      setdom.CredentialsPort
	newFetcher FetcherFactory

	// run serializes ingestion; TryLock keeps concurrent triggers cheap
	run sync.Mutex
	log logger.Logger
}

// New constructs the service with the real portal fetcher
func New(deps modkit.Deps, cfg Config, creds setdom.CredentialsPort) *Svc {
	b := prepo.NewPG()
	sessions := portal.NewSessionStore(cfg.StateDir)
	return &Svc{
		db:     deps.PG,
		binder: b,
		repo:   b.Bind(deps.PG),
		creds:  creds,
		newFetcher: func() Fetcher {
			return &portalFetcher{cfg: cfg.Portal, sessions: sessions}
		},
		log: *logger.Named("publications"),
	}
}

// newWith is the test seam
func newWith(
	db repokit.TxRunner,
	b repokit.Binder[prepo.Repo],
	creds setdom.CredentialsPort,
	nf FetcherFactory,
) *Svc {
	return &Svc{
		db:         db,
		binder:     b,
		repo:       b.Bind(db),
		creds:      creds,
		newFetcher: nf,
		log:        *logger.Named("publications"),
	}
}

// Sync runs one acquisition pass: resolve the search credential, drive the
// portal, and upsert the batch in a single transaction. Runs are single
// flight; a concurrent trigger is rejected rather than queued
func (s *Svc) Sync(ctx context.Context, req domain.SyncRequest) (domain.SyncReport, error) {
	if err := req.Validate(); err != nil {
		return domain.SyncReport{}, err
	}

	if !s.run.TryLock() {
		return domain.SyncReport{}, perr.Conflictf("a sync run is already in progress")
	}
	defer s.run.Unlock()

	// configuration must be usable before any browser resource is opened
	cred, err := s.creds.ResolveOAB(ctx)
	if err != nil {
		return domain.SyncReport{}, err
	}

	runID := uuid.NewString()
	log := s.log.With().
		Str("run_id", runID).
		Str("start", req.StartDate).
		Str("end", req.EndDate).
		Str("oab", cred.Number+"/"+cred.State).
		Logger()
	log.Info().Msg("sync run starting")

	notices, err := s.newFetcher().Fetch(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("portal acquisition failed")
		return domain.SyncReport{}, gatewayErr(err)
	}

	pubs := make([]domain.Publication, 0, len(notices))
	for _, n := range notices {
		pubs = append(pubs, domain.FromRawNotice(n))
	}

	inserted := 0
	err = repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		n, err := s.binder.Bind(q).InsertIgnoreDuplicates(ctx, pubs)
		inserted = n
		return err
	})
	if err != nil {
		return domain.SyncReport{}, perr.Wrap(err, perr.ErrorCodeDB, "publication batch write failed")
	}

	log.Info().Int("considered", len(pubs)).Int("inserted", inserted).Msg("sync run complete")
	return domain.SyncReport{
		RunID:      runID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Considered: len(pubs),
		Inserted:   inserted,
	}, nil
}

// gatewayErr keeps portal error codes that already map to a client-facing
// status and folds everything else into the generic upstream failure
func gatewayErr(err error) error {
	switch perr.CodeOf(err) {
	case perr.ErrorCodeAuthTimeout, perr.ErrorCodeSessionAborted, perr.ErrorCodeNavigation, perr.ErrorCodeGateway:
		return err
	default:
		return perr.Wrap(err, perr.ErrorCodeGateway, "portal acquisition failed")
	}
}

// List returns stored publications newest first
func (s *Svc) List(ctx context.Context, q domain.ListQuery) ([]domain.Publication, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	out, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "publication list failed")
	}
	return out, nil
}

// Get returns one publication by id
func (s *Svc) Get(ctx context.Context, id int64) (domain.Publication, error) {
	p, found, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Publication{}, perr.Wrap(err, perr.ErrorCodeDB, "publication read failed")
	}
	if !found {
		return domain.Publication{}, perr.NotFoundf("publication %d not found", id)
	}
	return p, nil
}

// MarkProcessed flips a publication to processed; already-processed rows are
// a no-op success so the operation stays idempotent
func (s *Svc) MarkProcessed(ctx context.Context, id int64) error {
	found, err := s.repo.MarkProcessed(ctx, id)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "publication update failed")
	}
	if !found {
		return perr.NotFoundf("publication %d not found", id)
	}
	return nil
}

// Delete removes a publication outright
func (s *Svc) Delete(ctx context.Context, id int64) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "publication delete failed")
	}
	if !found {
		return perr.NotFoundf("publication %d not found", id)
	}
	return nil
}
