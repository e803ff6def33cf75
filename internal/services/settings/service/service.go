// Package service implements the office settings service
package service

import (
	"context"

	"lexflow/internal/modkit"
	perr "lexflow/internal/platform/errors"
	"lexflow/internal/platform/logger"

	"lexflow/internal/services/settings/domain"
	srepo "lexflow/internal/services/settings/repo"
)

// Service is the settings surface consumed by HTTP and by the sync pipeline
type Service interface {
	Get(ctx context.Context) (domain.OfficeSettings, error)
	Put(ctx context.Context, s domain.OfficeSettings) (domain.OfficeSettings, error)

	domain.CredentialsPort
}

// Svc implements Service over the Postgres repo
type Svc struct {
	repo srepo.Repo
	log  logger.Logger
}

// New constructs the service
func New(deps modkit.Deps) *Svc {
	return &Svc{
		repo: srepo.NewPG().Bind(deps.PG),
		log:  *logger.Named("settings"),
	}
}

// newWithRepo is the test seam
func newWithRepo(r srepo.Repo) *Svc {
	return &Svc{repo: r, log: *logger.Named("settings")}
}

// Get returns the office settings singleton
func (s *Svc) Get(ctx context.Context) (domain.OfficeSettings, error) {
	out, err := s.repo.Get(ctx)
	if err != nil {
		return domain.OfficeSettings{}, perr.Wrap(err, perr.ErrorCodeDB, "settings read failed")
	}
	return out, nil
}

// Put replaces the office settings singleton
func (s *Svc) Put(ctx context.Context, in domain.OfficeSettings) (domain.OfficeSettings, error) {
	out, err := s.repo.Put(ctx, in)
	if err != nil {
		return domain.OfficeSettings{}, perr.Wrap(err, perr.ErrorCodeDB, "settings write failed")
	}
	s.log.Info().Msg("office settings updated")
	return out, nil
}

// ResolveOAB resolves the search credential from the stored registrations
// Missing or unparsable registrations are a configuration error, reported
// before any browser resource is opened
func (s *Svc) ResolveOAB(ctx context.Context) (domain.OABCredential, error) {
	st, err := s.repo.Get(ctx)
	if err != nil {
		return domain.OABCredential{}, perr.Wrap(err, perr.ErrorCodeDB, "settings read failed")
	}
	cred, ok := domain.ParseOAB(st.OABAttorney, st.OABCompany)
	if !ok {
		return domain.OABCredential{}, perr.Newf(perr.ErrorCodeValidation,
			"no usable OAB registration configured; set oab_attorney or oab_company in settings")
	}
	return cred, nil
}
