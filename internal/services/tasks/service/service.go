// Package service implements publication-to-task conversion
package service

import (
	"context"
	"strings"

	"lexflow/internal/modkit"
	"lexflow/internal/modkit/repokit"
	perr "lexflow/internal/platform/errors"
	"lexflow/internal/platform/logger"

	"lexflow/internal/services/tasks/domain"
	trepo "lexflow/internal/services/tasks/repo"
)

// Service is the conversion surface exposed through the module port
type Service interface {
	domain.ConverterPort
}

// Svc implements Service over the Postgres repo
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[trepo.Repo]
	log    logger.Logger
}

// New constructs the service
func New(deps modkit.Deps) *Svc {
	return &Svc{
		db:     deps.PG,
		binder: trepo.NewPG(),
		log:    *logger.Named("tasks"),
	}
}

// newWith is the test seam
func newWith(db repokit.TxRunner, b repokit.Binder[trepo.Repo]) *Svc {
	return &Svc{db: db, binder: b, log: *logger.Named("tasks")}
}

// Convert creates a case-tracking task from a publication and marks the
// publication processed, all inside one transaction. A publication already
// processed is rejected so the same notice can never produce two tasks
func (s *Svc) Convert(ctx context.Context, in domain.ConvertInput) (domain.Task, error) {
	if in.PublicationID <= 0 {
		return domain.Task{}, perr.InvalidArgf("publication id is required")
	}
	if strings.TrimSpace(in.Title) == "" {
		return domain.Task{}, perr.Newf(perr.ErrorCodeValidation, "task title is required")
	}
	if in.ResponsibleID <= 0 {
		return domain.Task{}, perr.Newf(perr.ErrorCodeValidation, "a responsible party is required")
	}

	var out domain.Task
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)

		src, found, err := r.PublicationForConversion(ctx, in.PublicationID)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "publication read failed")
		}
		if !found {
			return perr.NotFoundf("publication %d not found", in.PublicationID)
		}
		if src.Status == "processed" {
			return perr.Conflictf("publication %d was already converted to a task", in.PublicationID)
		}

		t := domain.Task{
			Title:         strings.TrimSpace(in.Title),
			Description:   domain.Description(src.Court, src.PublicationDate, src.Content),
			Stage:         domain.StageNew,
			ClientName:    domain.ClientPlaceholder,
			Deadline:      in.Deadline,
			ResponsibleID: in.ResponsibleID,
			PublicationID: in.PublicationID,
		}

		id, err := r.InsertTask(ctx, t)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnavailable, "case-tracking store unavailable")
		}
		t.ID = id

		ok, err := r.MarkPublicationProcessed(ctx, in.PublicationID)
		if err != nil || !ok {
			// the rollback undoes the task insert, so no half-converted
			// publication can survive this path
			return perr.Wrapf(err, perr.ErrorCodeUnknown,
				"task %d created but publication %d could not be marked processed", id, in.PublicationID)
		}

		out = t
		return nil
	})
	if err != nil {
		return domain.Task{}, err
	}

	s.log.Info().
		Int64("task_id", out.ID).
		Int64("publication_id", out.PublicationID).
		Msg("publication converted to task")
	return out, nil
}
