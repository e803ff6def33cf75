// Package repo provides the case-tracking repository implementation
package repo

import (
	"context"
	"errors"

	"lexflow/internal/modkit/repokit"
	"lexflow/internal/services/tasks/domain"

	"github.com/jackc/pgx/v5"
)

// PublicationSource is the slice of a publication row the conversion needs
type PublicationSource struct {
	Court           string
	PublicationDate string
	Content         string
	Status          string
}

// Repo is the tasks persistence surface used by the service layer
// All three operations run against the same Queryer so the service can hold
// them inside one transaction
type Repo interface {
	PublicationForConversion(ctx context.Context, publicationID int64) (PublicationSource, bool, error)
	InsertTask(ctx context.Context, t domain.Task) (int64, error)
	MarkPublicationProcessed(ctx context.Context, publicationID int64) (bool, error)
}

type (
	// PG is the Postgres implementation of the tasks repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind attaches a Queryer to the Postgres implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// EnsureSchema creates the deals table when it does not exist yet
func EnsureSchema(ctx context.Context, q repokit.Queryer) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS deals (
			id             BIGSERIAL PRIMARY KEY,
			title          TEXT NOT NULL,
			description    TEXT NOT NULL DEFAULT '',
			stage          TEXT NOT NULL,
			client_name    TEXT NOT NULL,
			deadline       TEXT NOT NULL DEFAULT '',
			responsible_id BIGINT NOT NULL,
			publication_id BIGINT REFERENCES publications(id) ON DELETE SET NULL,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := q.Exec(ctx, ddl)
	return err
}

// PublicationForConversion reads the source row, locking it so a concurrent
// conversion of the same publication serializes on the status check
func (r *queries) PublicationForConversion(
	ctx context.Context, publicationID int64,
) (PublicationSource, bool, error) {
	const sql = `
		SELECT court, publication_date, content, status
		FROM publications
		WHERE id = $1
		FOR UPDATE
	`
	var src PublicationSource
	row := r.q.QueryRow(ctx, sql, publicationID)
	if err := row.Scan(&src.Court, &src.PublicationDate, &src.Content, &src.Status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PublicationSource{}, false, nil
		}
		return PublicationSource{}, false, err
	}
	return src, true, nil
}

// InsertTask writes the case-tracking row and returns its id
func (r *queries) InsertTask(ctx context.Context, t domain.Task) (int64, error) {
	const sql = `
		INSERT INTO deals (title, description, stage, client_name, deadline, responsible_id, publication_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id int64
	row := r.q.QueryRow(ctx, sql,
		t.Title, t.Description, t.Stage, t.ClientName, t.Deadline, t.ResponsibleID, t.PublicationID,
	)
	if err := row.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// MarkPublicationProcessed flips the source row to processed
func (r *queries) MarkPublicationProcessed(ctx context.Context, publicationID int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `UPDATE publications SET status = 'processed' WHERE id = $1`, publicationID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
