// Package repo provides the publication store implementation
package repo

import (
	"context"
	"errors"

	"lexflow/internal/modkit/repokit"
	"lexflow/internal/services/publications/domain"

	"github.com/jackc/pgx/v5"
)

// Repo is the publication persistence surface used by the service layer
type Repo interface {
	InsertIgnoreDuplicates(ctx context.Context, pubs []domain.Publication) (inserted int, err error)
	List(ctx context.Context, q domain.ListQuery) ([]domain.Publication, error)
	Get(ctx context.Context, id int64) (domain.Publication, bool, error)
	MarkProcessed(ctx context.Context, id int64) (found bool, err error)
	Delete(ctx context.Context, id int64) (found bool, err error)
}

type (
	// PG is the Postgres implementation of the publication repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind attaches a Queryer to the Postgres implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// EnsureSchema creates the publications table when it does not exist yet
// publication_date keeps the portal's dd/mm/yyyy text form untouched
func EnsureSchema(ctx context.Context, q repokit.Queryer) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS publications (
			id               BIGSERIAL PRIMARY KEY,
			external_id      TEXT NOT NULL UNIQUE,
			process_number   TEXT NOT NULL DEFAULT '',
			court            TEXT NOT NULL DEFAULT '',
			notice_type      TEXT NOT NULL DEFAULT '',
			publication_date TEXT NOT NULL DEFAULT '',
			case_class       TEXT NOT NULL DEFAULT '',
			content          TEXT NOT NULL DEFAULT '',
			status           TEXT NOT NULL DEFAULT 'new',
			created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := q.Exec(ctx, ddl)
	return err
}

// InsertIgnoreDuplicates writes the batch, leaving rows that already exist
// (same external_id) completely untouched, status included
func (r *queries) InsertIgnoreDuplicates(ctx context.Context, pubs []domain.Publication) (int, error) {
	const sql = `
		INSERT INTO publications (
			external_id, process_number, court, notice_type,
			publication_date, case_class, content, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (external_id) DO NOTHING
	`
	inserted := 0
	for _, p := range pubs {
		status := p.Status
		if status == "" {
			status = domain.StatusNew
		}
		tag, err := r.q.Exec(ctx, sql,
			p.ExternalID, p.ProcessNumber, p.Court, p.NoticeType,
			p.PublicationDate, p.CaseClass, p.Content, status,
		)
		if err != nil {
			return inserted, err
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

const selectCols = `
	SELECT id, external_id, process_number, court, notice_type,
	       publication_date, case_class, content, status,
	       TO_CHAR(created_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"')
	FROM publications
`

func scanPublication(row repokit.Row) (domain.Publication, error) {
	var p domain.Publication
	err := row.Scan(
		&p.ID, &p.ExternalID, &p.ProcessNumber, &p.Court, &p.NoticeType,
		&p.PublicationDate, &p.CaseClass, &p.Content, &p.Status, &p.CreatedAt,
	)
	return p, err
}

// publicationDateOrder sorts the dd/mm/yyyy text column calendar-descending;
// values that do not parse (empty or malformed) sort last
const publicationDateOrder = `CASE WHEN publication_date ~ '^\d{2}/\d{2}/\d{4}$'
		THEN to_date(publication_date, 'DD/MM/YYYY') END DESC NULLS LAST`

// List returns publications newest first, optionally filtered by status
func (r *queries) List(ctx context.Context, q domain.ListQuery) ([]domain.Publication, error) {
	sql := selectCols
	args := []any{}
	if q.Status != "" {
		sql += ` WHERE status = $1`
		args = append(args, q.Status)
	}
	sql += ` ORDER BY ` + publicationDateOrder + `, created_at DESC`
	if q.Status != "" {
		sql += ` LIMIT $2`
	} else {
		sql += ` LIMIT $1`
	}
	args = append(args, q.Limit)

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Publication
	for rows.Next() {
		p, err := scanPublication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Publication{}
	}
	return out, nil
}

// Get returns one publication by id
func (r *queries) Get(ctx context.Context, id int64) (domain.Publication, bool, error) {
	row := r.q.QueryRow(ctx, selectCols+` WHERE id = $1`, id)
	p, err := scanPublication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Publication{}, false, nil
		}
		return domain.Publication{}, false, err
	}
	return p, true, nil
}

// MarkProcessed flips status to processed; marking an already processed row
// again succeeds without changing anything
func (r *queries) MarkProcessed(ctx context.Context, id int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `UPDATE publications SET status = 'processed' WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Delete removes the row outright
func (r *queries) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM publications WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
