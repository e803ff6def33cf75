// Package repo provides the office settings persistence surface
package repo

import (
	"context"
	"errors"

	"lexflow/internal/modkit/repokit"
	"lexflow/internal/services/settings/domain"

	"github.com/jackc/pgx/v5"
)

// Repo is the settings persistence surface used by the service layer
type Repo interface {
	Get(ctx context.Context) (domain.OfficeSettings, error)
	Put(ctx context.Context, s domain.OfficeSettings) (domain.OfficeSettings, error)
}

type (
	// PG is the Postgres implementation of the settings repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind attaches a Queryer to the Postgres implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// EnsureSchema creates the settings table when it does not exist yet
func EnsureSchema(ctx context.Context, q repokit.Queryer) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS office_settings (
			id            SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
			company_name  TEXT NOT NULL DEFAULT '',
			attorney_name TEXT NOT NULL DEFAULT '',
			oab_attorney  TEXT NOT NULL DEFAULT '',
			oab_company   TEXT NOT NULL DEFAULT '',
			zapsign_token TEXT NOT NULL DEFAULT '',
			datajud_key   TEXT NOT NULL DEFAULT '',
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := q.Exec(ctx, ddl)
	return err
}

// Get returns the singleton row; a missing row reads as zero-value settings
func (r *queries) Get(ctx context.Context) (domain.OfficeSettings, error) {
	const sql = `
		SELECT company_name, attorney_name, oab_attorney, oab_company,
		       zapsign_token, datajud_key, TO_CHAR(updated_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"')
		FROM office_settings
		WHERE id = 1
	`
	var s domain.OfficeSettings
	row := r.q.QueryRow(ctx, sql)
	err := row.Scan(
		&s.CompanyName, &s.AttorneyName, &s.OABAttorney, &s.OABCompany,
		&s.ZapSignToken, &s.DataJudKey, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.OfficeSettings{}, nil
		}
		return domain.OfficeSettings{}, err
	}
	return s, nil
}

// Put upserts the singleton row and returns the stored value
func (r *queries) Put(ctx context.Context, s domain.OfficeSettings) (domain.OfficeSettings, error) {
	const sql = `
		INSERT INTO office_settings (
			id, company_name, attorney_name, oab_attorney, oab_company,
			zapsign_token, datajud_key, updated_at
		) VALUES (1, $1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (id) DO UPDATE
		SET company_name  = EXCLUDED.company_name,
		    attorney_name = EXCLUDED.attorney_name,
		    oab_attorney  = EXCLUDED.oab_attorney,
		    oab_company   = EXCLUDED.oab_company,
		    zapsign_token = EXCLUDED.zapsign_token,
		    datajud_key   = EXCLUDED.datajud_key,
		    updated_at    = NOW()
	`
	if _, err := r.q.Exec(ctx, sql,
		s.CompanyName, s.AttorneyName, s.OABAttorney, s.OABCompany,
		s.ZapSignToken, s.DataJudKey,
	); err != nil {
		return domain.OfficeSettings{}, err
	}
	return r.Get(ctx)
}
