// Package repositories holds the PostgreSQL-backed repository
// implementations for the docketcalc domain interfaces.
package repositories

import (
	"context"
	"database/sql"

	"github.com/bginsber/docketcalc/internal/domain/audit"
	"github.com/bginsber/docketcalc/internal/infrastructure/database/postgres"
	"github.com/bginsber/docketcalc/internal/infrastructure/monitoring/logging"
	"github.com/bginsber/docketcalc/pkg/errors"
	"github.com/bginsber/docketcalc/pkg/types/common"
)

type postgresAuditRepo struct {
	conn *postgres.Connection
	log  logging.Logger
}

// NewPostgresAuditRepo returns a Repository backed by the shared connection.
func NewPostgresAuditRepo(conn *postgres.Connection, log logging.Logger) audit.Repository {
	return &postgresAuditRepo{conn: conn, log: log.Named("audit_repo")}
}

func (r *postgresAuditRepo) Save(ctx context.Context, rec *audit.Record) error {
	if rec.ID == "" {
		rec.ID = string(common.NewID())
	}

	query := `
		INSERT INTO calculation_audit (
			id, jurisdiction, event, base_date, service_method,
			schema_version, pack_path, result_json
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	err := r.conn.DB().QueryRowContext(ctx, query,
		rec.ID, rec.Jurisdiction, rec.Event, rec.BaseDate, rec.ServiceMethod,
		rec.SchemaVersion, rec.PackPath, rec.ResultJSON,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to save audit record")
	}

	r.log.Debug("audit record saved",
		logging.String("id", rec.ID),
		logging.String("jurisdiction", rec.Jurisdiction),
		logging.String("event", rec.Event),
	)
	return nil
}

func (r *postgresAuditRepo) GetByID(ctx context.Context, id string) (*audit.Record, error) {
	query := `
		SELECT id, jurisdiction, event, base_date, service_method,
		       schema_version, pack_path, result_json, created_at
		FROM calculation_audit
		WHERE id = $1
	`
	rec := &audit.Record{}
	err := r.conn.DB().QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.Jurisdiction, &rec.Event, &rec.BaseDate, &rec.ServiceMethod,
		&rec.SchemaVersion, &rec.PackPath, &rec.ResultJSON, &rec.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrCodeNotFound, "audit record not found").
			WithDetail("id=" + id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load audit record")
	}
	return rec, nil
}

func (r *postgresAuditRepo) List(ctx context.Context, f audit.Filter) ([]*audit.Record, error) {
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	// Empty filter fields match everything.
	query := `
		SELECT id, jurisdiction, event, base_date, service_method,
		       schema_version, pack_path, result_json, created_at
		FROM calculation_audit
		WHERE ($1 = '' OR jurisdiction = $1)
		  AND ($2 = '' OR event = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.conn.DB().QueryContext(ctx, query, f.Jurisdiction, f.Event, limit, f.Offset)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list audit records")
	}
	defer rows.Close()

	var out []*audit.Record
	for rows.Next() {
		rec := &audit.Record{}
		if err := rows.Scan(
			&rec.ID, &rec.Jurisdiction, &rec.Event, &rec.BaseDate, &rec.ServiceMethod,
			&rec.SchemaVersion, &rec.PackPath, &rec.ResultJSON, &rec.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan audit record")
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "audit record iteration failed")
	}
	return out, nil
}
