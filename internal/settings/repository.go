// Package settings persists exporter state: opaque key/value configuration
// (such as the last export path per clip) and the export history.
package settings

import (
	"context"
	"database/sql"
	"time"
)

type Repository interface {
	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error

	RecordExport(ctx context.Context, rec *ExportRecord) error
	ListExports(ctx context.Context, limit int) ([]*ExportRecord, error)
	ListExportsByClip(ctx context.Context, clip string, limit int) ([]*ExportRecord, error)
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (r *SQLiteRepository) SetConfig(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func (r *SQLiteRepository) RecordExport(ctx context.Context, rec *ExportRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO exports (id, run_id, clip, path, status, kind, error, frames, nodes, bytes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.RunID, rec.Clip, nullString(rec.Path), rec.Status, nullString(rec.Kind), nullString(rec.Error),
		rec.Frames, rec.Nodes, rec.Bytes, rec.CreatedAt.Format(time.RFC3339Nano))
	return err
}

func (r *SQLiteRepository) ListExports(ctx context.Context, limit int) ([]*ExportRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, run_id, clip, path, status, kind, error, frames, nodes, bytes, created_at
		FROM exports ORDER BY created_at DESC, rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanExports(rows)
}

func (r *SQLiteRepository) ListExportsByClip(ctx context.Context, clip string, limit int) ([]*ExportRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, run_id, clip, path, status, kind, error, frames, nodes, bytes, created_at
		FROM exports WHERE clip = ? ORDER BY created_at DESC, rowid DESC LIMIT ?
	`, clip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanExports(rows)
}

func scanExports(rows *sql.Rows) ([]*ExportRecord, error) {
	var records []*ExportRecord
	for rows.Next() {
		var rec ExportRecord
		var path, kind, errMsg sql.NullString
		var createdAt string

		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Clip, &path, &rec.Status, &kind, &errMsg,
			&rec.Frames, &rec.Nodes, &rec.Bytes, &createdAt); err != nil {
			return nil, err
		}
		rec.Path = path.String
		rec.Kind = kind.String
		rec.Error = errMsg.String
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		records = append(records, &rec)
	}
	return records, rows.Err()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
