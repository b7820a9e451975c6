package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"linkbridge/internal/models"
)

const selectLinkColumns = `SELECT dest_id, source_id, display_name, updated_at FROM identity_links`

type IdentityLinkSQL struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

func NewIdentityLinkSQL(db *sql.DB, dialect Dialect) *IdentityLinkSQL {
	return &IdentityLinkSQL{db: db, dialect: dialect, now: time.Now}
}

func (r *IdentityLinkSQL) FindBySourceID(ctx context.Context, sourceID string) (*models.IdentityLink, error) {
	row := r.db.QueryRowContext(ctx, r.q(selectLinkColumns+` WHERE source_id = ?`), sourceID)
	link, err := scanLink(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("find link by source id", err)
	}
	return link, nil
}

func (r *IdentityLinkSQL) FindByDestID(ctx context.Context, destID int64) (*models.IdentityLink, error) {
	row := r.db.QueryRowContext(ctx, r.q(selectLinkColumns+` WHERE dest_id = ?`), destID)
	link, err := scanLink(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("find link by dest id", err)
	}
	return link, nil
}

func (r *IdentityLinkSQL) UpsertLink(ctx context.Context, sourceID string, destID int64, displayName string) (*models.IdentityLink, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeErr("begin upsert", err)
	}
	defer tx.Rollback()

	now := r.now().UnixMilli()

	var heldBy int64
	err = tx.QueryRowContext(ctx,
		r.q(`SELECT dest_id FROM identity_links WHERE source_id = ?`+r.lockClause()), sourceID,
	).Scan(&heldBy)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, storeErr("lock source row", err)
	case heldBy != destID:
		if _, err := tx.ExecContext(ctx,
			r.q(`UPDATE identity_links SET source_id = NULL, display_name = NULL, updated_at = ? WHERE dest_id = ?`),
			now, heldBy,
		); err != nil {
			return nil, storeErr("clear superseded link", err)
		}
	}

	if _, err := tx.ExecContext(ctx, r.q(`
		INSERT INTO identity_links (dest_id, source_id, display_name, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (dest_id) DO UPDATE SET
			source_id = excluded.source_id,
			display_name = excluded.display_name,
			updated_at = excluded.updated_at
	`), destID, sourceID, nullString(displayName), now); err != nil {
		return nil, storeErr("write link", err)
	}

	link, err := scanLink(tx.QueryRowContext(ctx, r.q(selectLinkColumns+` WHERE dest_id = ?`), destID))
	if err != nil {
		return nil, storeErr("read back link", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, storeErr("commit upsert", err)
	}
	return link, nil
}

func (r *IdentityLinkSQL) ClearBySourceID(ctx context.Context, sourceID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		r.q(`UPDATE identity_links SET source_id = NULL, display_name = NULL, updated_at = ? WHERE source_id = ?`),
		r.now().UnixMilli(), sourceID,
	)
	if err != nil {
		return false, storeErr("clear link by source id", err)
	}
	return affected(result)
}

func (r *IdentityLinkSQL) ClearByDestID(ctx context.Context, destID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		r.q(`UPDATE identity_links SET source_id = NULL, display_name = NULL, updated_at = ? WHERE dest_id = ? AND source_id IS NOT NULL`),
		r.now().UnixMilli(), destID,
	)
	if err != nil {
		return false, storeErr("clear link by dest id", err)
	}
	return affected(result)
}

func (r *IdentityLinkSQL) List(ctx context.Context) ([]models.IdentityLink, error) {
	rows, err := r.db.QueryContext(ctx, r.q(selectLinkColumns+` ORDER BY updated_at DESC, dest_id`))
	if err != nil {
		return nil, storeErr("list links", err)
	}
	defer rows.Close()

	var links []models.IdentityLink
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, storeErr("scan link", err)
		}
		links = append(links, *link)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list links", err)
	}
	return links, nil
}

func (r *IdentityLinkSQL) q(query string) string {
	return rebind(r.dialect, query)
}

func (r *IdentityLinkSQL) lockClause() string {
	if r.dialect == DialectPostgres {
		return ` FOR UPDATE`
	}
	return ""
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLink(row scanner) (*models.IdentityLink, error) {
	var (
		link        models.IdentityLink
		sourceID    sql.NullString
		displayName sql.NullString
		updatedAt   int64
	)
	if err := row.Scan(&link.DestID, &sourceID, &displayName, &updatedAt); err != nil {
		return nil, err
	}
	if sourceID.Valid {
		link.SourceID = &sourceID.String
	}
	link.DisplayName = displayName.String
	link.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &link, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func affected(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, storeErr("rows affected", err)
	}
	return n > 0, nil
}
