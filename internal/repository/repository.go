package repository

import (
	"context"
	"database/sql"
	"time"

	"linkbridge/internal/models"
)

type IdentityLink interface {
	FindBySourceID(ctx context.Context, sourceID string) (*models.IdentityLink, error)
	FindByDestID(ctx context.Context, destID int64) (*models.IdentityLink, error)
	// UpsertLink links sourceID to destID, clearing whatever row held
	// sourceID before. The destID row is created or overwritten.
	UpsertLink(ctx context.Context, sourceID string, destID int64, displayName string) (*models.IdentityLink, error)
	ClearBySourceID(ctx context.Context, sourceID string) (bool, error)
	ClearByDestID(ctx context.Context, destID int64) (bool, error)
	List(ctx context.Context) ([]models.IdentityLink, error)
}

type LinkCodes interface {
	Issue(ownerID string) (models.LinkCode, error)
	Redeem(code string) (models.LinkCode, error)
	Expire(code string) bool
	Reinstate(code models.LinkCode) bool
	TTL() time.Duration
}

type Repository struct {
	IdentityLink
	db *sql.DB
}

func NewRepository(db *sql.DB, dialect Dialect) *Repository {
	return &Repository{
		IdentityLink: NewIdentityLinkSQL(db, dialect),
		db:           db,
	}
}

func (r *Repository) Close() error {
	return r.db.Close()
}
