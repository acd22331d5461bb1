package repository

import (
	"context"

	"github.com/St1cky1/user-service/internal/entity"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{
		db: db,
	}
}

func (r *AuditRepository) Create(ctx context.Context, audit *entity.UserAudit) error {
	query := `
	INSERT INTO "user_audit" (user_id, action, details, changed_at)
	VALUES ($1, $2, $3, $4)
	RETURNING id
	`

	return r.db.QueryRow(ctx, query,
		audit.UserID,
		audit.Action,
		audit.Details,
		audit.ChangedAt,
	).Scan(&audit.ID)
}
