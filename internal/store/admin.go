package store

import (
	"context"
	"fmt"
	"time"

	"github.com/umphart/kaccimapro-sub001/internal/utils"
	"github.com/umphart/kaccimapro-sub001/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const adminTableName = "kaccima.admins"

var adminColumns = utils.StructTagValues(types.Admin{})

type AdminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

func (r *AdminRepository) Admin(ctx context.Context, userID string) (*types.Admin, error) {

	query, args, err := psql().Select(adminColumns...).From(adminTableName).
		Where(sq.Eq{"user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate admin query: %w", err)
	}

	var admin = new(types.Admin)
	err = pgxscan.Get(ctx, r.pool, admin, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrAdminNotFound
	}

	return admin, nil
}

func (r *AdminRepository) UpsertAdmin(ctx context.Context, admin *types.Admin) error {

	now := time.Now()
	admin.CreatedAt = now
	admin.UpdatedAt = now

	query := `
		INSERT INTO kaccima.admins (user_id, email, admin_type, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id)
		DO UPDATE SET email = EXCLUDED.email, admin_type = EXCLUDED.admin_type,
			is_active = EXCLUDED.is_active, updated_at = now()`

	_, err := r.pool.Exec(ctx, query,
		admin.UserID, admin.Email, admin.AdminType, admin.IsActive, admin.CreatedAt, admin.UpdatedAt)
	return utils.ErrorWrapOrNil(err, "failed to upsert admin")
}
