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

const organizationTableName = "kaccima.organizations"

var organizationColumns = utils.StructTagValues(types.Organization{})

type OrganizationRepository struct {
	pool *pgxpool.Pool
}

func NewOrganizationRepository(pool *pgxpool.Pool) *OrganizationRepository {
	return &OrganizationRepository{pool: pool}
}

func (r *OrganizationRepository) Organization(ctx context.Context, orgID string) (*types.Organization, error) {

	query, args, err := psql().Select(organizationColumns...).From(organizationTableName).
		Where(sq.Eq{"id": orgID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate organization query: %w", err)
	}

	var org = new(types.Organization)
	err = pgxscan.Get(ctx, r.pool, org, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrOrganizationNotFound
	}

	return org, nil
}

func (r *OrganizationRepository) OrganizationByUser(ctx context.Context, userID string) (*types.Organization, error) {

	query, args, err := psql().Select(organizationColumns...).From(organizationTableName).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at desc").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate organization by user query: %w", err)
	}

	var org = new(types.Organization)
	err = pgxscan.Get(ctx, r.pool, org, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrOrganizationNotFound
	}

	return org, nil
}

func (r *OrganizationRepository) OrganizationsByStatus(ctx context.Context, status types.OrganizationStatus) ([]*types.Organization, error) {

	builder := psql().Select(organizationColumns...).From(organizationTableName).
		OrderBy("created_at desc")
	if status != "" {
		builder = builder.Where(sq.Eq{"status": status})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate organizations query: %w", err)
	}

	var orgs = make([]*types.Organization, 0)
	if err := pgxscan.Select(ctx, r.pool, &orgs, query, args...); err != nil {
		return nil, err
	}

	return orgs, nil
}

// CreateOrganization inserts a new organization. Intake only ever creates rows
// in the pending status.
func (r *OrganizationRepository) CreateOrganization(ctx context.Context, org *types.Organization) error {

	now := time.Now()
	if org.ID == "" {
		org.ID = utils.NanoID()
	}
	org.Status = types.OrganizationStatusPending
	org.CreatedAt = now
	org.UpdatedAt = now

	orgMap := utils.StructToMap(org)

	query, args, err := psql().Insert(organizationTableName).SetMap(orgMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert organization query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create organization")
}
