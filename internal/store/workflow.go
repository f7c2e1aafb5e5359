package store

import (
	"context"
	"fmt"
	"time"

	"github.com/umphart/kaccimapro-sub001/internal/registry"
	"github.com/umphart/kaccimapro-sub001/internal/utils"
	"github.com/umphart/kaccimapro-sub001/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WorkflowRepository commits the multi-table effects of review operations.
// Each method runs in a single transaction so an operation either fully
// applies or leaves no trace.
type WorkflowRepository struct {
	pool *pgxpool.Pool
}

func NewWorkflowRepository(pool *pgxpool.Pool) *WorkflowRepository {
	return &WorkflowRepository{pool: pool}
}

func (r *WorkflowRepository) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin workflow tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// RecordDocumentDecision persists a per-document approve or reject: the
// durable rejection-reason column on the organization row (nil clears it) plus
// the decision event. Guarded on the organization still being pending.
func (r *WorkflowRepository) RecordDocumentDecision(ctx context.Context, orgID string, desc registry.DocumentTypeDescriptor, reason *string, event *types.Event) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {

		query, args, err := psql().Update(organizationTableName).
			Set(desc.RejectionReasonField, reason).
			Set("updated_at", time.Now()).
			Where(sq.Eq{"id": orgID, "status": types.OrganizationStatusPending}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate document decision query: %w", err)
		}

		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return utils.ErrorWrapOrNil(err, "failed to record document decision")
		}
		if tag.RowsAffected() == 0 {
			return types.ErrStaleOrganization
		}

		return appendEventTx(ctx, tx, event)
	})
}

// RecordReupload applies the replacement of a rejected document: new path,
// cleared rejection reason, atomic re_upload_count increment, the reupload
// events, and prior rejection events for the document marked read.
func (r *WorkflowRepository) RecordReupload(ctx context.Context, orgID string, desc registry.DocumentTypeDescriptor, newPath string, at time.Time, events []*types.Event) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {

		query, args, err := psql().Update(organizationTableName).
			Set(desc.Key, newPath).
			Set(desc.RejectionReasonField, nil).
			Set("status", types.OrganizationStatusPending).
			Set("re_upload_count", sq.Expr("re_upload_count + 1")).
			Set("last_re_upload_at", at).
			Set("updated_at", at).
			Where(sq.Eq{"id": orgID, "status": types.OrganizationStatusPending}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate reupload query: %w", err)
		}

		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return utils.ErrorWrapOrNil(err, "failed to record reupload")
		}
		if tag.RowsAffected() == 0 {
			return types.ErrStaleOrganization
		}

		for _, event := range events {
			if err := appendEventTx(ctx, tx, event); err != nil {
				return err
			}
		}

		markRead, args, err := psql().Update(eventTableName).
			Set("read", true).
			Where(sq.Eq{
				"organization_id": orgID,
				"document_key":    desc.Key,
				"type":            types.EventTypeDocumentRejected,
			}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate mark rejections read query: %w", err)
		}

		_, err = tx.Exec(ctx, markRead, args...)
		return utils.ErrorWrapOrNil(err, "failed to mark rejection events read")
	})
}

// RecordOrganizationDecision commits the organization-level approve or reject
// with a compare-and-swap on updated_at so a write racing a re-upload loses
// cleanly instead of overwriting it.
func (r *WorkflowRepository) RecordOrganizationDecision(ctx context.Context, org *types.Organization, to types.OrganizationStatus, event *types.Event) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {

		query, args, err := psql().Update(organizationTableName).
			Set("status", to).
			Set("updated_at", time.Now()).
			Where(sq.Eq{
				"id":         org.ID,
				"status":     types.OrganizationStatusPending,
				"updated_at": org.UpdatedAt,
			}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate organization decision query: %w", err)
		}

		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return utils.ErrorWrapOrNil(err, "failed to record organization decision")
		}
		if tag.RowsAffected() == 0 {
			return types.ErrStaleOrganization
		}

		return appendEventTx(ctx, tx, event)
	})
}

// RecordPaymentDecision commits a payment approve or reject, guarded on the
// row still being pending.
func (r *WorkflowRepository) RecordPaymentDecision(ctx context.Context, paymentID string, to types.PaymentStatus, reason *string, event *types.Event) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {

		query, args, err := psql().Update(paymentTableName).
			Set("status", to).
			Set("rejection_reason", reason).
			Set("updated_at", time.Now()).
			Where(sq.Eq{"id": paymentID, "status": types.PaymentStatusPending}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate payment decision query: %w", err)
		}

		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return utils.ErrorWrapOrNil(err, "failed to record payment decision")
		}
		if tag.RowsAffected() == 0 {
			return types.ErrStalePayment
		}

		return appendEventTx(ctx, tx, event)
	})
}

func appendEventTx(ctx context.Context, tx pgx.Tx, event *types.Event) error {

	if event.ID == "" {
		event.ID = utils.NanoID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	eventMap := utils.StructToMap(event)
	delete(eventMap, "seq")

	query, args, err := psql().Insert(eventTableName).SetMap(eventMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert event query: %w", err)
	}

	_, err = tx.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to append event")
}
