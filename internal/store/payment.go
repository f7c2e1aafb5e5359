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

const paymentTableName = "kaccima.payments"

var paymentColumns = utils.StructTagValues(types.PaymentRecord{})

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func (r *PaymentRepository) Payment(ctx context.Context, paymentID string) (*types.PaymentRecord, error) {

	query, args, err := psql().Select(paymentColumns...).From(paymentTableName).
		Where(sq.Eq{"id": paymentID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate payment query: %w", err)
	}

	var payment = new(types.PaymentRecord)
	err = pgxscan.Get(ctx, r.pool, payment, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrPaymentNotFound
	}

	return payment, nil
}

func (r *PaymentRepository) PaymentsByOrganization(ctx context.Context, orgID string) ([]*types.PaymentRecord, error) {

	query, args, err := psql().Select(paymentColumns...).From(paymentTableName).
		Where(sq.Eq{"organization_id": orgID}).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate payments by organization query: %w", err)
	}

	var payments = make([]*types.PaymentRecord, 0)
	if err := pgxscan.Select(ctx, r.pool, &payments, query, args...); err != nil {
		return nil, err
	}

	return payments, nil
}

// LatestApprovedPayment returns the most recent approved or accepted payment
// for the organization, or ErrPaymentNotFound when none exists.
func (r *PaymentRepository) LatestApprovedPayment(ctx context.Context, orgID string) (*types.PaymentRecord, error) {

	query, args, err := psql().Select(paymentColumns...).From(paymentTableName).
		Where(sq.Eq{"organization_id": orgID}).
		Where(sq.Eq{"status": []string{string(types.PaymentStatusApproved), string(types.PaymentStatusAccepted)}}).
		OrderBy("created_at desc").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate latest approved payment query: %w", err)
	}

	var payment = new(types.PaymentRecord)
	err = pgxscan.Get(ctx, r.pool, payment, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrPaymentNotFound
	}

	return payment, nil
}

func (r *PaymentRepository) CreatePayment(ctx context.Context, payment *types.PaymentRecord) error {

	now := time.Now()
	if payment.ID == "" {
		payment.ID = utils.NanoID()
	}
	payment.Status = types.PaymentStatusPending
	payment.CreatedAt = now
	payment.UpdatedAt = now

	paymentMap := utils.StructToMap(payment)

	query, args, err := psql().Insert(paymentTableName).SetMap(paymentMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert payment query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create payment")
}
