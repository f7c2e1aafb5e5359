package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/umphart/kaccimapro-sub001/internal/utils"
	"github.com/umphart/kaccimapro-sub001/pkg/types"

	"github.com/sirupsen/logrus"
)

// DuePaymentType resolves which payment an organization owes right now:
// "first" when it has never had a payment verified, "renewal" once the
// membership year of the latest verified payment has lapsed (Jan 1 of the
// following year), and "not_due" in between. Rejected payments never count.
func (s *Service) DuePaymentType(ctx context.Context, orgID string, now time.Time) (types.PaymentType, error) {

	latest, err := s.payments.LatestApprovedPayment(ctx, orgID)
	if err != nil {
		if errors.Is(err, types.ErrPaymentNotFound) {
			return types.PaymentTypeFirst, nil
		}
		return "", err
	}

	renewalDue := time.Date(latest.CreatedAt.Year()+1, time.January, 1, 0, 0, 0, 0, now.Location())
	if now.Before(renewalDue) {
		return types.PaymentTypeNotDue, nil
	}

	return types.PaymentTypeRenewal, nil
}

// SubmitPayment records a new payment receipt for verification. The amount
// must match the tariff for the payment type, and the type must match what
// the organization actually owes — no renewal before it is due, no second
// first-registration payment.
func (s *Service) SubmitPayment(ctx context.Context, orgID string, amount int64, paymentType types.PaymentType, receiptPath string) (*types.PaymentRecord, error) {

	org, err := s.orgs.Organization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if paymentType != types.PaymentTypeFirst && paymentType != types.PaymentTypeRenewal {
		return nil, types.NewValidationError("payment_type", fmt.Sprintf("unknown payment type %s", paymentType))
	}

	due, err := s.DuePaymentType(ctx, orgID, s.now())
	if err != nil {
		return nil, err
	}

	if due == types.PaymentTypeNotDue {
		return nil, &types.InvalidStateError{
			Entity: "payment",
			ID:     orgID,
			Status: string(types.PaymentTypeNotDue),
		}
	}

	if paymentType != due {
		return nil, types.NewValidationError("payment_type",
			fmt.Sprintf("expected a %s payment, got %s", due, paymentType))
	}

	if amount != types.Tariff(paymentType) {
		return nil, types.NewValidationError("amount",
			fmt.Sprintf("a %s payment must be ₦%d", paymentType, types.Tariff(paymentType)))
	}

	if strings.TrimSpace(receiptPath) == "" {
		return nil, types.NewValidationError("receipt", "payment receipt is required")
	}

	payment := &types.PaymentRecord{
		OrganizationID: org.ID,
		Amount:         amount,
		PaymentType:    paymentType,
		ReceiptPath:    receiptPath,
	}

	if err := s.payments.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}

	s.notify.NewPayment(ctx, org, payment)

	s.logger.WithFields(logrus.Fields{
		"organization_id": org.ID,
		"payment_id":      payment.ID,
		"payment_type":    paymentType,
	}).Info("payment submitted")

	return payment, nil
}

// ApprovePayment verifies a pending payment receipt. Does not touch
// organization status; payment status separately gates active membership.
func (s *Service) ApprovePayment(ctx context.Context, paymentID string, actor *types.Admin) error {

	if err := requireCapability(actor, types.CapabilityVerifyPayment); err != nil {
		return err
	}

	payment, err := s.payments.Payment(ctx, paymentID)
	if err != nil {
		return err
	}

	if payment.Status != types.PaymentStatusPending {
		return &types.InvalidStateError{
			Entity: "payment",
			ID:     payment.ID,
			Status: string(payment.Status),
		}
	}

	event := &types.Event{
		OrganizationID: payment.OrganizationID,
		Type:           types.EventTypeSuccess,
		Title:          "Payment Approved",
		Message:        fmt.Sprintf("Your %s payment of ₦%d has been verified.", payment.PaymentType, payment.Amount),
		Category:       types.EventCategoryOrganization,
		CreatedAt:      s.now(),
	}

	if err := s.workflow.RecordPaymentDecision(ctx, payment.ID, types.PaymentStatusApproved, nil, event); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"actor":      actor.UserID,
	}).Info("payment approved")

	return nil
}

// RejectPayment rejects a pending payment with a mandatory reason. When
// sendEmail is set the organization is additionally emailed; delivery failure
// never blocks the rejection.
func (s *Service) RejectPayment(ctx context.Context, paymentID, reason string, sendEmail bool, actor *types.Admin) error {

	if err := requireCapability(actor, types.CapabilityVerifyPayment); err != nil {
		return err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return types.NewValidationError("reason", "rejection reason is required")
	}

	payment, err := s.payments.Payment(ctx, paymentID)
	if err != nil {
		return err
	}

	if payment.Status != types.PaymentStatusPending {
		return &types.InvalidStateError{
			Entity: "payment",
			ID:     payment.ID,
			Status: string(payment.Status),
		}
	}

	event := &types.Event{
		OrganizationID: payment.OrganizationID,
		Type:           types.EventTypeError,
		Title:          "Payment Rejected",
		Message:        fmt.Sprintf("Your %s payment was rejected. %s%s", payment.PaymentType, types.ReasonMarker, reason),
		Category:       types.EventCategoryOrganization,
		CreatedAt:      s.now(),
	}

	if err := s.workflow.RecordPaymentDecision(ctx, payment.ID, types.PaymentStatusRejected, utils.StringPtr(reason), event); err != nil {
		return err
	}

	if sendEmail {
		if org, err := s.orgs.Organization(ctx, payment.OrganizationID); err == nil {
			s.notify.Decision(ctx, org, "Payment rejected", reason)
		} else {
			s.logger.WithError(err).WithField("payment_id", payment.ID).
				Warn("failed to load organization for rejection email")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"actor":      actor.UserID,
	}).Info("payment rejected")

	return nil
}
