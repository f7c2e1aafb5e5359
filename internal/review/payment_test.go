package review

import (
	"context"
	"testing"
	"time"

	"github.com/umphart/kaccimapro-sub001/internal/utils"
	"github.com/umphart/kaccimapro-sub001/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPayment(store *fakeStore, orgID string, status types.PaymentStatus, paymentType types.PaymentType, createdAt time.Time) *types.PaymentRecord {
	payment := &types.PaymentRecord{
		ID:             utils.NanoID(),
		OrganizationID: orgID,
		Amount:         types.Tariff(paymentType),
		PaymentType:    paymentType,
		Status:         status,
		ReceiptPath:    orgID + "/receipt.pdf",
		CreatedAt:      createdAt,
	}
	store.payments[payment.ID] = payment
	return payment
}

func TestDuePaymentTypeFirstWhenNeverPaid(t *testing.T) {
	svc, store, _, _, clock := newTestService()
	org := pendingOrg(store, "org1")

	due, err := svc.DuePaymentType(context.Background(), org.ID, clock.Now())
	require.NoError(t, err)
	assert.Equal(t, types.PaymentTypeFirst, due)
}

func TestDuePaymentTypeNotDueWithinMembershipYear(t *testing.T) {
	svc, store, _, _, _ := newTestService()
	org := pendingOrg(store, "org1")
	seedPayment(store, org.ID, types.PaymentStatusApproved, types.PaymentTypeFirst,
		time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC))

	due, err := svc.DuePaymentType(context.Background(), org.ID,
		time.Date(2025, time.December, 31, 23, 59, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, types.PaymentTypeNotDue, due)
}

func TestDuePaymentTypeRenewalFromJanuaryFirst(t *testing.T) {
	svc, store, _, _, _ := newTestService()
	org := pendingOrg(store, "org1")
	seedPayment(store, org.ID, types.PaymentStatusApproved, types.PaymentTypeFirst,
		time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC))

	due, err := svc.DuePaymentType(context.Background(), org.ID,
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, types.PaymentTypeRenewal, due)
}

func TestDuePaymentTypeCountsLegacyAcceptedStatus(t *testing.T) {
	svc, store, _, _, _ := newTestService()
	org := pendingOrg(store, "org1")
	seedPayment(store, org.ID, types.PaymentStatusAccepted, types.PaymentTypeFirst,
		time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC))

	due, err := svc.DuePaymentType(context.Background(), org.ID,
		time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, types.PaymentTypeNotDue, due)
}

func TestDuePaymentTypeIgnoresRejectedPayments(t *testing.T) {
	svc, store, _, _, clock := newTestService()
	org := pendingOrg(store, "org1")
	seedPayment(store, org.ID, types.PaymentStatusRejected, types.PaymentTypeFirst,
		time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC))

	due, err := svc.DuePaymentType(context.Background(), org.ID, clock.Now())
	require.NoError(t, err)
	assert.Equal(t, types.PaymentTypeFirst, due)
}

func TestSubmitFirstPayment(t *testing.T) {
	svc, store, _, dispatcher, _ := newTestService()
	org := pendingOrg(store, "org1")

	payment, err := svc.SubmitPayment(context.Background(), org.ID,
		types.TariffFirstRegistration, types.PaymentTypeFirst, org.ID+"/receipt.pdf")
	require.NoError(t, err)

	assert.Equal(t, types.PaymentStatusPending, payment.Status)
	assert.NotEmpty(t, payment.ID)
	assert.Len(t, dispatcher.payments, 1)
}

func TestSubmitPaymentTariffMismatch(t *testing.T) {
	svc, store, _, _, _ := newTestService()
	org := pendingOrg(store, "org1")

	_, err := svc.SubmitPayment(context.Background(), org.ID,
		types.TariffRenewal, types.PaymentTypeFirst, org.ID+"/receipt.pdf")

	var validation *types.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "amount", validation.Field)
	assert.Empty(t, store.payments)
}

func TestSubmitPaymentNotDue(t *testing.T) {
	svc, store, _, _, clock := newTestService()
	org := pendingOrg(store, "org1")
	// Verified payment in the same membership year as the fake clock.
	seedPayment(store, org.ID, types.PaymentStatusApproved, types.PaymentTypeFirst, clock.Now())

	_, err := svc.SubmitPayment(context.Background(), org.ID,
		types.TariffRenewal, types.PaymentTypeRenewal, org.ID+"/receipt.pdf")

	var state *types.InvalidStateError
	require.ErrorAs(t, err, &state)
	assert.Equal(t, string(types.PaymentTypeNotDue), state.Status)
}

func TestSubmitPaymentTypeMustMatchWhatIsDue(t *testing.T) {
	svc, store, _, _, _ := newTestService()
	org := pendingOrg(store, "org1")

	// Nothing verified yet, so a renewal submission is the wrong type.
	_, err := svc.SubmitPayment(context.Background(), org.ID,
		types.TariffRenewal, types.PaymentTypeRenewal, org.ID+"/receipt.pdf")

	var validation *types.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "payment_type", validation.Field)
}

func TestSubmitPaymentRequiresReceipt(t *testing.T) {
	svc, store, _, _, _ := newTestService()
	org := pendingOrg(store, "org1")

	_, err := svc.SubmitPayment(context.Background(), org.ID,
		types.TariffFirstRegistration, types.PaymentTypeFirst, "  ")

	var validation *types.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "receipt", validation.Field)
}

func TestSubmitRenewalAfterMembershipYearLapsed(t *testing.T) {
	svc, store, _, _, _ := newTestService()
	org := pendingOrg(store, "org1")
	seedPayment(store, org.ID, types.PaymentStatusApproved, types.PaymentTypeFirst,
		time.Date(2024, time.July, 1, 10, 0, 0, 0, time.UTC))

	// Fake clock sits in March 2025, past Jan 1 of the following year.
	payment, err := svc.SubmitPayment(context.Background(), org.ID,
		types.TariffRenewal, types.PaymentTypeRenewal, org.ID+"/receipt.pdf")
	require.NoError(t, err)
	assert.Equal(t, types.PaymentTypeRenewal, payment.PaymentType)
}

func TestApprovePayment(t *testing.T) {
	svc, store, _, _, clock := newTestService()
	org := pendingOrg(store, "org1")
	payment := seedPayment(store, org.ID, types.PaymentStatusPending, types.PaymentTypeFirst, clock.Now())

	err := svc.ApprovePayment(context.Background(), payment.ID, reviewer())
	require.NoError(t, err)

	assert.Equal(t, types.PaymentStatusApproved, store.payments[payment.ID].Status)
	last := store.events[len(store.events)-1]
	assert.Equal(t, types.EventTypeSuccess, last.Type)
	assert.Equal(t, "Payment Approved", last.Title)
}

func TestApprovePaymentAlreadyDecided(t *testing.T) {
	svc, store, _, _, clock := newTestService()
	org := pendingOrg(store, "org1")
	payment := seedPayment(store, org.ID, types.PaymentStatusApproved, types.PaymentTypeFirst, clock.Now())

	err := svc.ApprovePayment(context.Background(), payment.ID, reviewer())

	var state *types.InvalidStateError
	require.ErrorAs(t, err, &state)
	assert.Equal(t, string(types.PaymentStatusApproved), state.Status)
}

func TestApprovePaymentDeniedWithoutCapability(t *testing.T) {
	svc, store, _, _, clock := newTestService()
	org := pendingOrg(store, "org1")
	payment := seedPayment(store, org.ID, types.PaymentStatusPending, types.PaymentTypeFirst, clock.Now())

	inactive := reviewer()
	inactive.IsActive = false

	err := svc.ApprovePayment(context.Background(), payment.ID, inactive)

	var denied *types.PermissionError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, types.PaymentStatusPending, store.payments[payment.ID].Status)
}

func TestRejectPayment(t *testing.T) {
	svc, store, _, dispatcher, clock := newTestService()
	org := pendingOrg(store, "org1")
	payment := seedPayment(store, org.ID, types.PaymentStatusPending, types.PaymentTypeFirst, clock.Now())

	err := svc.RejectPayment(context.Background(), payment.ID, "receipt does not match amount", true, reviewer())
	require.NoError(t, err)

	stored := store.payments[payment.ID]
	assert.Equal(t, types.PaymentStatusRejected, stored.Status)
	assert.Equal(t, "receipt does not match amount", utils.PtrString(stored.RejectionReason))
	assert.Len(t, dispatcher.decisions, 1)

	last := store.events[len(store.events)-1]
	assert.Equal(t, types.EventTypeError, last.Type)
	assert.Equal(t, "receipt does not match amount", types.ReasonFromMessage(last.Message))
}

func TestRejectPaymentWithoutEmail(t *testing.T) {
	svc, store, _, dispatcher, clock := newTestService()
	org := pendingOrg(store, "org1")
	payment := seedPayment(store, org.ID, types.PaymentStatusPending, types.PaymentTypeFirst, clock.Now())

	require.NoError(t, svc.RejectPayment(context.Background(), payment.ID, "duplicate receipt", false, reviewer()))
	assert.Empty(t, dispatcher.decisions)
}

func TestRejectPaymentBlankReason(t *testing.T) {
	svc, store, _, _, clock := newTestService()
	org := pendingOrg(store, "org1")
	payment := seedPayment(store, org.ID, types.PaymentStatusPending, types.PaymentTypeFirst, clock.Now())

	err := svc.RejectPayment(context.Background(), payment.ID, "", true, reviewer())

	var validation *types.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, types.PaymentStatusPending, store.payments[payment.ID].Status)
}

func TestRejectedPaymentAllowsResubmission(t *testing.T) {
	svc, store, _, _, clock := newTestService()
	org := pendingOrg(store, "org1")
	payment := seedPayment(store, org.ID, types.PaymentStatusPending, types.PaymentTypeFirst, clock.Now())

	require.NoError(t, svc.RejectPayment(context.Background(), payment.ID, "wrong amount on receipt", false, reviewer()))

	resubmitted, err := svc.SubmitPayment(context.Background(), org.ID,
		types.TariffFirstRegistration, types.PaymentTypeFirst, org.ID+"/receipt2.pdf")
	require.NoError(t, err)
	assert.Equal(t, types.PaymentStatusPending, resubmitted.Status)
}

func TestPaymentDecisionStalePayment(t *testing.T) {
	svc, store, _, _, clock := newTestService()
	org := pendingOrg(store, "org1")
	payment := seedPayment(store, org.ID, types.PaymentStatusPending, types.PaymentTypeFirst, clock.Now())
	store.failDecision = types.ErrStalePayment

	err := svc.ApprovePayment(context.Background(), payment.ID, reviewer())
	assert.ErrorIs(t, err, types.ErrStalePayment)
}
