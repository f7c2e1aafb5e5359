package types

import "time"

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusApproved PaymentStatus = "approved"
	// Older rows written by the first portal release use "accepted".
	PaymentStatusAccepted PaymentStatus = "accepted"
	PaymentStatusRejected PaymentStatus = "rejected"
)

// Approved reports whether the status counts as a verified payment.
func (s PaymentStatus) Approved() bool {
	return s == PaymentStatusApproved || s == PaymentStatusAccepted
}

type PaymentType string

const (
	PaymentTypeFirst   PaymentType = "first"
	PaymentTypeRenewal PaymentType = "renewal"
	// PaymentTypeNotDue means the organization's membership year is still
	// running; no new payment may be submitted.
	PaymentTypeNotDue PaymentType = "not_due"
)

// Membership tariffs in naira.
const (
	TariffFirstRegistration int64 = 25000
	TariffRenewal           int64 = 15000
)

// Tariff returns the amount an organization owes for a payment type, or 0 for
// types that carry no charge.
func Tariff(t PaymentType) int64 {
	switch t {
	case PaymentTypeFirst:
		return TariffFirstRegistration
	case PaymentTypeRenewal:
		return TariffRenewal
	}
	return 0
}

type PaymentRecord struct {
	ID              string        `db:"id" json:"id"`
	OrganizationID  string        `db:"organization_id" json:"organizationId"`
	Amount          int64         `db:"amount" json:"amount"`
	PaymentType     PaymentType   `db:"payment_type" json:"paymentType"`
	Status          PaymentStatus `db:"status" json:"status"`
	ReceiptPath     string        `db:"receipt_path" json:"receiptPath"`
	RejectionReason *string       `db:"rejection_reason" json:"rejectionReason,omitempty"`
	CreatedAt       time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updatedAt"`
}
