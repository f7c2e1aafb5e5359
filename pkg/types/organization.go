package types

import "time"

type OrganizationStatus string

const (
	OrganizationStatusPending  OrganizationStatus = "pending"
	OrganizationStatusApproved OrganizationStatus = "approved"
	OrganizationStatusRejected OrganizationStatus = "rejected"
)

// Organization is a registering company whose membership application is under
// review. One nullable path column per document type; nil means "not uploaded".
type Organization struct {
	ID     string `db:"id" json:"id"`
	UserID string `db:"user_id" json:"userId"`

	Name               string  `db:"name" json:"name" form:"name"`
	RegistrationNumber string  `db:"registration_number" json:"registrationNumber" form:"registration_number"`
	Email              string  `db:"email" json:"email" form:"email"`
	Phone              string  `db:"phone" json:"phone" form:"phone"`
	Address            string  `db:"address" json:"address" form:"address"`
	BusinessType       *string `db:"business_type" json:"businessType" form:"business_type"`
	ContactPerson      *string `db:"contact_person" json:"contactPerson" form:"contact_person"`
	LogoPath           *string `db:"logo_path" json:"logoPath"`

	Status OrganizationStatus `db:"status" json:"status"`

	CoverLetterPath         *string `db:"cover_letter_path" json:"coverLetterPath"`
	ApplicationFormPath     *string `db:"application_form_path" json:"applicationFormPath"`
	CertificatePath         *string `db:"certificate_path" json:"certificatePath"`
	TaxClearancePath        *string `db:"tax_clearance_path" json:"taxClearancePath"`
	AnnualReturnsPath       *string `db:"annual_returns_path" json:"annualReturnsPath"`
	EvidenceOfPaymentPath   *string `db:"evidence_of_payment_path" json:"evidenceOfPaymentPath"`
	MemorandumPath          *string `db:"memorandum_path" json:"memorandumPath"`
	PremisesCertificatePath *string `db:"premises_certificate_path" json:"premisesCertificatePath"`

	CoverLetterRejectionReason         *string `db:"cover_letter_rejection_reason" json:"-"`
	ApplicationFormRejectionReason     *string `db:"application_form_rejection_reason" json:"-"`
	CertificateRejectionReason         *string `db:"certificate_rejection_reason" json:"-"`
	TaxClearanceRejectionReason        *string `db:"tax_clearance_rejection_reason" json:"-"`
	AnnualReturnsRejectionReason       *string `db:"annual_returns_rejection_reason" json:"-"`
	EvidenceOfPaymentRejectionReason   *string `db:"evidence_of_payment_rejection_reason" json:"-"`
	MemorandumRejectionReason          *string `db:"memorandum_rejection_reason" json:"-"`
	PremisesCertificateRejectionReason *string `db:"premises_certificate_rejection_reason" json:"-"`

	ReUploadCount  int        `db:"re_upload_count" json:"reUploadCount"`
	LastReUploadAt *time.Time `db:"last_re_upload_at" json:"lastReUploadAt"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// DocumentPath returns the stored path for a document key, nil when the
// document has not been uploaded or the key is unknown.
func (o *Organization) DocumentPath(key string) *string {
	switch key {
	case DocKeyCoverLetter:
		return o.CoverLetterPath
	case DocKeyApplicationForm:
		return o.ApplicationFormPath
	case DocKeyCertificate:
		return o.CertificatePath
	case DocKeyTaxClearance:
		return o.TaxClearancePath
	case DocKeyAnnualReturns:
		return o.AnnualReturnsPath
	case DocKeyEvidenceOfPayment:
		return o.EvidenceOfPaymentPath
	case DocKeyMemorandum:
		return o.MemorandumPath
	case DocKeyPremisesCertificate:
		return o.PremisesCertificatePath
	}
	return nil
}

func (o *Organization) SetDocumentPath(key string, path *string) {
	switch key {
	case DocKeyCoverLetter:
		o.CoverLetterPath = path
	case DocKeyApplicationForm:
		o.ApplicationFormPath = path
	case DocKeyCertificate:
		o.CertificatePath = path
	case DocKeyTaxClearance:
		o.TaxClearancePath = path
	case DocKeyAnnualReturns:
		o.AnnualReturnsPath = path
	case DocKeyEvidenceOfPayment:
		o.EvidenceOfPaymentPath = path
	case DocKeyMemorandum:
		o.MemorandumPath = path
	case DocKeyPremisesCertificate:
		o.PremisesCertificatePath = path
	}
}

// DocumentRejectionReason returns the durable per-document rejection reason
// column, independent of event-log replay.
func (o *Organization) DocumentRejectionReason(key string) *string {
	switch key {
	case DocKeyCoverLetter:
		return o.CoverLetterRejectionReason
	case DocKeyApplicationForm:
		return o.ApplicationFormRejectionReason
	case DocKeyCertificate:
		return o.CertificateRejectionReason
	case DocKeyTaxClearance:
		return o.TaxClearanceRejectionReason
	case DocKeyAnnualReturns:
		return o.AnnualReturnsRejectionReason
	case DocKeyEvidenceOfPayment:
		return o.EvidenceOfPaymentRejectionReason
	case DocKeyMemorandum:
		return o.MemorandumRejectionReason
	case DocKeyPremisesCertificate:
		return o.PremisesCertificateRejectionReason
	}
	return nil
}

func (o *Organization) SetDocumentRejectionReason(key string, reason *string) {
	switch key {
	case DocKeyCoverLetter:
		o.CoverLetterRejectionReason = reason
	case DocKeyApplicationForm:
		o.ApplicationFormRejectionReason = reason
	case DocKeyCertificate:
		o.CertificateRejectionReason = reason
	case DocKeyTaxClearance:
		o.TaxClearanceRejectionReason = reason
	case DocKeyAnnualReturns:
		o.AnnualReturnsRejectionReason = reason
	case DocKeyEvidenceOfPayment:
		o.EvidenceOfPaymentRejectionReason = reason
	case DocKeyMemorandum:
		o.MemorandumRejectionReason = reason
	case DocKeyPremisesCertificate:
		o.PremisesCertificateRejectionReason = reason
	}
}
