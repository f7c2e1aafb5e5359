package types

// Document key constants. One per column on the organizations table; the set
// is fixed at deploy time (see internal/registry).
const (
	DocKeyCoverLetter         = "cover_letter_path"
	DocKeyApplicationForm     = "application_form_path"
	DocKeyCertificate         = "certificate_path"
	DocKeyTaxClearance        = "tax_clearance_path"
	DocKeyAnnualReturns       = "annual_returns_path"
	DocKeyEvidenceOfPayment   = "evidence_of_payment_path"
	DocKeyMemorandum          = "memorandum_path"
	DocKeyPremisesCertificate = "premises_certificate_path"
)

type DocumentStatus string

const (
	DocumentStatusMissing  DocumentStatus = "missing"
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusApproved DocumentStatus = "approved"
	DocumentStatusRejected DocumentStatus = "rejected"
)

// DocumentState is the resolved review state of a single document. Derived,
// never stored; compute it by replaying the event log.
type DocumentState struct {
	Key             string         `json:"key"`
	DisplayName     string         `json:"displayName"`
	Required        bool           `json:"required"`
	Status          DocumentStatus `json:"status"`
	Path            string         `json:"path,omitempty"`
	RejectionReason string         `json:"rejectionReason,omitempty"`
}

// DocumentSummary counts resolved document states for an organization. Returned
// inside PreconditionFailedError so callers can render which documents block
// approval.
type DocumentSummary struct {
	Approved int      `json:"approved"`
	Pending  int      `json:"pending"`
	Rejected int      `json:"rejected"`
	Missing  int      `json:"missing"`
	Blocking []string `json:"blocking,omitempty"`
}
