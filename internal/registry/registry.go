// Package registry holds the fixed catalog of registration document types.
package registry

import (
	"fmt"

	"github.com/umphart/kaccimapro-sub001/pkg/types"
)

// DocumentTypeDescriptor describes one of the document types an organization
// submits with its application.
type DocumentTypeDescriptor struct {
	Key                  string
	DisplayName          string
	Required             bool
	Bucket               string
	RejectionReasonField string
}

// catalog is fixed at deploy time. Order matters for display; keys must be
// unique.
var catalog = []DocumentTypeDescriptor{
	{Key: types.DocKeyCoverLetter, DisplayName: "Cover Letter", Required: true, Bucket: "documents", RejectionReasonField: "cover_letter_rejection_reason"},
	{Key: types.DocKeyApplicationForm, DisplayName: "Application Form", Required: true, Bucket: "documents", RejectionReasonField: "application_form_rejection_reason"},
	{Key: types.DocKeyCertificate, DisplayName: "Certificate of Incorporation", Required: true, Bucket: "documents", RejectionReasonField: "certificate_rejection_reason"},
	{Key: types.DocKeyTaxClearance, DisplayName: "Tax Clearance Certificate", Required: true, Bucket: "documents", RejectionReasonField: "tax_clearance_rejection_reason"},
	{Key: types.DocKeyAnnualReturns, DisplayName: "Annual Returns", Required: true, Bucket: "documents", RejectionReasonField: "annual_returns_rejection_reason"},
	{Key: types.DocKeyEvidenceOfPayment, DisplayName: "Evidence of Payment", Required: true, Bucket: "documents", RejectionReasonField: "evidence_of_payment_rejection_reason"},
	{Key: types.DocKeyMemorandum, DisplayName: "Memorandum and Articles of Association", Required: false, Bucket: "documents", RejectionReasonField: "memorandum_rejection_reason"},
	{Key: types.DocKeyPremisesCertificate, DisplayName: "Premises Registration Certificate", Required: false, Bucket: "documents", RejectionReasonField: "premises_certificate_rejection_reason"},
}

var byKey = func() map[string]DocumentTypeDescriptor {
	m := make(map[string]DocumentTypeDescriptor, len(catalog))
	for _, d := range catalog {
		if _, dup := m[d.Key]; dup {
			panic(fmt.Sprintf("duplicate document key %q", d.Key))
		}
		m[d.Key] = d
	}
	return m
}()

// All returns every descriptor in catalog order.
func All() []DocumentTypeDescriptor {
	out := make([]DocumentTypeDescriptor, len(catalog))
	copy(out, catalog)
	return out
}

// Required returns the descriptors that must be approved before the
// organization can be approved.
func Required() []DocumentTypeDescriptor {
	out := make([]DocumentTypeDescriptor, 0, len(catalog))
	for _, d := range catalog {
		if d.Required {
			out = append(out, d)
		}
	}
	return out
}

// Lookup returns the descriptor for a document key.
func Lookup(key string) (DocumentTypeDescriptor, bool) {
	d, ok := byKey[key]
	return d, ok
}
