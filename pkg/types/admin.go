package types

import "time"

type AdminType string

const (
	AdminTypeReviewer AdminType = "reviewer"
	AdminTypeApprover AdminType = "approver"
)

// Capability is an explicit permission evaluated once at the engine boundary
// instead of re-checking admin_type strings per screen.
type Capability string

const (
	CapabilityReviewDocument     Capability = "review_document"
	CapabilityDecideOrganization Capability = "decide_organization"
	CapabilityVerifyPayment      Capability = "verify_payment"
	CapabilityViewAdminDashboard Capability = "view_admin_dashboard"
)

type Admin struct {
	UserID    string    `db:"user_id" json:"userId"`
	Email     string    `db:"email" json:"email"`
	AdminType AdminType `db:"admin_type" json:"adminType"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Can reports whether the admin may exercise a capability. Inactive admins can
// do nothing; final organization decisions are reserved for approvers.
func (a *Admin) Can(c Capability) bool {
	if a == nil || !a.IsActive {
		return false
	}

	switch c {
	case CapabilityDecideOrganization:
		return a.AdminType == AdminTypeApprover
	case CapabilityReviewDocument, CapabilityVerifyPayment, CapabilityViewAdminDashboard:
		return a.AdminType == AdminTypeReviewer || a.AdminType == AdminTypeApprover
	}

	return false
}
