package seed

import (
	"context"
	"fmt"

	"github.com/umphart/kaccimapro-sub001/internal/store"
	"github.com/umphart/kaccimapro-sub001/pkg/types"
)

// SeedAdmins upserts the review team. This file is the source of truth for
// admin records:
// - user_id must match the Cognito subject of the account
// - admin_type decides what the account may do: reviewers handle documents
//   and payments, approvers additionally make the final organization call
// - set IsActive to false to revoke access without deleting history
func SeedAdmins(ctx context.Context, repo *store.AdminRepository) error {
	admins := []types.Admin{
		{
			UserID:    "8d2f1c44-9a31-4a0e-b1de-seedapprover1",
			Email:     "membership@kaccima.org.ng",
			AdminType: types.AdminTypeApprover,
			IsActive:  true,
		},
		{
			UserID:    "5b7e0a92-4c18-4f6d-a3c7-seedreviewer1",
			Email:     "registry@kaccima.org.ng",
			AdminType: types.AdminTypeReviewer,
			IsActive:  true,
		},
		{
			UserID:    "1f9c6d03-7e25-4b84-92ab-seedreviewer2",
			Email:     "payments@kaccima.org.ng",
			AdminType: types.AdminTypeReviewer,
			IsActive:  true,
		},
	}

	for _, admin := range admins {
		a := admin
		if err := repo.UpsertAdmin(ctx, &a); err != nil {
			return fmt.Errorf("upsert admin %s: %w", admin.Email, err)
		}
	}

	return nil
}
