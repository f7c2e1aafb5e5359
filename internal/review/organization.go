package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/umphart/kaccimapro-sub001/pkg/types"

	"github.com/sirupsen/logrus"
)

// CheckAllDocumentsApproved reports whether every required document resolves
// to approved. Optional documents never block, even when missing.
func (s *Service) CheckAllDocumentsApproved(ctx context.Context, orgID string) (bool, error) {
	states, err := s.DocumentStates(ctx, orgID)
	if err != nil {
		return false, err
	}
	return allRequiredApproved(states), nil
}

func allRequiredApproved(states map[string]types.DocumentState) bool {
	for _, state := range states {
		if state.Required && state.Status != types.DocumentStatusApproved {
			return false
		}
	}
	return true
}

func anyRejected(states map[string]types.DocumentState) bool {
	for _, state := range states {
		if state.Status == types.DocumentStatusRejected {
			return true
		}
	}
	return false
}

// ApproveOrganization approves the organization as a whole. Fails with a
// structured PreconditionFailedError when any required document is not
// approved or any document sits rejected; the summary tells the caller
// exactly which documents block. Never silently approves over outstanding
// document issues.
func (s *Service) ApproveOrganization(ctx context.Context, orgID string, actor *types.Admin) error {

	if err := requireCapability(actor, types.CapabilityDecideOrganization); err != nil {
		return err
	}

	org, err := s.pendingOrganization(ctx, orgID)
	if err != nil {
		return err
	}

	events, err := s.events.WorkflowEvents(ctx, orgID)
	if err != nil {
		return err
	}

	states := Resolve(org, events)
	if !allRequiredApproved(states) || anyRejected(states) {
		summary := Summarize(states)
		return &types.PreconditionFailedError{
			Message:   "organization has outstanding document issues",
			Documents: &summary,
		}
	}

	event := &types.Event{
		OrganizationID: org.ID,
		Type:           types.EventTypeSuccess,
		Title:          "Organization Approved",
		Message:        fmt.Sprintf("Congratulations! %s has been approved for membership.", org.Name),
		Category:       types.EventCategoryOrganization,
		CreatedAt:      s.now(),
	}

	if err := s.workflow.RecordOrganizationDecision(ctx, org, types.OrganizationStatusApproved, event); err != nil {
		return err
	}

	s.notify.Decision(ctx, org, "Membership approved",
		fmt.Sprintf("%s has been approved for KACCIMA membership.", org.Name))

	s.logger.WithFields(logrus.Fields{
		"organization_id": org.ID,
		"actor":           actor.UserID,
	}).Info("organization approved")

	return nil
}

// RejectOrganization rejects the organization with a mandatory reason.
// Rejection is terminal at the organization level; there is no re-open path.
func (s *Service) RejectOrganization(ctx context.Context, orgID, reason string, actor *types.Admin) error {

	if err := requireCapability(actor, types.CapabilityDecideOrganization); err != nil {
		return err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return types.NewValidationError("reason", "rejection reason is required")
	}

	org, err := s.pendingOrganization(ctx, orgID)
	if err != nil {
		return err
	}

	event := &types.Event{
		OrganizationID: org.ID,
		Type:           types.EventTypeError,
		Title:          "Organization Rejected",
		Message:        fmt.Sprintf("Your registration was rejected. %s%s", types.ReasonMarker, reason),
		Category:       types.EventCategoryOrganization,
		CreatedAt:      s.now(),
	}

	if err := s.workflow.RecordOrganizationDecision(ctx, org, types.OrganizationStatusRejected, event); err != nil {
		return err
	}

	s.notify.Decision(ctx, org, "Membership application rejected", reason)

	s.logger.WithFields(logrus.Fields{
		"organization_id": org.ID,
		"actor":           actor.UserID,
	}).Info("organization rejected")

	return nil
}
