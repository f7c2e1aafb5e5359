package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/umphart/kaccimapro-sub001/internal/registry"
	"github.com/umphart/kaccimapro-sub001/internal/utils"
	"github.com/umphart/kaccimapro-sub001/pkg/types"

	"github.com/sirupsen/logrus"
)

// ApproveDocument marks a single document approved. The organization row is
// untouched beyond clearing the durable rejection reason; organization status
// is recomputed lazily at approval time. Re-approving an already approved
// document appends another event and collapses to the same derived state.
func (s *Service) ApproveDocument(ctx context.Context, orgID, docKey string, actor *types.Admin) error {

	if err := requireCapability(actor, types.CapabilityReviewDocument); err != nil {
		return err
	}

	desc, ok := registry.Lookup(docKey)
	if !ok {
		return types.ErrDocumentNotFound
	}

	org, err := s.pendingOrganization(ctx, orgID)
	if err != nil {
		return err
	}

	path := org.DocumentPath(desc.Key)
	if path == nil || *path == "" {
		return &types.PreconditionFailedError{
			Message: fmt.Sprintf("%s has not been uploaded", desc.DisplayName),
		}
	}

	event := &types.Event{
		OrganizationID: org.ID,
		DocumentKey:    utils.StringPtr(desc.Key),
		Type:           types.EventTypeDocumentApproved,
		Title:          "Document Approved",
		Message:        fmt.Sprintf("%s has been approved.", desc.DisplayName),
		Category:       types.EventCategoryOrganization,
		CreatedAt:      s.now(),
	}

	if err := s.workflow.RecordDocumentDecision(ctx, org.ID, desc, nil, event); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"organization_id": org.ID,
		"document_key":    desc.Key,
		"actor":           actor.UserID,
	}).Info("document approved")

	return nil
}

// RejectDocument marks a single document rejected with a mandatory reason.
// The reason is embedded in the event message and persisted on the
// organization row so it survives independent of event-log replay.
func (s *Service) RejectDocument(ctx context.Context, orgID, docKey, reason string, actor *types.Admin) error {

	if err := requireCapability(actor, types.CapabilityReviewDocument); err != nil {
		return err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return types.NewValidationError("reason", "rejection reason is required")
	}

	desc, ok := registry.Lookup(docKey)
	if !ok {
		return types.ErrDocumentNotFound
	}

	org, err := s.pendingOrganization(ctx, orgID)
	if err != nil {
		return err
	}

	event := &types.Event{
		OrganizationID: org.ID,
		DocumentKey:    utils.StringPtr(desc.Key),
		Type:           types.EventTypeDocumentRejected,
		Title:          "Document Rejected",
		Message:        types.RejectionMessage(desc.DisplayName, reason),
		Category:       types.EventCategoryOrganization,
		CreatedAt:      s.now(),
	}

	if err := s.workflow.RecordDocumentDecision(ctx, org.ID, desc, utils.StringPtr(reason), event); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"organization_id": org.ID,
		"document_key":    desc.Key,
		"actor":           actor.UserID,
	}).Info("document rejected")

	return nil
}
