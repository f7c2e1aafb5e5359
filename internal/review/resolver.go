package review

import (
	"context"
	"strings"

	"github.com/umphart/kaccimapro-sub001/internal/registry"
	"github.com/umphart/kaccimapro-sub001/internal/utils"
	"github.com/umphart/kaccimapro-sub001/pkg/types"
)

// Resolve derives the current review state of every document from the
// organization row and its workflow events. Pure: no I/O, no caching. Events
// must be ordered newest first (created_at desc, seq desc) — the first match
// per document wins.
func Resolve(org *types.Organization, events []*types.Event) map[string]types.DocumentState {

	states := make(map[string]types.DocumentState, len(registry.All()))

	for _, desc := range registry.All() {
		state := types.DocumentState{
			Key:         desc.Key,
			DisplayName: desc.DisplayName,
			Required:    desc.Required,
		}

		path := org.DocumentPath(desc.Key)
		if path == nil || *path == "" {
			state.Status = types.DocumentStatusMissing
			states[desc.Key] = state
			continue
		}
		state.Path = *path

		event := latestDocumentEvent(desc, events)
		if event == nil {
			state.Status = types.DocumentStatusPending
			states[desc.Key] = state
			continue
		}

		switch event.Type {
		case types.EventTypeDocumentApproved:
			state.Status = types.DocumentStatusApproved
		case types.EventTypeDocumentRejected:
			state.Status = types.DocumentStatusRejected
			state.RejectionReason = rejectionReason(org, desc, event)
		case types.EventTypeDocumentReuploaded:
			state.Status = types.DocumentStatusPending
		default:
			state.Status = types.DocumentStatusPending
		}

		states[desc.Key] = state
	}

	return states
}

// latestDocumentEvent finds the most recent event for a document. Events
// written since the document_key column exists join on key equality; older
// rows fall back to matching the display name as a substring of title or
// message. The substring match can fire on a coincidental mention of the name
// in unrelated text — a known limitation of the legacy rows, which is why new
// writes always carry the key.
func latestDocumentEvent(desc registry.DocumentTypeDescriptor, events []*types.Event) *types.Event {
	for _, event := range events {
		if event.DocumentKey != nil && *event.DocumentKey != "" {
			if *event.DocumentKey == desc.Key {
				return event
			}
			continue
		}

		if strings.Contains(event.Title, desc.DisplayName) || strings.Contains(event.Message, desc.DisplayName) {
			return event
		}
	}
	return nil
}

// rejectionReason pulls the reason out of the event message, falling back to
// the durable column on the organization row.
func rejectionReason(org *types.Organization, desc registry.DocumentTypeDescriptor, event *types.Event) string {
	if reason := types.ReasonFromMessage(event.Message); reason != "" {
		return reason
	}
	return utils.PtrString(org.DocumentRejectionReason(desc.Key))
}

// DocumentStates loads an organization's events and resolves its document
// states.
func (s *Service) DocumentStates(ctx context.Context, orgID string) (map[string]types.DocumentState, error) {
	org, err := s.orgs.Organization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	events, err := s.events.WorkflowEvents(ctx, orgID)
	if err != nil {
		return nil, err
	}

	return Resolve(org, events), nil
}

// Summarize counts resolved states and collects the keys blocking
// organization approval: required documents not yet approved, plus any
// document (required or not) currently rejected.
func Summarize(states map[string]types.DocumentState) types.DocumentSummary {
	var summary types.DocumentSummary

	for _, desc := range registry.All() {
		state := states[desc.Key]

		switch state.Status {
		case types.DocumentStatusApproved:
			summary.Approved++
		case types.DocumentStatusPending:
			summary.Pending++
		case types.DocumentStatusRejected:
			summary.Rejected++
		case types.DocumentStatusMissing:
			summary.Missing++
		}

		blocking := state.Status == types.DocumentStatusRejected ||
			(desc.Required && state.Status != types.DocumentStatusApproved)
		if blocking {
			summary.Blocking = append(summary.Blocking, desc.Key)
		}
	}

	return summary
}
