package server

import (
	"net/http"

	"github.com/umphart/kaccimapro-sub001/pkg/types"
)

func (s *Service) handleListEvents(w http.ResponseWriter, r *http.Request) {
	orgID := r.PathValue("id")

	if err := s.authorizeOrganizationAccess(r, orgID); err != nil {
		s.respondError(w, err)
		return
	}

	category := r.URL.Query().Get("category")
	if category == "" {
		category = types.EventCategoryOrganization
	}

	events, err := s.eventRepo.EventsByOrganization(r.Context(), orgID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	filtered := make([]*types.Event, 0, len(events))
	for _, event := range events {
		if event.Category == category {
			filtered = append(filtered, event)
		}
	}

	unread, err := s.eventRepo.UnreadCount(r.Context(), orgID, category)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"events": filtered,
		"unread": unread,
	})
}

func (s *Service) handleMarkEventsRead(w http.ResponseWriter, r *http.Request) {
	orgID := r.PathValue("id")

	if err := s.authorizeOrganizationAccess(r, orgID); err != nil {
		s.respondError(w, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.respondErrorMessage(w, http.StatusBadRequest, "invalid form")
		return
	}
	eventIDs := r.Form["event_id"]
	if len(eventIDs) == 0 {
		s.respondErrorMessage(w, http.StatusBadRequest, "event_id is required")
		return
	}

	if err := s.eventRepo.MarkRead(r.Context(), orgID, eventIDs); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]int{"marked": len(eventIDs)})
}
