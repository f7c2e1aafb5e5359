package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/umphart/kaccimapro-sub001/pkg/types"
)

type errorResponse struct {
	Error     string                 `json:"error"`
	Field     string                 `json:"field,omitempty"`
	Documents *types.DocumentSummary `json:"documents,omitempty"`
}

func (s *Service) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Service) respondErrorMessage(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, errorResponse{Error: message})
}

// respondError maps workflow errors onto HTTP statuses in one place so every
// handler reports the same way.
func (s *Service) respondError(w http.ResponseWriter, err error) {
	var validation *types.ValidationError
	if errors.As(err, &validation) {
		s.respondJSON(w, http.StatusBadRequest, errorResponse{
			Error: validation.Message,
			Field: validation.Field,
		})
		return
	}

	var denied *types.PermissionError
	if errors.As(err, &denied) {
		s.respondJSON(w, http.StatusForbidden, errorResponse{Error: denied.Error()})
		return
	}

	switch {
	case errors.Is(err, types.ErrOrganizationNotFound),
		errors.Is(err, types.ErrPaymentNotFound),
		errors.Is(err, types.ErrDocumentNotFound),
		errors.Is(err, types.ErrAdminNotFound):
		s.respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	case errors.Is(err, types.ErrStaleOrganization), errors.Is(err, types.ErrStalePayment):
		s.respondJSON(w, http.StatusPreconditionFailed, errorResponse{
			Error: "record changed since read, reload and retry",
		})
		return
	}

	var invalidState *types.InvalidStateError
	if errors.As(err, &invalidState) {
		s.respondJSON(w, http.StatusConflict, errorResponse{Error: invalidState.Error()})
		return
	}

	var precondition *types.PreconditionFailedError
	if errors.As(err, &precondition) {
		s.respondJSON(w, http.StatusPreconditionFailed, errorResponse{
			Error:     precondition.Message,
			Documents: precondition.Documents,
		})
		return
	}

	var storageErr *types.StorageError
	if errors.As(err, &storageErr) {
		s.logger.WithError(err).Error("storage backend failure")
		s.respondJSON(w, http.StatusBadGateway, errorResponse{Error: "storage backend unavailable"})
		return
	}

	s.logger.WithError(err).Error("unhandled error")
	s.respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}
