package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/umphart/kaccimapro-sub001/internal/review"
)

func (s *Service) handleApproveDocument(w http.ResponseWriter, r *http.Request) {
	orgID := r.PathValue("id")
	docKey := r.PathValue("key")

	if err := s.review.ApproveDocument(r.Context(), orgID, docKey, s.adminFromContext(r.Context())); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"document": docKey, "status": "approved"})
}

func (s *Service) handleRejectDocument(w http.ResponseWriter, r *http.Request) {
	orgID := r.PathValue("id")
	docKey := r.PathValue("key")
	reason := strings.TrimSpace(r.FormValue("reason"))

	if err := s.review.RejectDocument(r.Context(), orgID, docKey, reason, s.adminFromContext(r.Context())); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"document": docKey, "status": "rejected"})
}

func (s *Service) handleReuploadDocument(w http.ResponseWriter, r *http.Request) {
	orgID := r.PathValue("id")
	docKey := r.PathValue("key")

	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondErrorMessage(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxIntakeMemory); err != nil {
		s.logger.WithError(err).Error("failed to parse multipart form")
		s.respondErrorMessage(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			s.respondErrorMessage(w, http.StatusBadRequest, "replacement file is required")
			return
		}
		s.respondErrorMessage(w, http.StatusBadRequest, "invalid file upload")
		return
	}
	defer file.Close()

	upload := review.Upload{
		Body:        file,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	}

	path, err := s.review.ReuploadDocument(r.Context(), orgID, docKey, upload, userID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{
		"document": docKey,
		"path":     path,
		"status":   "pending",
	})
}
