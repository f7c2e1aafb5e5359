package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/umphart/kaccimapro-sub001/internal/registry"
	"github.com/umphart/kaccimapro-sub001/internal/review"
	"github.com/umphart/kaccimapro-sub001/pkg/types"
)

// maxIntakeMemory bounds the in-memory portion of a multipart registration;
// larger files spill to disk.
const maxIntakeMemory = 32 << 20

func (s *Service) handleCreateOrganization(w http.ResponseWriter, r *http.Request) {
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

	var input review.RegistrationInput
	if err := decoder.Decode(&input, r.MultipartForm.Value); err != nil {
		s.logger.WithError(err).Error("failed to decode registration form")
		s.respondErrorMessage(w, http.StatusBadRequest, "invalid registration form")
		return
	}
	input.UserID = userID

	for _, desc := range registry.All() {
		file, header, err := r.FormFile(desc.Key)
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				continue
			}
			s.respondErrorMessage(w, http.StatusBadRequest, "invalid file upload")
			return
		}
		defer file.Close()

		input.Documents = append(input.Documents, review.DocumentUpload{
			Key: desc.Key,
			Upload: review.Upload{
				Body:        file,
				Size:        header.Size,
				ContentType: header.Header.Get("Content-Type"),
			},
		})
	}

	if file, header, err := r.FormFile("logo"); err == nil {
		defer file.Close()
		input.Logo = &review.Upload{
			Body:        file,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
		}
	}

	org, err := s.review.RegisterOrganization(r.Context(), input)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, org)
}

func (s *Service) handleGetOwnOrganization(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondErrorMessage(w, http.StatusUnauthorized, "authentication required")
		return
	}

	org, err := s.orgRepo.OrganizationByUser(r.Context(), userID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, org)
}

func (s *Service) handleListOrganizations(w http.ResponseWriter, r *http.Request) {
	status := types.OrganizationStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = types.OrganizationStatusPending
	}

	switch status {
	case types.OrganizationStatusPending, types.OrganizationStatusApproved, types.OrganizationStatusRejected:
	default:
		s.respondErrorMessage(w, http.StatusBadRequest, "unknown status")
		return
	}

	orgs, err := s.orgRepo.OrganizationsByStatus(r.Context(), status)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, orgs)
}

func (s *Service) handleGetOrganization(w http.ResponseWriter, r *http.Request) {
	orgID := r.PathValue("id")

	org, err := s.orgRepo.Organization(r.Context(), orgID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	states, err := s.review.DocumentStates(r.Context(), orgID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	summary := review.Summarize(states)

	s.respondJSON(w, http.StatusOK, map[string]any{
		"organization": org,
		"documents":    documentList(states),
		"summary":      summary,
	})
}

func (s *Service) handleGetDocuments(w http.ResponseWriter, r *http.Request) {
	orgID := r.PathValue("id")

	if err := s.authorizeOrganizationAccess(r, orgID); err != nil {
		s.respondError(w, err)
		return
	}

	states, err := s.review.DocumentStates(r.Context(), orgID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, documentList(states))
}

func (s *Service) handleApproveOrganization(w http.ResponseWriter, r *http.Request) {
	orgID := r.PathValue("id")

	if err := s.review.ApproveOrganization(r.Context(), orgID, s.adminFromContext(r.Context())); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": string(types.OrganizationStatusApproved)})
}

func (s *Service) handleRejectOrganization(w http.ResponseWriter, r *http.Request) {
	orgID := r.PathValue("id")
	reason := strings.TrimSpace(r.FormValue("reason"))

	if err := s.review.RejectOrganization(r.Context(), orgID, reason, s.adminFromContext(r.Context())); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": string(types.OrganizationStatusRejected)})
}

// authorizeOrganizationAccess allows the organization's own user and any
// active admin.
func (s *Service) authorizeOrganizationAccess(r *http.Request, orgID string) error {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		return &types.PermissionError{Capability: "view_organization"}
	}

	org, err := s.orgRepo.Organization(r.Context(), orgID)
	if err != nil {
		return err
	}
	if org.UserID == userID {
		return nil
	}

	admin, err := s.adminRepo.Admin(r.Context(), userID)
	if err == nil && admin.Can(types.CapabilityViewAdminDashboard) {
		return nil
	}

	return &types.PermissionError{UserID: userID, Capability: "view_organization"}
}

// documentList flattens resolved states into catalog order for stable JSON
// output.
func documentList(states map[string]types.DocumentState) []types.DocumentState {
	out := make([]types.DocumentState, 0, len(states))
	for _, desc := range registry.All() {
		out = append(out, states[desc.Key])
	}
	return out
}
