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

// DocumentUpload pairs a registration document with its catalog key.
type DocumentUpload struct {
	Key    string
	Upload Upload
}

// RegistrationInput is the intake payload for a new membership application.
type RegistrationInput struct {
	UserID             string `form:"-"`
	Name               string `form:"name"`
	RegistrationNumber string `form:"registration_number"`
	Email              string `form:"email"`
	Phone              string `form:"phone"`
	Address            string `form:"address"`
	BusinessType       string `form:"business_type"`
	ContactPerson      string `form:"contact_person"`

	Logo      *Upload          `form:"-"`
	Documents []DocumentUpload `form:"-"`
}

// RegisterOrganization creates a pending organization from an intake
// submission, storing whatever documents were provided. Missing documents are
// fine at intake; they resolve as missing until uploaded. Blobs are written
// before the row so a storage failure leaves nothing behind but orphans.
func (s *Service) RegisterOrganization(ctx context.Context, input RegistrationInput) (*types.Organization, error) {

	if strings.TrimSpace(input.Name) == "" {
		return nil, types.NewValidationError("name", "organization name is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, types.NewValidationError("email", "contact email is required")
	}

	org := &types.Organization{
		ID:                 utils.NanoID(),
		UserID:             input.UserID,
		Name:               strings.TrimSpace(input.Name),
		RegistrationNumber: strings.TrimSpace(input.RegistrationNumber),
		Email:              strings.TrimSpace(input.Email),
		Phone:              strings.TrimSpace(input.Phone),
		Address:            strings.TrimSpace(input.Address),
	}
	if input.BusinessType != "" {
		org.BusinessType = utils.StringPtr(input.BusinessType)
	}
	if input.ContactPerson != "" {
		org.ContactPerson = utils.StringPtr(input.ContactPerson)
	}

	now := s.now()

	for _, doc := range input.Documents {
		desc, ok := registry.Lookup(doc.Key)
		if !ok {
			return nil, types.ErrDocumentNotFound
		}

		ext, ok := allowedUploadTypes[doc.Upload.ContentType]
		if !ok {
			return nil, types.NewValidationError(desc.Key, fmt.Sprintf("unsupported file type %s", doc.Upload.ContentType))
		}
		if doc.Upload.Size > MaxUploadBytes {
			return nil, types.NewValidationError(desc.Key, "file exceeds the 10MB limit")
		}

		path := fmt.Sprintf("%s/%s_%d%s", org.ID, desc.Key, now.UnixNano(), ext)

		uploadCtx, cancel := context.WithTimeout(ctx, uploadTimeout)
		_, err := s.blobs.Put(uploadCtx, s.documentsBucket, path, doc.Upload.Body, doc.Upload.ContentType)
		cancel()
		if err != nil {
			return nil, &types.StorageError{Op: "put", Bucket: s.documentsBucket, Path: path, Err: err}
		}

		org.SetDocumentPath(desc.Key, utils.StringPtr(path))
	}

	if input.Logo != nil {
		ext, ok := allowedUploadTypes[input.Logo.ContentType]
		if !ok || ext == ".pdf" {
			return nil, types.NewValidationError("logo", "logo must be a jpeg or png image")
		}

		path := fmt.Sprintf("%s/logo_%d%s", org.ID, now.UnixNano(), ext)

		uploadCtx, cancel := context.WithTimeout(ctx, uploadTimeout)
		_, err := s.blobs.Put(uploadCtx, s.logosBucket, path, input.Logo.Body, input.Logo.ContentType)
		cancel()
		if err != nil {
			return nil, &types.StorageError{Op: "put", Bucket: s.logosBucket, Path: path, Err: err}
		}

		org.LogoPath = utils.StringPtr(path)
	}

	if err := s.orgs.CreateOrganization(ctx, org); err != nil {
		return nil, err
	}

	event := &types.Event{
		OrganizationID: org.ID,
		Type:           types.EventTypeInfo,
		Title:          "Registration Received",
		Message:        fmt.Sprintf("%s submitted a membership registration.", org.Name),
		Category:       types.EventCategoryAdmin,
		CreatedAt:      now,
	}
	if err := s.events.Append(ctx, event); err != nil {
		s.logger.WithError(err).WithField("organization_id", org.ID).
			Warn("failed to append registration event")
	}

	s.notify.NewRegistration(ctx, org)

	s.logger.WithFields(logrus.Fields{
		"organization_id": org.ID,
		"documents":       len(input.Documents),
	}).Info("organization registered")

	return org, nil
}
