package review

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/umphart/kaccimapro-sub001/internal/registry"
	"github.com/umphart/kaccimapro-sub001/internal/utils"
	"github.com/umphart/kaccimapro-sub001/pkg/types"

	"github.com/sirupsen/logrus"
)

// MaxUploadBytes caps registration document uploads at 10MB.
const MaxUploadBytes = 10 << 20

// uploadTimeout bounds the blob write so a hung transfer surfaces as a
// StorageError instead of holding the request open.
const uploadTimeout = 30 * time.Second

// allowedUploadTypes whitelists upload MIME types and maps them to the file
// extension used in storage paths.
var allowedUploadTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/jpg":       ".jpg",
	"image/png":       ".png",
}

// Upload is a replacement file submitted in response to a document rejection.
type Upload struct {
	Body        io.Reader
	Size        int64
	ContentType string
}

// ReuploadDocument stores a replacement file for a previously rejected
// document, clears the rejection state and resets the document to pending
// review. The blob is written fully before any row mutation: a failed upload
// leaves the prior state intact, and an orphaned blob after a later failure is
// cleaned up out-of-band.
func (s *Service) ReuploadDocument(ctx context.Context, orgID, docKey string, upload Upload, userID string) (string, error) {

	desc, ok := registry.Lookup(docKey)
	if !ok {
		return "", types.ErrDocumentNotFound
	}

	ext, ok := allowedUploadTypes[upload.ContentType]
	if !ok {
		return "", types.NewValidationError("file", fmt.Sprintf("unsupported file type %s", upload.ContentType))
	}

	if upload.Size > MaxUploadBytes {
		return "", types.NewValidationError("file", "file exceeds the 10MB limit")
	}

	org, err := s.pendingOrganization(ctx, orgID)
	if err != nil {
		return "", err
	}

	if userID != "" && org.UserID != userID {
		return "", &types.PermissionError{UserID: userID, Capability: "reupload_document"}
	}

	now := s.now()
	path := fmt.Sprintf("%s/%s_%d%s", org.ID, desc.Key, now.UnixNano(), ext)

	uploadCtx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	if _, err := s.blobs.Put(uploadCtx, s.documentsBucket, path, upload.Body, upload.ContentType); err != nil {
		return "", &types.StorageError{Op: "put", Bucket: s.documentsBucket, Path: path, Err: err}
	}

	events := []*types.Event{
		{
			OrganizationID: org.ID,
			DocumentKey:    utils.StringPtr(desc.Key),
			Type:           types.EventTypeDocumentReuploaded,
			Title:          "Document Re-uploaded",
			Message:        fmt.Sprintf("%s submitted a replacement %s.", org.Name, desc.DisplayName),
			Category:       types.EventCategoryAdmin,
			CreatedAt:      now,
		},
		{
			OrganizationID: org.ID,
			DocumentKey:    utils.StringPtr(desc.Key),
			Type:           types.EventTypeDocumentReuploaded,
			Title:          "Document Re-uploaded",
			Message:        fmt.Sprintf("Your replacement %s is pending review.", desc.DisplayName),
			Category:       types.EventCategoryOrganization,
			CreatedAt:      now,
		},
	}

	if err := s.workflow.RecordReupload(ctx, org.ID, desc, path, now, events); err != nil {
		return "", err
	}

	s.logger.WithFields(logrus.Fields{
		"organization_id": org.ID,
		"document_key":    desc.Key,
		"path":            path,
	}).Info("document re-uploaded")

	return path, nil
}
