package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/umphart/kaccimapro-sub001/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResponder() *Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &Service{logger: logger}
}

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", types.NewValidationError("reason", "rejection reason is required"), http.StatusBadRequest},
		{"permission", &types.PermissionError{UserID: "u1", Capability: types.CapabilityDecideOrganization}, http.StatusForbidden},
		{"org not found", types.ErrOrganizationNotFound, http.StatusNotFound},
		{"payment not found", fmt.Errorf("load payment: %w", types.ErrPaymentNotFound), http.StatusNotFound},
		{"document not found", types.ErrDocumentNotFound, http.StatusNotFound},
		{"stale organization", types.ErrStaleOrganization, http.StatusPreconditionFailed},
		{"invalid state", &types.InvalidStateError{Entity: "organization", ID: "o1", Status: "rejected"}, http.StatusConflict},
		{"precondition", &types.PreconditionFailedError{Message: "outstanding documents"}, http.StatusPreconditionFailed},
		{"storage", &types.StorageError{Op: "put", Bucket: "documents", Path: "o1/x.pdf", Err: errors.New("timeout")}, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	svc := testResponder()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			svc.respondError(rec, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestRespondErrorPreconditionCarriesDocumentSummary(t *testing.T) {
	svc := testResponder()
	rec := httptest.NewRecorder()

	svc.respondError(rec, &types.PreconditionFailedError{
		Message: "organization has outstanding document issues",
		Documents: &types.DocumentSummary{
			Approved: 5,
			Rejected: 1,
			Blocking: []string{types.DocKeyCertificate},
		},
	})

	require.Equal(t, http.StatusPreconditionFailed, rec.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Documents)
	assert.Equal(t, []string{types.DocKeyCertificate}, body.Documents.Blocking)
	assert.Equal(t, 1, body.Documents.Rejected)
}

func TestRespondErrorUnknownHidesDetail(t *testing.T) {
	svc := testResponder()
	rec := httptest.NewRecorder()

	svc.respondError(rec, errors.New("pq: connection refused"))

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body.Error)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}
