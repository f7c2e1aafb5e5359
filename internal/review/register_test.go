package review

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/umphart/kaccimapro-sub001/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterOrganization(t *testing.T) {
	svc, store, blobs, dispatcher, _ := newTestService()

	input := RegistrationInput{
		UserID:             "user-9",
		Name:               " Acme Trading Ltd ",
		RegistrationNumber: "RC-123456",
		Email:              "info@acme.test",
		Phone:              "+2348012345678",
		Address:            "12 Bompai Road, Kano",
		BusinessType:       "Trading",
		ContactPerson:      "A. Bello",
		Documents: []DocumentUpload{
			{Key: types.DocKeyCoverLetter, Upload: pdfUpload("%PDF-1.4 cover")},
			{Key: types.DocKeyApplicationForm, Upload: pdfUpload("%PDF-1.4 form")},
		},
	}

	org, err := svc.RegisterOrganization(context.Background(), input)
	require.NoError(t, err)

	assert.NotEmpty(t, org.ID)
	assert.Equal(t, "Acme Trading Ltd", org.Name)
	assert.Equal(t, types.OrganizationStatusPending, store.orgs[org.ID].Status)
	assert.NotNil(t, org.DocumentPath(types.DocKeyCoverLetter))
	assert.NotNil(t, org.DocumentPath(types.DocKeyApplicationForm))
	assert.Nil(t, org.DocumentPath(types.DocKeyCertificate))
	assert.Len(t, blobs.objects, 2)
	assert.Equal(t, []string{org.ID}, dispatcher.registrations)

	require.Len(t, store.events, 1)
	assert.Equal(t, types.EventTypeInfo, store.events[0].Type)
	assert.Equal(t, types.EventCategoryAdmin, store.events[0].Category)
}

func TestRegisterOrganizationMissingDocumentsResolveAsMissing(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	org, err := svc.RegisterOrganization(context.Background(), RegistrationInput{
		UserID: "user-9",
		Name:   "Acme Trading Ltd",
		Email:  "info@acme.test",
	})
	require.NoError(t, err)

	states, err := svc.DocumentStates(context.Background(), org.ID)
	require.NoError(t, err)
	for key, state := range states {
		assert.Equal(t, types.DocumentStatusMissing, state.Status, key)
	}
}

func TestRegisterOrganizationValidation(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.RegisterOrganization(context.Background(), RegistrationInput{Email: "info@acme.test"})
	var validation *types.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "name", validation.Field)

	_, err = svc.RegisterOrganization(context.Background(), RegistrationInput{Name: "Acme"})
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "email", validation.Field)
}

func TestRegisterOrganizationUnknownDocumentKey(t *testing.T) {
	svc, store, _, _, _ := newTestService()

	_, err := svc.RegisterOrganization(context.Background(), RegistrationInput{
		Name:  "Acme",
		Email: "info@acme.test",
		Documents: []DocumentUpload{
			{Key: "passport_path", Upload: pdfUpload("%PDF")},
		},
	})

	assert.ErrorIs(t, err, types.ErrDocumentNotFound)
	assert.Empty(t, store.orgs)
}

func TestRegisterOrganizationRejectsPdfLogo(t *testing.T) {
	svc, store, _, _, _ := newTestService()

	logo := pdfUpload("%PDF-1.4 logo")
	_, err := svc.RegisterOrganization(context.Background(), RegistrationInput{
		Name:  "Acme",
		Email: "info@acme.test",
		Logo:  &logo,
	})

	var validation *types.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "logo", validation.Field)
	assert.Empty(t, store.orgs)
}

func TestRegisterOrganizationStoresLogoInLogosBucket(t *testing.T) {
	svc, store, blobs, _, _ := newTestService()

	logo := Upload{
		Body:        bytes.NewReader([]byte{0x89, 'P', 'N', 'G'}),
		Size:        4,
		ContentType: "image/png",
	}
	org, err := svc.RegisterOrganization(context.Background(), RegistrationInput{
		Name:  "Acme",
		Email: "info@acme.test",
		Logo:  &logo,
	})
	require.NoError(t, err)

	require.NotNil(t, store.orgs[org.ID].LogoPath)
	assert.Contains(t, blobs.objects, "logos/"+*store.orgs[org.ID].LogoPath)
}

func TestRegisterOrganizationStorageFailure(t *testing.T) {
	svc, store, blobs, dispatcher, _ := newTestService()
	blobs.failPut = errors.New("bucket unavailable")

	_, err := svc.RegisterOrganization(context.Background(), RegistrationInput{
		Name:  "Acme",
		Email: "info@acme.test",
		Documents: []DocumentUpload{
			{Key: types.DocKeyCoverLetter, Upload: pdfUpload("%PDF")},
		},
	})

	var storageErr *types.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Empty(t, store.orgs, "no row without its blobs")
	assert.Empty(t, dispatcher.registrations)
}
