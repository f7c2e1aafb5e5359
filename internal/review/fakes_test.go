package review

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"time"

	"github.com/umphart/kaccimapro-sub001/internal/registry"
	"github.com/umphart/kaccimapro-sub001/internal/utils"
	"github.com/umphart/kaccimapro-sub001/pkg/types"

	"github.com/sirupsen/logrus"
)

// fakeStore backs all four store interfaces with in-memory state, applying
// the same mutations the Postgres workflow repository commits.
type fakeStore struct {
	orgs     map[string]*types.Organization
	payments map[string]*types.PaymentRecord
	events   []*types.Event
	seq      int64

	failDecision error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orgs:     make(map[string]*types.Organization),
		payments: make(map[string]*types.PaymentRecord),
	}
}

func (f *fakeStore) Organization(_ context.Context, orgID string) (*types.Organization, error) {
	org, ok := f.orgs[orgID]
	if !ok {
		return nil, types.ErrOrganizationNotFound
	}
	copied := *org
	return &copied, nil
}

func (f *fakeStore) CreateOrganization(_ context.Context, org *types.Organization) error {
	if org.ID == "" {
		org.ID = utils.NanoID()
	}
	org.Status = types.OrganizationStatusPending
	copied := *org
	f.orgs[org.ID] = &copied
	return nil
}

func (f *fakeStore) WorkflowEvents(_ context.Context, orgID string) ([]*types.Event, error) {
	out := make([]*types.Event, 0)
	for _, ev := range f.events {
		if ev.OrganizationID != orgID {
			continue
		}
		switch ev.Type {
		case types.EventTypeDocumentApproved, types.EventTypeDocumentRejected, types.EventTypeDocumentReuploaded:
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Seq > out[j].Seq
	})
	return out, nil
}

func (f *fakeStore) Append(_ context.Context, event *types.Event) error {
	f.appendEvent(event)
	return nil
}

func (f *fakeStore) appendEvent(event *types.Event) {
	f.seq++
	event.Seq = f.seq
	if event.ID == "" {
		event.ID = utils.NanoID()
	}
	f.events = append(f.events, event)
}

func (f *fakeStore) Payment(_ context.Context, paymentID string) (*types.PaymentRecord, error) {
	payment, ok := f.payments[paymentID]
	if !ok {
		return nil, types.ErrPaymentNotFound
	}
	copied := *payment
	return &copied, nil
}

func (f *fakeStore) LatestApprovedPayment(_ context.Context, orgID string) (*types.PaymentRecord, error) {
	var latest *types.PaymentRecord
	for _, payment := range f.payments {
		if payment.OrganizationID != orgID || !payment.Status.Approved() {
			continue
		}
		if latest == nil || payment.CreatedAt.After(latest.CreatedAt) {
			latest = payment
		}
	}
	if latest == nil {
		return nil, types.ErrPaymentNotFound
	}
	copied := *latest
	return &copied, nil
}

func (f *fakeStore) CreatePayment(_ context.Context, payment *types.PaymentRecord) error {
	if payment.ID == "" {
		payment.ID = utils.NanoID()
	}
	payment.Status = types.PaymentStatusPending
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}
	copied := *payment
	f.payments[payment.ID] = &copied
	return nil
}

func (f *fakeStore) RecordDocumentDecision(_ context.Context, orgID string, desc registry.DocumentTypeDescriptor, reason *string, event *types.Event) error {
	if f.failDecision != nil {
		return f.failDecision
	}
	org, ok := f.orgs[orgID]
	if !ok || org.Status != types.OrganizationStatusPending {
		return types.ErrStaleOrganization
	}
	org.SetDocumentRejectionReason(desc.Key, reason)
	org.UpdatedAt = event.CreatedAt
	f.appendEvent(event)
	return nil
}

func (f *fakeStore) RecordReupload(_ context.Context, orgID string, desc registry.DocumentTypeDescriptor, newPath string, at time.Time, events []*types.Event) error {
	if f.failDecision != nil {
		return f.failDecision
	}
	org, ok := f.orgs[orgID]
	if !ok || org.Status != types.OrganizationStatusPending {
		return types.ErrStaleOrganization
	}
	org.SetDocumentPath(desc.Key, utils.StringPtr(newPath))
	org.SetDocumentRejectionReason(desc.Key, nil)
	org.ReUploadCount++
	org.LastReUploadAt = utils.TimePtr(at)
	org.UpdatedAt = at
	for _, event := range events {
		f.appendEvent(event)
	}
	for _, event := range f.events {
		if event.OrganizationID == orgID &&
			event.Type == types.EventTypeDocumentRejected &&
			event.DocumentKey != nil && *event.DocumentKey == desc.Key {
			event.Read = true
		}
	}
	return nil
}

func (f *fakeStore) RecordOrganizationDecision(_ context.Context, org *types.Organization, to types.OrganizationStatus, event *types.Event) error {
	if f.failDecision != nil {
		return f.failDecision
	}
	stored, ok := f.orgs[org.ID]
	if !ok || stored.Status != types.OrganizationStatusPending || !stored.UpdatedAt.Equal(org.UpdatedAt) {
		return types.ErrStaleOrganization
	}
	stored.Status = to
	stored.UpdatedAt = event.CreatedAt
	f.appendEvent(event)
	return nil
}

func (f *fakeStore) RecordPaymentDecision(_ context.Context, paymentID string, to types.PaymentStatus, reason *string, event *types.Event) error {
	if f.failDecision != nil {
		return f.failDecision
	}
	payment, ok := f.payments[paymentID]
	if !ok || payment.Status != types.PaymentStatusPending {
		return types.ErrStalePayment
	}
	payment.Status = to
	payment.RejectionReason = reason
	payment.UpdatedAt = event.CreatedAt
	f.appendEvent(event)
	return nil
}

type fakeBlobStore struct {
	objects map[string][]byte
	failPut error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte)}
}

func (f *fakeBlobStore) Put(_ context.Context, bucket, path string, body io.Reader, _ string) (string, error) {
	if f.failPut != nil {
		return "", f.failPut
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.objects[bucket+"/"+path] = data
	return path, nil
}

func (f *fakeBlobStore) Download(_ context.Context, bucket, path string) ([]byte, error) {
	data, ok := f.objects[bucket+"/"+path]
	if !ok {
		return nil, errors.New("object not found")
	}
	return data, nil
}

func (f *fakeBlobStore) Remove(_ context.Context, bucket string, paths []string) error {
	for _, path := range paths {
		delete(f.objects, bucket+"/"+path)
	}
	return nil
}

func (f *fakeBlobStore) PublicURL(bucket, path string) string {
	return "https://blobs.test/" + bucket + "/" + path
}

type fakeDispatcher struct {
	registrations []string
	payments      []string
	decisions     []string
}

func (f *fakeDispatcher) NewRegistration(_ context.Context, org *types.Organization) {
	f.registrations = append(f.registrations, org.ID)
}

func (f *fakeDispatcher) NewPayment(_ context.Context, org *types.Organization, payment *types.PaymentRecord) {
	f.payments = append(f.payments, payment.ID)
}

func (f *fakeDispatcher) Decision(_ context.Context, org *types.Organization, subject, _ string) {
	f.decisions = append(f.decisions, org.ID+": "+subject)
}

// fakeClock hands out strictly increasing timestamps so event ordering in
// tests is deterministic.
type fakeClock struct {
	current time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.current = c.current.Add(time.Second)
	return c.current
}

func newTestService() (*Service, *fakeStore, *fakeBlobStore, *fakeDispatcher, *fakeClock) {
	store := newFakeStore()
	blobs := newFakeBlobStore()
	dispatcher := &fakeDispatcher{}
	clock := newFakeClock()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := New(logger, store, store, store, store, blobs, dispatcher, "documents", "logos").
		WithClock(clock.Now)
	return svc, store, blobs, dispatcher, clock
}

func pendingOrg(store *fakeStore, id string) *types.Organization {
	org := &types.Organization{
		ID:     id,
		UserID: "user-" + id,
		Name:   "Acme Trading Ltd",
		Email:  "info@acme.test",
		Status: types.OrganizationStatusPending,
	}
	for _, desc := range registry.All() {
		org.SetDocumentPath(desc.Key, utils.StringPtr(id+"/"+desc.Key+"_seed.pdf"))
	}
	store.orgs[id] = org
	return org
}

func reviewer() *types.Admin {
	return &types.Admin{UserID: "admin-reviewer", AdminType: types.AdminTypeReviewer, IsActive: true}
}

func approver() *types.Admin {
	return &types.Admin{UserID: "admin-approver", AdminType: types.AdminTypeApprover, IsActive: true}
}

func pdfUpload(content string) Upload {
	return Upload{
		Body:        bytes.NewReader([]byte(content)),
		Size:        int64(len(content)),
		ContentType: "application/pdf",
	}
}
