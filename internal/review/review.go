// Package review implements the membership review workflow: per-document
// approval, re-upload handling, organization-level decisions and payment
// verification. State is derived by replaying the event log; engines validate
// preconditions, commit through the workflow store and append events.
package review

import (
	"context"
	"time"

	"github.com/umphart/kaccimapro-sub001/internal/notify"
	"github.com/umphart/kaccimapro-sub001/internal/registry"
	"github.com/umphart/kaccimapro-sub001/internal/storage"
	"github.com/umphart/kaccimapro-sub001/pkg/types"

	"github.com/sirupsen/logrus"
)

type OrganizationStore interface {
	Organization(ctx context.Context, orgID string) (*types.Organization, error)
	CreateOrganization(ctx context.Context, org *types.Organization) error
}

type EventStore interface {
	WorkflowEvents(ctx context.Context, orgID string) ([]*types.Event, error)
	Append(ctx context.Context, event *types.Event) error
}

type PaymentStore interface {
	Payment(ctx context.Context, paymentID string) (*types.PaymentRecord, error)
	LatestApprovedPayment(ctx context.Context, orgID string) (*types.PaymentRecord, error)
	CreatePayment(ctx context.Context, payment *types.PaymentRecord) error
}

// WorkflowStore commits the effects of a review operation atomically.
type WorkflowStore interface {
	RecordDocumentDecision(ctx context.Context, orgID string, desc registry.DocumentTypeDescriptor, reason *string, event *types.Event) error
	RecordReupload(ctx context.Context, orgID string, desc registry.DocumentTypeDescriptor, newPath string, at time.Time, events []*types.Event) error
	RecordOrganizationDecision(ctx context.Context, org *types.Organization, to types.OrganizationStatus, event *types.Event) error
	RecordPaymentDecision(ctx context.Context, paymentID string, to types.PaymentStatus, reason *string, event *types.Event) error
}

type Service struct {
	logger   *logrus.Logger
	orgs     OrganizationStore
	events   EventStore
	payments PaymentStore
	workflow WorkflowStore
	blobs    storage.Store
	notify   notify.Dispatcher

	documentsBucket string
	logosBucket     string

	now func() time.Time
}

func New(
	logger *logrus.Logger,
	orgs OrganizationStore,
	events EventStore,
	payments PaymentStore,
	workflow WorkflowStore,
	blobs storage.Store,
	dispatcher notify.Dispatcher,
	documentsBucket string,
	logosBucket string,
) *Service {
	return &Service{
		logger:          logger,
		orgs:            orgs,
		events:          events,
		payments:        payments,
		workflow:        workflow,
		blobs:           blobs,
		notify:          dispatcher,
		documentsBucket: documentsBucket,
		logosBucket:     logosBucket,
		now:             time.Now,
	}
}

// WithClock overrides the service clock. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// pendingOrganization loads an organization and verifies it is still open for
// review.
func (s *Service) pendingOrganization(ctx context.Context, orgID string) (*types.Organization, error) {
	org, err := s.orgs.Organization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if org.Status != types.OrganizationStatusPending {
		return nil, &types.InvalidStateError{
			Entity: "organization",
			ID:     org.ID,
			Status: string(org.Status),
		}
	}

	return org, nil
}

func requireCapability(actor *types.Admin, c types.Capability) error {
	if actor == nil {
		return &types.PermissionError{Capability: c}
	}

	if !actor.Can(c) {
		return &types.PermissionError{UserID: actor.UserID, Capability: c}
	}

	return nil
}
