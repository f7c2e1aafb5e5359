// Package notify delivers workflow emails. Dispatch is fire and forget:
// delivery failures are logged and never block a review operation.
package notify

import (
	"context"
	"fmt"

	"github.com/umphart/kaccimapro-sub001/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/sirupsen/logrus"
)

type Dispatcher interface {
	NewRegistration(ctx context.Context, org *types.Organization)
	NewPayment(ctx context.Context, org *types.Organization, payment *types.PaymentRecord)
	Decision(ctx context.Context, org *types.Organization, subject, body string)
}

// SESDispatcher sends via Amazon SES.
type SESDispatcher struct {
	client     *ses.Client
	logger     *logrus.Logger
	sender     string
	adminEmail string
}

func NewSESDispatcher(client *ses.Client, logger *logrus.Logger, sender, adminEmail string) *SESDispatcher {
	return &SESDispatcher{
		client:     client,
		logger:     logger,
		sender:     sender,
		adminEmail: adminEmail,
	}
}

func (d *SESDispatcher) NewRegistration(ctx context.Context, org *types.Organization) {
	subject := "New membership registration"
	body := fmt.Sprintf("%s has submitted a membership registration and is awaiting document review.", org.Name)
	d.send(ctx, d.adminEmail, subject, body)
}

func (d *SESDispatcher) NewPayment(ctx context.Context, org *types.Organization, payment *types.PaymentRecord) {
	subject := "New membership payment"
	body := fmt.Sprintf("%s has submitted a %s payment of ₦%d for verification.",
		org.Name, payment.PaymentType, payment.Amount)
	d.send(ctx, d.adminEmail, subject, body)
}

func (d *SESDispatcher) Decision(ctx context.Context, org *types.Organization, subject, body string) {
	d.send(ctx, org.Email, subject, body)
}

func (d *SESDispatcher) send(ctx context.Context, to, subject, body string) {
	if d.sender == "" || to == "" {
		return
	}

	_, err := d.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(d.sender),
		Destination: &sestypes.Destination{
			ToAddresses: []string{to},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		d.logger.WithError(err).WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Error("failed to send notification email")
	}
}

// NopDispatcher drops every notification. Used when no sender is configured.
type NopDispatcher struct{}

func (NopDispatcher) NewRegistration(context.Context, *types.Organization) {}

func (NopDispatcher) NewPayment(context.Context, *types.Organization, *types.PaymentRecord) {}

func (NopDispatcher) Decision(context.Context, *types.Organization, string, string) {}
