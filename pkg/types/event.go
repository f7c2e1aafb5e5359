package types

import (
	"fmt"
	"strings"
	"time"
)

type EventType string

const (
	EventTypeDocumentApproved   EventType = "document_approved"
	EventTypeDocumentRejected   EventType = "document_rejected"
	EventTypeDocumentReuploaded EventType = "document_reuploaded"
	EventTypeSuccess            EventType = "success"
	EventTypeError              EventType = "error"
	EventTypeInfo               EventType = "info"
)

const (
	EventCategoryAdmin        = "admin"
	EventCategoryOrganization = "organization"
)

// ReasonMarker prefixes the rejection reason embedded in an event message.
// Kept for compatibility with rows written before the document_key column
// existed; new writes also carry the structured key.
const ReasonMarker = "Reason: "

// Event is one append-only row of the notification log. Rows are never
// mutated or deleted apart from the read flag; Seq breaks created_at ties.
type Event struct {
	ID             string    `db:"id" json:"id"`
	OrganizationID string    `db:"organization_id" json:"organizationId"`
	DocumentKey    *string   `db:"document_key" json:"documentKey,omitempty"`
	Type           EventType `db:"type" json:"type"`
	Title          string    `db:"title" json:"title"`
	Message        string    `db:"message" json:"message"`
	Category       string    `db:"category" json:"category"`
	Read           bool      `db:"read" json:"read"`
	Seq            int64     `db:"seq" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// ReasonFromMessage extracts the rejection reason embedded after ReasonMarker,
// or "" when the message carries none. The first marker wins: anything after
// it, including further occurrences of the marker text, is part of the reason.
func ReasonFromMessage(message string) string {
	idx := strings.Index(message, ReasonMarker)
	if idx < 0 {
		return ""
	}
	return message[idx+len(ReasonMarker):]
}

// RejectionMessage renders the message body for a document rejection event.
func RejectionMessage(displayName, reason string) string {
	return fmt.Sprintf("%s was rejected. %s%s", displayName, ReasonMarker, reason)
}
