package store

import (
	"context"
	"fmt"
	"time"

	"github.com/umphart/kaccimapro-sub001/internal/utils"
	"github.com/umphart/kaccimapro-sub001/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const eventTableName = "kaccima.events"

var eventSelectColumns = utils.StructTagValues(types.Event{})

// WorkflowEventTypes are the event types the document state resolver replays.
var WorkflowEventTypes = []types.EventType{
	types.EventTypeDocumentApproved,
	types.EventTypeDocumentRejected,
	types.EventTypeDocumentReuploaded,
}

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

// WorkflowEvents returns the document review events for an organization,
// newest first. Ties on created_at are broken by seq so replay stays
// deterministic.
func (r *EventRepository) WorkflowEvents(ctx context.Context, orgID string) ([]*types.Event, error) {
	return r.eventsByOrganization(ctx, orgID, WorkflowEventTypes)
}

func (r *EventRepository) EventsByOrganization(ctx context.Context, orgID string) ([]*types.Event, error) {
	return r.eventsByOrganization(ctx, orgID, nil)
}

func (r *EventRepository) eventsByOrganization(ctx context.Context, orgID string, eventTypes []types.EventType) ([]*types.Event, error) {

	builder := psql().Select(eventSelectColumns...).From(eventTableName).
		Where(sq.Eq{"organization_id": orgID}).
		OrderBy("created_at desc", "seq desc")
	if len(eventTypes) > 0 {
		builder = builder.Where(sq.Eq{"type": eventTypes})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate events query: %w", err)
	}

	var events = make([]*types.Event, 0)
	if err := pgxscan.Select(ctx, r.pool, &events, query, args...); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *EventRepository) UnreadCount(ctx context.Context, orgID, category string) (int, error) {

	query, args, err := psql().Select("count(*)").From(eventTableName).
		Where(sq.Eq{"organization_id": orgID, "category": category, "read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate unread count query: %w", err)
	}

	var count int
	if err := pgxscan.Get(ctx, r.pool, &count, query, args...); err != nil {
		return 0, err
	}

	return count, nil
}

// Append writes a new event row. Events are append-only; nothing else in the
// codebase updates them apart from the read flag.
func (r *EventRepository) Append(ctx context.Context, event *types.Event) error {

	if event.ID == "" {
		event.ID = utils.NanoID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	eventMap := utils.StructToMap(event)
	delete(eventMap, "seq")

	query, args, err := psql().Insert(eventTableName).SetMap(eventMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert event query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to append event")
}

func (r *EventRepository) MarkRead(ctx context.Context, orgID string, eventIDs []string) error {

	query, args, err := psql().Update(eventTableName).
		Set("read", true).
		Where(sq.Eq{"organization_id": orgID, "id": eventIDs}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate mark read query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to mark events read")
}
