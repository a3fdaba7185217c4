package application

import (
	"context"
	"time"

	"github.com/oksasatya/pawpatrol/internal/domain/entity"
)

type ReportEventType string

const (
	ReportCreated       ReportEventType = "report.created"
	ReportUpdated       ReportEventType = "report.updated"
	ReportStatusChanged ReportEventType = "report.status_changed"
	ReportDeleted       ReportEventType = "report.deleted"
)

// ReportEvent is published to the report events queue after every report write.
type ReportEvent struct {
	Type       ReportEventType `json:"type"`
	Report     entity.Report   `json:"report"`
	ActorID    string          `json:"actorId"`
	ActorName  string          `json:"actorName"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// EventPublisher is satisfied by helpers.RabbitPublisher.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// ReportIndexer is satisfied by search.ReportIndex.
type ReportIndexer interface {
	Index(ctx context.Context, r *entity.Report) error
	Remove(ctx context.Context, id string) error
	Nearby(ctx context.Context, center entity.Point, radiusMeters float64, size int) ([]string, error)
}
