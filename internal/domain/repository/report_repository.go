package repository

import (
	"context"
	"time"

	"github.com/oksasatya/pawpatrol/internal/domain/entity"
)

type ReportRepository interface {
	Create(ctx context.Context, r *entity.Report) error
	GetByID(ctx context.Context, id string) (*entity.Report, error)
	List(ctx context.Context) ([]entity.Report, error)
	ListByReporter(ctx context.Context, reporterID string) ([]entity.Report, error)
	ListWithin(ctx context.Context, center entity.Point, radiusMeters float64) ([]entity.Report, error)
	ListByIDs(ctx context.Context, ids []string) ([]entity.Report, error)
	// Patch writes only the non-nil fields of p in one statement and returns
	// the stored row. AcknowledgedOn is never cleared.
	Patch(ctx context.Context, id string, p ReportPatch) (*entity.Report, error)
	Delete(ctx context.Context, id string) error
}

// ReportPatch lists the columns a report update touches; nil means unchanged.
type ReportPatch struct {
	Location       *entity.Point
	Count          *int
	Aggressiveness *int
	Status         *entity.ReportStatus
	AcknowledgedOn *time.Time
}

type ReportMediaRepository interface {
	Create(ctx context.Context, m *entity.ReportMedia) error
	GetByID(ctx context.Context, id string) (*entity.ReportMedia, error)
	ListByReport(ctx context.Context, reportID string) ([]entity.ReportMedia, error)
	Update(ctx context.Context, m *entity.ReportMedia) error
	Delete(ctx context.Context, id string) error
}
