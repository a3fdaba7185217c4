package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pawpatrol/internal/domain/entity"
	repo "github.com/oksasatya/pawpatrol/internal/domain/repository"
	"github.com/oksasatya/pawpatrol/pkg/helpers"
)

const (
	DefaultNearbyRadius = 5000.0
	MaxNearbyRadius     = 50000.0
	nearbyLimit         = 500
)

type ReportService struct {
	Repo   repo.ReportRepository
	Index  ReportIndexer
	Events EventPublisher
	Logger *logrus.Logger
	Now    func() time.Time
}

func NewReportService(r repo.ReportRepository, index ReportIndexer, events EventPublisher, logger *logrus.Logger) *ReportService {
	return &ReportService{Repo: r, Index: index, Events: events, Logger: logger, Now: time.Now}
}

type CreateReportInput struct {
	Location       *entity.Point
	Count          *int
	Aggressiveness *int
}

// UpdateReportInput is a partial update; nil fields are left untouched.
type UpdateReportInput struct {
	Location       *entity.Point
	Count          *int
	Aggressiveness *int
	Status         *entity.ReportStatus
}

func (s *ReportService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *ReportService) List(ctx context.Context) ([]entity.Report, error) {
	return s.Repo.List(ctx)
}

func (s *ReportService) Get(ctx context.Context, id string) (*entity.Report, error) {
	r, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound("report")
		}
		return nil, err
	}
	return r, nil
}

func (s *ReportService) ListMine(ctx context.Context, userID string) ([]entity.Report, error) {
	return s.Repo.ListByReporter(ctx, userID)
}

func (s *ReportService) Create(ctx context.Context, p Principal, in CreateReportInput) (*entity.Report, error) {
	if err := Authorize(p, ResourceReport, ActionCreate, ""); err != nil {
		return nil, err
	}
	if in.Location == nil {
		return nil, invalid("location is required")
	}
	if !in.Location.Valid() {
		return nil, invalid("location is out of range")
	}
	count := 1
	if in.Count != nil && *in.Count != 0 {
		count = *in.Count
	}
	aggr := 0
	if in.Aggressiveness != nil {
		aggr = *in.Aggressiveness
	}
	if count < 0 || aggr < 0 {
		return nil, invalid("count and aggressiveness must not be negative")
	}

	reporter := p.UserID
	r := &entity.Report{
		Location:       *in.Location,
		Count:          count,
		Aggressiveness: aggr,
		Status:         entity.StatusReported,
		CreatedOn:      s.now(),
		ReporterID:     &reporter,
	}
	if err := s.Repo.Create(ctx, r); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// the token outlived its user
			return nil, notFound("user")
		}
		helpers.LogError(s.Logger, "create report failed", err, logrus.Fields{"user_id": p.UserID})
		return nil, err
	}
	s.afterWrite(ctx, p, ReportCreated, r)
	return r, nil
}

func (s *ReportService) Update(ctx context.Context, p Principal, id string, in UpdateReportInput) (*entity.Report, error) {
	cur, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(p, ResourceReport, ActionUpdate, cur.Reporter()); err != nil {
		return nil, err
	}

	patch := repo.ReportPatch{Location: in.Location, Count: in.Count, Aggressiveness: in.Aggressiveness, Status: in.Status}
	if in.Location != nil && !in.Location.Valid() {
		return nil, invalid("location is out of range")
	}
	if in.Count != nil && *in.Count < 0 {
		return nil, invalid("count must not be negative")
	}
	if in.Aggressiveness != nil && *in.Aggressiveness < 0 {
		return nil, invalid("aggressiveness must not be negative")
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, invalid("unknown status %q", *in.Status)
		}
		patch.AcknowledgedOn = entity.AcknowledgementStamp(*in.Status, s.now())
	}

	r, err := s.patch(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, p, ReportUpdated, r)
	return r, nil
}

// UpdateStatus moves a report through the triage lifecycle.
func (s *ReportService) UpdateStatus(ctx context.Context, p Principal, id string, status entity.ReportStatus) (*entity.Report, error) {
	if err := Authorize(p, ResourceReport, ActionSetStatus, ""); err != nil {
		return nil, err
	}
	if status == "" {
		return nil, invalid("status is required")
	}
	if !status.Valid() {
		return nil, invalid("unknown status %q", status)
	}
	r, err := s.patch(ctx, id, repo.ReportPatch{
		Status:         &status,
		AcknowledgedOn: entity.AcknowledgementStamp(status, s.now()),
	})
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, p, ReportStatusChanged, r)
	return r, nil
}

func (s *ReportService) patch(ctx context.Context, id string, p repo.ReportPatch) (*entity.Report, error) {
	r, err := s.Repo.Patch(ctx, id, p)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound("report")
		}
		return nil, err
	}
	return r, nil
}

func (s *ReportService) Delete(ctx context.Context, p Principal, id string) error {
	r, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(p, ResourceReport, ActionDelete, r.Reporter()); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("report")
		}
		return err
	}
	s.afterWrite(ctx, p, ReportDeleted, r)
	return nil
}

// Nearby returns reports within radiusMeters of center. The search index is
// tried first; the database answers when the index is absent or failing.
func (s *ReportService) Nearby(ctx context.Context, center entity.Point, radiusMeters float64) ([]entity.Report, error) {
	if !center.Valid() {
		return nil, invalid("location is out of range")
	}
	if radiusMeters == 0 {
		radiusMeters = DefaultNearbyRadius
	}
	if radiusMeters < 0 || radiusMeters > MaxNearbyRadius {
		return nil, invalid("radius must be between 0 and %.0f meters", MaxNearbyRadius)
	}

	if s.Index != nil {
		ids, err := s.Index.Nearby(ctx, center, radiusMeters, nearbyLimit)
		if err == nil {
			if len(ids) == 0 {
				return []entity.Report{}, nil
			}
			return s.Repo.ListByIDs(ctx, ids)
		}
		helpers.LogWarn(s.Logger, "report index nearby failed, using database", err, nil)
	}
	return s.Repo.ListWithin(ctx, center, radiusMeters)
}

func (s *ReportService) afterWrite(ctx context.Context, p Principal, typ ReportEventType, r *entity.Report) {
	fields := logrus.Fields{"report_id": r.ID, "event": typ}
	if s.Index != nil {
		var err error
		if typ == ReportDeleted {
			err = s.Index.Remove(ctx, r.ID)
		} else {
			err = s.Index.Index(ctx, r)
		}
		if err != nil {
			helpers.LogWarn(s.Logger, "report index sync failed", err, fields)
		}
	}
	if s.Events != nil {
		ev := ReportEvent{Type: typ, Report: *r, ActorID: p.UserID, ActorName: p.Name, OccurredAt: s.now()}
		if err := s.Events.PublishJSON(ctx, ev); err != nil {
			helpers.LogWarn(s.Logger, "report event publish failed", err, fields)
		}
	}
}
