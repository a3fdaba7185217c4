package application

import (
	"context"
	"errors"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pawpatrol/internal/domain/entity"
	repo "github.com/oksasatya/pawpatrol/internal/domain/repository"
	"github.com/oksasatya/pawpatrol/pkg/helpers"
)

// ErrStorageUnavailable is returned by Upload when no object storage is configured.
var ErrStorageUnavailable = errors.New("media storage is not configured")

// ObjectStorage stores uploaded media and returns a public URL for it.
// ObjectPath maps a public URL back to its object; ok is false for URLs
// the storage does not own.
type ObjectStorage interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
	ObjectPath(url string) (objectPath string, ok bool)
	Delete(ctx context.Context, objectPath string) error
}

type MediaService struct {
	Media   repo.ReportMediaRepository
	Reports repo.ReportRepository
	Storage ObjectStorage
	Logger  *logrus.Logger
	Now     func() time.Time
}

func NewMediaService(media repo.ReportMediaRepository, reports repo.ReportRepository, storage ObjectStorage, logger *logrus.Logger) *MediaService {
	return &MediaService{Media: media, Reports: reports, Storage: storage, Logger: logger, Now: time.Now}
}

type CreateMediaInput struct {
	DogReportID string
	URL         string
	Mime        string
}

type UpdateMediaInput struct {
	URL  *string
	Mime *string
}

type UploadMediaInput struct {
	DogReportID string
	Filename    string
	Mime        string
	Body        io.Reader
}

func (s *MediaService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *MediaService) ListByReport(ctx context.Context, reportID string) ([]entity.ReportMedia, error) {
	return s.Media.ListByReport(ctx, reportID)
}

func (s *MediaService) Get(ctx context.Context, id string) (*entity.ReportMedia, error) {
	m, err := s.Media.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound("media")
		}
		return nil, err
	}
	return m, nil
}

// parent loads the report owning the media and checks p against the policy
// for act using the report's reporter as owner.
func (s *MediaService) parent(ctx context.Context, p Principal, reportID string, act Action) (*entity.Report, error) {
	r, err := s.Reports.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound("report")
		}
		return nil, err
	}
	if err := Authorize(p, ResourceMedia, act, r.Reporter()); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *MediaService) Create(ctx context.Context, p Principal, in CreateMediaInput) (*entity.ReportMedia, error) {
	in.URL = strings.TrimSpace(in.URL)
	in.Mime = strings.TrimSpace(in.Mime)
	if in.DogReportID == "" || in.URL == "" || in.Mime == "" {
		return nil, invalid("dogReportId, url and mime are required")
	}
	if _, err := s.parent(ctx, p, in.DogReportID, ActionCreate); err != nil {
		return nil, err
	}
	m := &entity.ReportMedia{DogReportID: in.DogReportID, URL: in.URL, Mime: in.Mime, CreatedAt: s.now()}
	if err := s.Media.Create(ctx, m); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound("report")
		}
		return nil, err
	}
	return m, nil
}

// Upload stores the body under reports/<reportId>/<uuid><ext> and records it.
func (s *MediaService) Upload(ctx context.Context, p Principal, in UploadMediaInput) (*entity.ReportMedia, error) {
	if in.DogReportID == "" || in.Body == nil {
		return nil, invalid("dogReportId and file are required")
	}
	mt, _, err := mime.ParseMediaType(in.Mime)
	if err != nil || !(strings.HasPrefix(mt, "image/") || strings.HasPrefix(mt, "video/")) {
		return nil, invalid("unsupported media type %q", in.Mime)
	}
	if _, err := s.parent(ctx, p, in.DogReportID, ActionCreate); err != nil {
		return nil, err
	}
	if s.Storage == nil {
		return nil, ErrStorageUnavailable
	}

	ext := strings.ToLower(filepath.Ext(in.Filename))
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(mt); len(exts) > 0 {
			ext = exts[0]
		}
	}
	objectPath := objectPrefix(in.DogReportID) + uuid.NewString() + ext
	url, err := s.Storage.Upload(ctx, objectPath, mt, in.Body)
	if err != nil {
		helpers.LogError(s.Logger, "media upload failed", err, logrus.Fields{"report_id": in.DogReportID})
		return nil, err
	}

	m := &entity.ReportMedia{DogReportID: in.DogReportID, URL: url, Mime: mt, CreatedAt: s.now()}
	if err := s.Media.Create(ctx, m); err != nil {
		s.removeObject(ctx, objectPath)
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound("report")
		}
		return nil, err
	}
	return m, nil
}

func (s *MediaService) Update(ctx context.Context, p Principal, id string, in UpdateMediaInput) (*entity.ReportMedia, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.parent(ctx, p, m.DogReportID, ActionUpdate); err != nil {
		return nil, err
	}
	if in.URL != nil {
		u := strings.TrimSpace(*in.URL)
		if u == "" {
			return nil, invalid("url must not be empty")
		}
		m.URL = u
	}
	if in.Mime != nil {
		mt := strings.TrimSpace(*in.Mime)
		if mt == "" {
			return nil, invalid("mime must not be empty")
		}
		m.Mime = mt
	}
	if err := s.Media.Update(ctx, m); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound("media")
		}
		return nil, err
	}
	return m, nil
}

func (s *MediaService) Delete(ctx context.Context, p Principal, id string) error {
	m, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.parent(ctx, p, m.DogReportID, ActionDelete); err != nil {
		return err
	}
	if err := s.Media.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("media")
		}
		return err
	}
	if s.Storage != nil {
		if objectPath, ok := s.Storage.ObjectPath(m.URL); ok && ownsObject(m.DogReportID, objectPath) {
			s.removeObject(ctx, objectPath)
		}
	}
	return nil
}

func objectPrefix(reportID string) string {
	return "reports/" + reportID + "/"
}

// ownsObject reports whether objectPath was uploaded for reportID. Rows
// created with an arbitrary url may point at objects of other reports, and
// those must survive the row's deletion.
func ownsObject(reportID, objectPath string) bool {
	rest, ok := strings.CutPrefix(objectPath, objectPrefix(reportID))
	return ok && rest != "" && !strings.Contains(rest, "/") && path.Clean(objectPath) == objectPath
}

func (s *MediaService) removeObject(ctx context.Context, objectPath string) {
	if s.Storage == nil {
		return
	}
	if err := s.Storage.Delete(ctx, objectPath); err != nil {
		helpers.LogWarn(s.Logger, "media object delete failed", err, logrus.Fields{"object": objectPath})
	}
}
