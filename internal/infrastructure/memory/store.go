// Package memory is a process-local implementation of the repositories.
// It mirrors the foreign key behavior of the Postgres schema and backs the
// "memory" database driver and the HTTP tests.
package memory

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/pawpatrol/internal/domain/entity"
	"github.com/oksasatya/pawpatrol/internal/domain/repository"
)

type Store struct {
	mu       sync.RWMutex
	users    map[string]entity.User
	shelters map[string]entity.Shelter
	reports  map[string]entity.Report
	media    map[string]entity.ReportMedia
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:    map[string]entity.User{},
		shelters: map[string]entity.Shelter{},
		reports:  map[string]entity.Report{},
		media:    map[string]entity.ReportMedia{},
		now:      time.Now,
	}
}

func (s *Store) Users() *UserRepository        { return &UserRepository{s} }
func (s *Store) Shelters() *ShelterRepository  { return &ShelterRepository{s} }
func (s *Store) Reports() *ReportRepository    { return &ReportRepository{s} }
func (s *Store) Media() *ReportMediaRepository { return &ReportMediaRepository{s} }

func (s *Store) stamp(t time.Time) time.Time {
	if t.IsZero() {
		return s.now().UTC()
	}
	return t
}

func strPtr(v string) *string { return &v }

func copyStr(p *string) *string {
	if p == nil {
		return nil
	}
	return strPtr(*p)
}

func copyUser(u entity.User) *entity.User {
	u.ShelterID = copyStr(u.ShelterID)
	return &u
}

func copyReport(r entity.Report) entity.Report {
	r.ReporterID = copyStr(r.ReporterID)
	if r.AcknowledgedOn != nil {
		t := *r.AcknowledgedOn
		r.AcknowledgedOn = &t
	}
	return r
}

// UserRepository enforces unique names case-sensitively, as the users.name index does.
type UserRepository struct{ s *Store }

func (r *UserRepository) nameTaken(name, except string) bool {
	for id, u := range r.s.users {
		if id != except && u.Name == name {
			return true
		}
	}
	return false
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.nameTaken(u.Name, "") {
		return repository.ErrDuplicate
	}
	if sid := u.ShelterRef(); sid != "" {
		if _, ok := r.s.shelters[sid]; !ok {
			return repository.ErrNotFound
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = r.s.stamp(u.CreatedAt)
	r.s.users[u.ID] = *copyUser(*u)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyUser(u), nil
}

func (r *UserRepository) GetByName(_ context.Context, name string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Name == name {
			return copyUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) List(_ context.Context) ([]entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, *copyUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *UserRepository) UpdateName(_ context.Context, id, name string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if r.nameTaken(name, id) {
		return nil, repository.ErrDuplicate
	}
	u.Name = name
	r.s.users[id] = u
	return copyUser(u), nil
}

// Delete removes the user and detaches their reports.
func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	for rid, rep := range r.s.reports {
		if rep.Reporter() == id {
			rep.ReporterID = nil
			r.s.reports[rid] = rep
		}
	}
	return nil
}

type ShelterRepository struct{ s *Store }

func (r *ShelterRepository) List(_ context.Context) ([]entity.Shelter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.Shelter, 0, len(r.s.shelters))
	for _, sh := range r.s.shelters {
		out = append(out, sh)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ShelterRepository) GetByID(_ context.Context, id string) (*entity.Shelter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sh, ok := r.s.shelters[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sh, nil
}

func (r *ShelterRepository) CreateWithOwner(_ context.Context, sh *entity.Shelter, ownerID string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	owner, ok := r.s.users[ownerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	sh.ID = uuid.NewString()
	sh.CreatedAt = r.s.stamp(sh.CreatedAt)
	r.s.shelters[sh.ID] = *sh

	owner.Role = entity.RoleShelter
	owner.ShelterID = strPtr(sh.ID)
	r.s.users[ownerID] = owner
	return copyUser(owner), nil
}

func (r *ShelterRepository) Update(_ context.Context, sh *entity.Shelter) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.shelters[sh.ID]
	if !ok {
		return repository.ErrNotFound
	}
	sh.CreatedAt = cur.CreatedAt
	r.s.shelters[sh.ID] = *sh
	return nil
}

// Delete removes the shelter and clears the reference from its staff.
func (r *ShelterRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.shelters[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.shelters, id)
	for uid, u := range r.s.users {
		if u.ShelterRef() == id {
			u.ShelterID = nil
			r.s.users[uid] = u
		}
	}
	return nil
}

type ReportRepository struct{ s *Store }

func newestFirst(out []entity.Report) {
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedOn.After(out[j].CreatedOn) })
}

func (r *ReportRepository) Create(_ context.Context, rep *entity.Report) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if id := rep.Reporter(); id != "" {
		if _, ok := r.s.users[id]; !ok {
			return repository.ErrNotFound
		}
	}
	rep.ID = uuid.NewString()
	rep.CreatedOn = r.s.stamp(rep.CreatedOn)
	r.s.reports[rep.ID] = copyReport(*rep)
	return nil
}

func (r *ReportRepository) GetByID(_ context.Context, id string) (*entity.Report, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rep, ok := r.s.reports[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := copyReport(rep)
	return &c, nil
}

func (r *ReportRepository) filter(keep func(entity.Report) bool) []entity.Report {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entity.Report{}
	for _, rep := range r.s.reports {
		if keep(rep) {
			out = append(out, copyReport(rep))
		}
	}
	return out
}

func (r *ReportRepository) List(_ context.Context) ([]entity.Report, error) {
	out := r.filter(func(entity.Report) bool { return true })
	newestFirst(out)
	return out, nil
}

func (r *ReportRepository) ListByReporter(_ context.Context, reporterID string) ([]entity.Report, error) {
	out := r.filter(func(rep entity.Report) bool { return reporterID != "" && rep.Reporter() == reporterID })
	newestFirst(out)
	return out, nil
}

// ListWithin uses the haversine distance on a spherical earth, nearest first.
func (r *ReportRepository) ListWithin(_ context.Context, center entity.Point, radiusMeters float64) ([]entity.Report, error) {
	out := r.filter(func(rep entity.Report) bool { return Distance(center, rep.Location) <= radiusMeters })
	sort.SliceStable(out, func(i, j int) bool {
		return Distance(center, out[i].Location) < Distance(center, out[j].Location)
	})
	return out, nil
}

func (r *ReportRepository) ListByIDs(_ context.Context, ids []string) ([]entity.Report, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.Report, 0, len(ids))
	for _, id := range ids {
		if rep, ok := r.s.reports[id]; ok {
			out = append(out, copyReport(rep))
		}
	}
	return out, nil
}

func (r *ReportRepository) Patch(_ context.Context, id string, p repository.ReportPatch) (*entity.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.reports[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.Location != nil {
		cur.Location = *p.Location
	}
	if p.Count != nil {
		cur.Count = *p.Count
	}
	if p.Aggressiveness != nil {
		cur.Aggressiveness = *p.Aggressiveness
	}
	if p.Status != nil {
		cur.Status = *p.Status
	}
	if p.AcknowledgedOn != nil {
		t := *p.AcknowledgedOn
		cur.AcknowledgedOn = &t
	}
	r.s.reports[id] = cur
	c := copyReport(cur)
	return &c, nil
}

// Delete removes the report together with its media.
func (r *ReportRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reports[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.reports, id)
	for mid, m := range r.s.media {
		if m.DogReportID == id {
			delete(r.s.media, mid)
		}
	}
	return nil
}

type ReportMediaRepository struct{ s *Store }

func (r *ReportMediaRepository) Create(_ context.Context, m *entity.ReportMedia) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reports[m.DogReportID]; !ok {
		return repository.ErrNotFound
	}
	m.ID = uuid.NewString()
	m.CreatedAt = r.s.stamp(m.CreatedAt)
	r.s.media[m.ID] = *m
	return nil
}

func (r *ReportMediaRepository) GetByID(_ context.Context, id string) (*entity.ReportMedia, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.media[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r *ReportMediaRepository) ListByReport(_ context.Context, reportID string) ([]entity.ReportMedia, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entity.ReportMedia{}
	for _, m := range r.s.media {
		if m.DogReportID == reportID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return strings.Compare(out[i].ID, out[j].ID) < 0
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *ReportMediaRepository) Update(_ context.Context, m *entity.ReportMedia) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.media[m.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.URL, cur.Mime = m.URL, m.Mime
	r.s.media[m.ID] = cur
	return nil
}

func (r *ReportMediaRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.media[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.media, id)
	return nil
}

const earthRadiusMeters = 6371008.8

// Distance returns the great-circle distance in meters between two points.
func Distance(a, b entity.Point) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := rad(b.Y - a.Y)
	dLng := rad(b.X - a.X)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(a.Y))*math.Cos(rad(b.Y))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

var (
	_ repository.UserRepository        = (*UserRepository)(nil)
	_ repository.ShelterRepository     = (*ShelterRepository)(nil)
	_ repository.ReportRepository      = (*ReportRepository)(nil)
	_ repository.ReportMediaRepository = (*ReportMediaRepository)(nil)
)
