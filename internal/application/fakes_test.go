package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/oksasatya/pawpatrol/internal/domain/entity"
	"github.com/oksasatya/pawpatrol/internal/infrastructure/memory"
	"github.com/oksasatya/pawpatrol/pkg/helpers"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type fakeIndex struct {
	mu      sync.Mutex
	docs    map[string]entity.Report
	nearby  []string
	failAll bool
}

func newFakeIndex() *fakeIndex { return &fakeIndex{docs: map[string]entity.Report{}} }

func (f *fakeIndex) Index(_ context.Context, r *entity.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errors.New("index down")
	}
	f.docs[r.ID] = *r
	return nil
}

func (f *fakeIndex) Remove(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errors.New("index down")
	}
	delete(f.docs, id)
	return nil
}

func (f *fakeIndex) Nearby(context.Context, entity.Point, float64, int) ([]string, error) {
	if f.failAll {
		return nil, errors.New("index down")
	}
	return f.nearby, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []ReportEvent
	err    error
}

func (f *fakePublisher) PublishJSON(_ context.Context, body any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, body.(ReportEvent))
	return nil
}

func (f *fakePublisher) types() []ReportEventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ReportEventType, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeCache struct {
	list        []entity.Shelter
	hit         bool
	sets        int
	invalidated int
}

func (f *fakeCache) Get(context.Context) ([]entity.Shelter, bool, error) {
	return f.list, f.hit, nil
}

func (f *fakeCache) Set(_ context.Context, list []entity.Shelter) error {
	f.list, f.hit = list, true
	f.sets++
	return nil
}

func (f *fakeCache) Invalidate(context.Context) error {
	f.list, f.hit = nil, false
	f.invalidated++
	return nil
}

const fakeStorageHost = "https://storage.test/"

type fakeStorage struct {
	objects map[string]string
	deleted []string
}

func (f *fakeStorage) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if f.objects == nil {
		f.objects = map[string]string{}
	}
	f.objects[objectPath] = string(b)
	return fakeStorageHost + objectPath, nil
}

func (f *fakeStorage) ObjectPath(url string) (string, bool) {
	p, ok := strings.CutPrefix(url, fakeStorageHost)
	return p, ok && p != ""
}

func (f *fakeStorage) Delete(_ context.Context, objectPath string) error {
	f.deleted = append(f.deleted, objectPath)
	delete(f.objects, objectPath)
	return nil
}

type testEnv struct {
	store    *memory.Store
	auth     *AuthService
	users    *UserService
	reports  *ReportService
	shelters *ShelterService
	media    *MediaService
	index    *fakeIndex
	events   *fakePublisher
	cache    *fakeCache
	storage  *fakeStorage
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := memory.NewStore()
	logger := helpers.DiscardLogger()
	jwt := helpers.NewJWTManager("test-secret", 7*24*time.Hour)
	env := &testEnv{
		store:   st,
		index:   newFakeIndex(),
		events:  &fakePublisher{},
		cache:   &fakeCache{},
		storage: &fakeStorage{},
	}
	env.auth = NewAuthService(st.Users(), st.Shelters(), jwt, logger)
	env.users = NewUserService(st.Users())
	env.reports = NewReportService(st.Reports(), env.index, env.events, logger)
	env.reports.Now = func() time.Time { return testNow }
	env.shelters = NewShelterService(st.Shelters(), env.cache, jwt, logger)
	env.media = NewMediaService(st.Media(), st.Reports(), env.storage, logger)
	return env
}

// register creates an account and returns the caller as its token describes it.
func (e *testEnv) register(t *testing.T, name string) Principal {
	t.Helper()
	res, err := e.auth.Register(context.Background(), RegisterInput{Name: name, Password: "secret1"})
	if err != nil {
		t.Fatalf("Register(%s): %v", name, err)
	}
	claims, err := e.auth.JWT.Parse(res.Token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return PrincipalFromClaims(claims)
}

// staff registers a user and promotes them by creating a shelter.
func (e *testEnv) staff(t *testing.T, name string) Principal {
	t.Helper()
	p := e.register(t, name)
	out, err := e.shelters.Create(context.Background(), p, CreateShelterInput{
		Name:     name + " shelter",
		Location: &entity.Point{X: 106.8, Y: -6.2},
	})
	if err != nil {
		t.Fatalf("create shelter: %v", err)
	}
	claims, err := e.auth.JWT.Parse(out.Token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return PrincipalFromClaims(claims)
}

func intPtr(v int) *int { return &v }
