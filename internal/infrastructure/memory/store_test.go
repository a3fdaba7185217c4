package memory

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/oksasatya/pawpatrol/internal/domain/entity"
	"github.com/oksasatya/pawpatrol/internal/domain/repository"
)

func TestUserNamesAreUnique(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()
	if err := users.Create(ctx, &entity.User{Name: "alice", Role: entity.RoleCivilian}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := users.Create(ctx, &entity.User{Name: "alice", Role: entity.RoleCivilian})
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
	bob := &entity.User{Name: "bob", Role: entity.RoleCivilian}
	if err := users.Create(ctx, bob); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := users.UpdateName(ctx, bob.ID, "alice"); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("rename err = %v, want ErrDuplicate", err)
	}
}

func TestCreateWithOwnerPromotes(t *testing.T) {
	ctx := context.Background()
	st := NewStore()
	u := &entity.User{Name: "alice", Role: entity.RoleCivilian}
	if err := st.Users().Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	sh := &entity.Shelter{Name: "Happy Tails", Location: entity.Point{X: 106.8, Y: -6.2}}
	owner, err := st.Shelters().CreateWithOwner(ctx, sh, u.ID)
	if err != nil {
		t.Fatalf("CreateWithOwner: %v", err)
	}
	if owner.Role != entity.RoleShelter || owner.ShelterRef() != sh.ID {
		t.Fatalf("owner = %+v, want shelter role linked to %s", owner, sh.ID)
	}

	ghost := &entity.Shelter{Name: "Ghost"}
	if _, err := st.Shelters().CreateWithOwner(ctx, ghost, "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	list, _ := st.Shelters().List(ctx)
	if len(list) != 1 {
		t.Fatalf("shelters = %d, want 1 after failed create", len(list))
	}

	if err := st.Shelters().Delete(ctx, sh.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, _ := st.Users().GetByID(ctx, u.ID)
	if got.ShelterID != nil || got.Role != entity.RoleShelter {
		t.Fatalf("after shelter delete user = %+v", got)
	}
}

func TestDeletesFollowForeignKeys(t *testing.T) {
	ctx := context.Background()
	st := NewStore()
	u := &entity.User{Name: "alice", Role: entity.RoleCivilian}
	_ = st.Users().Create(ctx, u)
	reporter := u.ID
	rep := &entity.Report{Location: entity.Point{X: 1, Y: 1}, Count: 1, Status: entity.StatusReported, ReporterID: &reporter}
	if err := st.Reports().Create(ctx, rep); err != nil {
		t.Fatalf("Create report: %v", err)
	}
	m := &entity.ReportMedia{DogReportID: rep.ID, URL: "https://x/y.jpg", Mime: "image/jpeg"}
	if err := st.Media().Create(ctx, m); err != nil {
		t.Fatalf("Create media: %v", err)
	}
	if err := st.Media().Create(ctx, &entity.ReportMedia{DogReportID: "nope"}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("orphan media err = %v", err)
	}

	if err := st.Users().Delete(ctx, u.ID); err != nil {
		t.Fatalf("Delete user: %v", err)
	}
	got, _ := st.Reports().GetByID(ctx, rep.ID)
	if got.ReporterID != nil {
		t.Fatalf("reporter = %v, want nil after user delete", *got.ReporterID)
	}

	if err := st.Reports().Delete(ctx, rep.ID); err != nil {
		t.Fatalf("Delete report: %v", err)
	}
	if _, err := st.Media().GetByID(ctx, m.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("media err = %v, want cascade delete", err)
	}
}

func TestListWithinNearestFirst(t *testing.T) {
	ctx := context.Background()
	reports := NewStore().Reports()
	center := entity.Point{X: 106.8456, Y: -6.2088}
	far := &entity.Report{Location: entity.Point{X: 106.8456, Y: -6.2268}, Status: entity.StatusReported}
	near := &entity.Report{Location: entity.Point{X: 106.8456, Y: -6.2098}, Status: entity.StatusReported}
	out := &entity.Report{Location: entity.Point{X: 107.5, Y: -6.9}, Status: entity.StatusReported}
	for _, r := range []*entity.Report{far, near, out} {
		if err := reports.Create(ctx, r); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	got, err := reports.ListWithin(ctx, center, 5000)
	if err != nil {
		t.Fatalf("ListWithin: %v", err)
	}
	if len(got) != 2 || got[0].ID != near.ID || got[1].ID != far.ID {
		t.Fatalf("ListWithin = %+v", got)
	}
}

func TestDistance(t *testing.T) {
	// one degree of latitude is about 111.2 km
	d := Distance(entity.Point{X: 0, Y: 0}, entity.Point{X: 0, Y: 1})
	if math.Abs(d-111195) > 100 {
		t.Fatalf("Distance = %f", d)
	}
}

func TestReportPatchTouchesOnlySetFields(t *testing.T) {
	ctx := context.Background()
	reports := NewStore().Reports()
	rep := &entity.Report{Location: entity.Point{X: 1, Y: 2}, Count: 2, Aggressiveness: 1, Status: entity.StatusReported}
	if err := reports.Create(ctx, rep); err != nil {
		t.Fatalf("Create: %v", err)
	}

	ack := entity.StatusAcknowledged
	t0 := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	if _, err := reports.Patch(ctx, rep.ID, repository.ReportPatch{Status: &ack, AcknowledgedOn: &t0}); err != nil {
		t.Fatalf("Patch status: %v", err)
	}
	count := 5
	got, err := reports.Patch(ctx, rep.ID, repository.ReportPatch{Count: &count})
	if err != nil {
		t.Fatalf("Patch count: %v", err)
	}
	if got.Count != 5 || got.Aggressiveness != 1 || got.Location != (entity.Point{X: 1, Y: 2}) {
		t.Fatalf("patched = %+v", got)
	}
	if got.Status != entity.StatusAcknowledged || got.AcknowledgedOn == nil || !got.AcknowledgedOn.Equal(t0) {
		t.Fatalf("status/ack = %s/%v", got.Status, got.AcknowledgedOn)
	}

	vac := entity.StatusVaccinated
	got, _ = reports.Patch(ctx, rep.ID, repository.ReportPatch{Status: &vac})
	if got.AcknowledgedOn == nil || !got.AcknowledgedOn.Equal(t0) {
		t.Fatalf("acknowledgedOn cleared: %v", got.AcknowledgedOn)
	}
	if _, err := reports.Patch(ctx, "missing", repository.ReportPatch{Count: &count}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("missing err = %v", err)
	}
}
