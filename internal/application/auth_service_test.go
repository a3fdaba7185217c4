package application

import (
	"context"
	"errors"
	"testing"

	"github.com/oksasatya/pawpatrol/internal/domain/entity"
	"github.com/oksasatya/pawpatrol/pkg/helpers"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.auth.Register(ctx, RegisterInput{Name: "  alice ", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.User.Name != "alice" || res.User.Role != entity.RoleCivilian || res.Token == "" {
		t.Fatalf("Register result = %+v", res)
	}

	if _, err := env.auth.Login(ctx, "alice", "secret1"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := env.auth.Login(ctx, "alice", "secret2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v", err)
	}
	if _, err := env.auth.Login(ctx, "nobody", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user err = %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   RegisterInput
		want error
	}{
		{"missing name", RegisterInput{Password: "secret1"}, ErrValidation},
		{"short password", RegisterInput{Name: "bob", Password: "12345"}, ErrValidation},
		{"unknown type", RegisterInput{Name: "bob", Password: "secret1", Type: "admin"}, ErrValidation},
		{"shelter without id", RegisterInput{Name: "bob", Password: "secret1", Type: entity.RoleShelter}, ErrValidation},
		{"shelter not found", RegisterInput{Name: "bob", Password: "secret1", Type: entity.RoleShelter, ShelterID: "missing"}, ErrNotFound},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := env.auth.Register(ctx, c.in); !errors.Is(err, c.want) {
				t.Fatalf("err = %v, want %v", err, c.want)
			}
		})
	}

	if _, err := env.auth.Register(ctx, RegisterInput{Name: "carol", Password: "secret1"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := env.auth.Register(ctx, RegisterInput{Name: "carol", Password: "secret1"}); !errors.Is(err, ErrNameTaken) {
		t.Fatalf("duplicate err = %v, want ErrNameTaken", err)
	}
}

func TestRegisterShelterAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	staff := env.staff(t, "hope")

	res, err := env.auth.Register(ctx, RegisterInput{
		Name: "volunteer", Password: "secret1", Type: entity.RoleShelter, ShelterID: staff.ShelterID,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.User.Role != entity.RoleShelter || res.User.ShelterRef() != staff.ShelterID {
		t.Fatalf("user = %+v", res.User)
	}
}

func TestUserServiceProfileLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	env.register(t, "bob")

	u, err := env.users.UpdateName(ctx, alice.UserID, "alicia")
	if err != nil || u.Name != "alicia" {
		t.Fatalf("UpdateName = %+v, %v", u, err)
	}
	if _, err := env.users.UpdateName(ctx, alice.UserID, "bob"); !errors.Is(err, ErrNameTaken) {
		t.Fatalf("rename to taken err = %v", err)
	}
	if _, err := env.users.UpdateName(ctx, alice.UserID, " "); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank rename err = %v", err)
	}
	if err := env.users.Delete(ctx, alice.UserID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := env.users.GetProfile(ctx, alice.UserID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("profile after delete err = %v", err)
	}
}

func TestLoginChecksPasswordForUnknownNames(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice")

	var hashes []string
	env.auth.Compare = func(hash, plain string) bool {
		hashes = append(hashes, hash)
		return helpers.CompareHashAndPassword(hash, plain)
	}
	if _, err := env.auth.Login(ctx, "nobody", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown name err = %v", err)
	}
	if _, err := env.auth.Login(ctx, "alice", "wrong-pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v", err)
	}
	if len(hashes) != 2 || hashes[0] != helpers.DummyPasswordHash || hashes[1] == helpers.DummyPasswordHash {
		t.Fatalf("compared hashes = %v", hashes)
	}
}
