package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pawpatrol/internal/domain/entity"
	repo "github.com/oksasatya/pawpatrol/internal/domain/repository"
	"github.com/oksasatya/pawpatrol/pkg/helpers"
)

// ShelterCache holds the public shelter list.
type ShelterCache interface {
	Get(ctx context.Context) ([]entity.Shelter, bool, error)
	Set(ctx context.Context, shelters []entity.Shelter) error
	Invalidate(ctx context.Context) error
}

type ShelterService struct {
	Repo   repo.ShelterRepository
	Cache  ShelterCache
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewShelterService(r repo.ShelterRepository, cache ShelterCache, jwt *helpers.JWTManager, logger *logrus.Logger) *ShelterService {
	return &ShelterService{Repo: r, Cache: cache, JWT: jwt, Logger: logger}
}

type CreateShelterInput struct {
	Name     string
	Location *entity.Point
}

type UpdateShelterInput struct {
	Name     *string
	Location *entity.Point
}

// ShelterCreated carries the new shelter, its promoted owner and a token
// reflecting the owner's new role.
type ShelterCreated struct {
	Shelter   *entity.Shelter
	Owner     *entity.User
	Token     string
	ExpiresAt time.Time
}

func (s *ShelterService) List(ctx context.Context) ([]entity.Shelter, error) {
	if s.Cache != nil {
		cached, ok, err := s.Cache.Get(ctx)
		if err != nil {
			helpers.LogWarn(s.Logger, "shelter cache read failed", err, nil)
		} else if ok {
			return cached, nil
		}
	}
	list, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		if err := s.Cache.Set(ctx, list); err != nil {
			helpers.LogWarn(s.Logger, "shelter cache write failed", err, nil)
		}
	}
	return list, nil
}

func (s *ShelterService) Get(ctx context.Context, id string) (*entity.Shelter, error) {
	sh, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound("shelter")
		}
		return nil, err
	}
	return sh, nil
}

// Create inserts the shelter and promotes the caller to its staff in one
// transaction.
func (s *ShelterService) Create(ctx context.Context, p Principal, in CreateShelterInput) (*ShelterCreated, error) {
	if err := Authorize(p, ResourceShelter, ActionCreate, ""); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Location == nil {
		return nil, invalid("name and location are required")
	}
	if !in.Location.Valid() {
		return nil, invalid("location is out of range")
	}

	sh := &entity.Shelter{Name: name, Location: *in.Location}
	owner, err := s.Repo.CreateWithOwner(ctx, sh, p.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound("user")
		}
		helpers.LogError(s.Logger, "create shelter failed", err, logrus.Fields{"user_id": p.UserID})
		return nil, err
	}
	s.invalidate(ctx)

	out := &ShelterCreated{Shelter: sh, Owner: owner}
	if s.JWT != nil {
		tok, exp, err := s.JWT.Generate(tokenPayload(owner))
		if err != nil {
			return nil, err
		}
		out.Token, out.ExpiresAt = tok, exp
	}
	return out, nil
}

func (s *ShelterService) Update(ctx context.Context, p Principal, id string, in UpdateShelterInput) (*entity.Shelter, error) {
	if err := Authorize(p, ResourceShelter, ActionUpdate, ""); err != nil {
		return nil, err
	}
	sh, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, invalid("name must not be empty")
		}
		sh.Name = name
	}
	if in.Location != nil {
		if !in.Location.Valid() {
			return nil, invalid("location is out of range")
		}
		sh.Location = *in.Location
	}
	if err := s.Repo.Update(ctx, sh); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound("shelter")
		}
		return nil, err
	}
	s.invalidate(ctx)
	return sh, nil
}

// Delete removes the shelter; staff linked to it keep their role with no shelter.
func (s *ShelterService) Delete(ctx context.Context, p Principal, id string) error {
	if err := Authorize(p, ResourceShelter, ActionDelete, ""); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("shelter")
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ShelterService) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx); err != nil {
		helpers.LogWarn(s.Logger, "shelter cache invalidate failed", err, nil)
	}
}
