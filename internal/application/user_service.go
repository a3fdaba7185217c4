package application

import (
	"context"
	"errors"
	"strings"

	"github.com/oksasatya/pawpatrol/internal/domain/entity"
	repo "github.com/oksasatya/pawpatrol/internal/domain/repository"
)

type UserService struct {
	Repo repo.UserRepository
}

func NewUserService(r repo.UserRepository) *UserService {
	return &UserService{Repo: r}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound("user")
		}
		return nil, err
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]entity.User, error) {
	return s.Repo.List(ctx)
}

func (s *UserService) UpdateName(ctx context.Context, userID, name string) (*entity.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name is required")
	}
	u, err := s.Repo.UpdateName(ctx, userID, name)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return nil, notFound("user")
	case errors.Is(err, repo.ErrDuplicate):
		return nil, ErrNameTaken
	case err != nil:
		return nil, err
	}
	return u, nil
}

// Delete removes the account. Reports keep existing with no reporter.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	if err := s.Repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("user")
		}
		return err
	}
	return nil
}
