package repository

import (
	"context"

	"github.com/oksasatya/pawpatrol/internal/domain/entity"
)

type ShelterRepository interface {
	List(ctx context.Context) ([]entity.Shelter, error)
	GetByID(ctx context.Context, id string) (*entity.Shelter, error)
	// CreateWithOwner inserts s and promotes ownerID to the shelter role
	// linked to s, atomically. ErrNotFound means the owner does not exist
	// and nothing was written.
	CreateWithOwner(ctx context.Context, s *entity.Shelter, ownerID string) (*entity.User, error)
	Update(ctx context.Context, s *entity.Shelter) error
	Delete(ctx context.Context, id string) error
}
