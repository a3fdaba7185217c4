package repository

import (
	"context"

	"github.com/oksasatya/pawpatrol/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByName(ctx context.Context, name string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	UpdateName(ctx context.Context, id, name string) (*entity.User, error)
	Delete(ctx context.Context, id string) error
}
