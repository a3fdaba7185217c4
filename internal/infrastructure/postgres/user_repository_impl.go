package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/pawpatrol/internal/domain/entity"
	"github.com/oksasatya/pawpatrol/internal/domain/repository"
)

const userColumns = `id::text, name, password, type::text, shelter_id::text, created_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var role string
	if err := row.Scan(&u.ID, &u.Name, &u.Password, &role, &u.ShelterID, &u.CreatedAt); err != nil {
		return nil, translate(err)
	}
	u.Role = entity.Role(role)
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, password, type, shelter_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text, created_at
	`, u.Name, u.Password, string(u.Role), u.ShelterID)

	return translate(row.Scan(&u.ID, &u.CreatedAt))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByName(ctx context.Context, name string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE name = $1`, name))
}

func (r *UserRepository) List(ctx context.Context) ([]entity.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *UserRepository) UpdateName(ctx context.Context, id, name string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users SET name = $1
		WHERE id = $2
		RETURNING `+userColumns, name, id))
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
