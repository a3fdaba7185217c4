package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/pawpatrol/internal/domain/entity"
	"github.com/oksasatya/pawpatrol/internal/domain/repository"
)

const shelterColumns = `id::text, name, ST_X(location), ST_Y(location), created_at`

type ShelterRepository struct {
	pool *pgxpool.Pool
}

func NewShelterRepository(pool *pgxpool.Pool) *ShelterRepository {
	return &ShelterRepository{pool: pool}
}

func scanShelter(row pgx.Row) (*entity.Shelter, error) {
	s := &entity.Shelter{}
	if err := row.Scan(&s.ID, &s.Name, &s.Location.X, &s.Location.Y, &s.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return s, nil
}

func (r *ShelterRepository) List(ctx context.Context) ([]entity.Shelter, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+shelterColumns+` FROM shelters ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.Shelter{}
	for rows.Next() {
		s, err := scanShelter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *ShelterRepository) GetByID(ctx context.Context, id string) (*entity.Shelter, error) {
	return scanShelter(r.pool.QueryRow(ctx, `SELECT `+shelterColumns+` FROM shelters WHERE id = $1`, id))
}

func (r *ShelterRepository) CreateWithOwner(ctx context.Context, s *entity.Shelter, ownerID string) (*entity.User, error) {
	var owner *entity.User
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO shelters (name, location)
			VALUES ($1, ST_SetSRID(ST_MakePoint($2, $3), 4326))
			RETURNING id::text, created_at
		`, s.Name, s.Location.X, s.Location.Y)
		if err := row.Scan(&s.ID, &s.CreatedAt); err != nil {
			return err
		}

		u, err := scanUser(tx.QueryRow(ctx, `
			UPDATE users SET type = 'shelter', shelter_id = $1
			WHERE id = $2
			RETURNING `+userColumns, s.ID, ownerID))
		if err != nil {
			return err
		}
		owner = u
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return owner, nil
}

func (r *ShelterRepository) Update(ctx context.Context, s *entity.Shelter) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE shelters
		SET name = $1, location = ST_SetSRID(ST_MakePoint($2, $3), 4326)
		WHERE id = $4
		RETURNING created_at
	`, s.Name, s.Location.X, s.Location.Y, s.ID)
	return translate(row.Scan(&s.CreatedAt))
}

func (r *ShelterRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM shelters WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.ShelterRepository = (*ShelterRepository)(nil)
