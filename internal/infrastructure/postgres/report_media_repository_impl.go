package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/pawpatrol/internal/domain/entity"
	"github.com/oksasatya/pawpatrol/internal/domain/repository"
)

const mediaColumns = `id::text, dog_report_id::text, url, mime, created_at`

type ReportMediaRepository struct {
	pool *pgxpool.Pool
}

func NewReportMediaRepository(pool *pgxpool.Pool) *ReportMediaRepository {
	return &ReportMediaRepository{pool: pool}
}

func scanMedia(row pgx.Row) (*entity.ReportMedia, error) {
	m := &entity.ReportMedia{}
	if err := row.Scan(&m.ID, &m.DogReportID, &m.URL, &m.Mime, &m.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return m, nil
}

func (r *ReportMediaRepository) Create(ctx context.Context, m *entity.ReportMedia) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO dog_report_media (dog_report_id, url, mime)
		VALUES ($1, $2, $3)
		RETURNING id::text, created_at
	`, m.DogReportID, m.URL, m.Mime)
	return translate(row.Scan(&m.ID, &m.CreatedAt))
}

func (r *ReportMediaRepository) GetByID(ctx context.Context, id string) (*entity.ReportMedia, error) {
	return scanMedia(r.pool.QueryRow(ctx, `SELECT `+mediaColumns+` FROM dog_report_media WHERE id = $1`, id))
}

func (r *ReportMediaRepository) ListByReport(ctx context.Context, reportID string) ([]entity.ReportMedia, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+mediaColumns+`
		FROM dog_report_media
		WHERE dog_report_id = $1
		ORDER BY created_at
	`, reportID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := []entity.ReportMedia{}
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *ReportMediaRepository) Update(ctx context.Context, m *entity.ReportMedia) error {
	res, err := r.pool.Exec(ctx, `UPDATE dog_report_media SET url = $1, mime = $2 WHERE id = $3`, m.URL, m.Mime, m.ID)
	if err != nil {
		return translate(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ReportMediaRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM dog_report_media WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.ReportMediaRepository = (*ReportMediaRepository)(nil)
