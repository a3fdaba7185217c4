package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/pawpatrol/internal/domain/entity"
	"github.com/oksasatya/pawpatrol/internal/domain/repository"
)

const reportColumns = `id::text, ST_X(location), ST_Y(location), count, aggressiveness, status::text,
	created_on, acknowledged_on, reporter_id::text`

type ReportRepository struct {
	pool *pgxpool.Pool
}

func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

func scanReport(row pgx.Row) (*entity.Report, error) {
	r := &entity.Report{}
	var status string
	if err := row.Scan(&r.ID, &r.Location.X, &r.Location.Y, &r.Count, &r.Aggressiveness, &status,
		&r.CreatedOn, &r.AcknowledgedOn, &r.ReporterID); err != nil {
		return nil, translate(err)
	}
	r.Status = entity.ReportStatus(status)
	return r, nil
}

func (r *ReportRepository) collect(ctx context.Context, sql string, args ...any) ([]entity.Report, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := []entity.Report{}
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rep)
	}
	return out, rows.Err()
}

func (r *ReportRepository) Create(ctx context.Context, rep *entity.Report) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO dog_reports (location, count, aggressiveness, status, reporter_id)
		VALUES (ST_SetSRID(ST_MakePoint($1, $2), 4326), $3, $4, $5, $6)
		RETURNING id::text, created_on
	`, rep.Location.X, rep.Location.Y, rep.Count, rep.Aggressiveness, string(rep.Status), rep.ReporterID)
	return translate(row.Scan(&rep.ID, &rep.CreatedOn))
}

func (r *ReportRepository) GetByID(ctx context.Context, id string) (*entity.Report, error) {
	return scanReport(r.pool.QueryRow(ctx, `SELECT `+reportColumns+` FROM dog_reports WHERE id = $1`, id))
}

func (r *ReportRepository) List(ctx context.Context) ([]entity.Report, error) {
	return r.collect(ctx, `SELECT `+reportColumns+` FROM dog_reports ORDER BY created_on DESC`)
}

func (r *ReportRepository) ListByReporter(ctx context.Context, reporterID string) ([]entity.Report, error) {
	return r.collect(ctx, `SELECT `+reportColumns+` FROM dog_reports WHERE reporter_id = $1 ORDER BY created_on DESC`, reporterID)
}

// ListWithin returns reports within radiusMeters of center, nearest first.
// Distances are measured on the spheroid by casting to geography.
func (r *ReportRepository) ListWithin(ctx context.Context, center entity.Point, radiusMeters float64) ([]entity.Report, error) {
	return r.collect(ctx, `
		SELECT `+reportColumns+`
		FROM dog_reports
		WHERE ST_DWithin(location::geography, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
		ORDER BY location::geography <-> ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography
	`, center.X, center.Y, radiusMeters)
}

func (r *ReportRepository) ListByIDs(ctx context.Context, ids []string) ([]entity.Report, error) {
	if len(ids) == 0 {
		return []entity.Report{}, nil
	}
	return r.collect(ctx, `
		SELECT `+reportColumns+`
		FROM dog_reports
		WHERE id = ANY($1::uuid[])
		ORDER BY array_position($1::uuid[], id)
	`, ids)
}

// Patch leaves unset columns to the row's current value inside the UPDATE
// itself, so concurrent writers of other columns are not overwritten.
func (r *ReportRepository) Patch(ctx context.Context, id string, p repository.ReportPatch) (*entity.Report, error) {
	var x, y *float64
	if p.Location != nil {
		x, y = &p.Location.X, &p.Location.Y
	}
	var status *string
	if p.Status != nil {
		v := string(*p.Status)
		status = &v
	}
	return scanReport(r.pool.QueryRow(ctx, `
		UPDATE dog_reports
		SET location = CASE WHEN $2::float8 IS NULL THEN location
		                    ELSE ST_SetSRID(ST_MakePoint($2::float8, $3::float8), 4326) END,
		    count = COALESCE($4::int, count),
		    aggressiveness = COALESCE($5::int, aggressiveness),
		    status = COALESCE($6::dog_report_types, status),
		    acknowledged_on = COALESCE($7::timestamptz, acknowledged_on)
		WHERE id = $1
		RETURNING `+reportColumns, id, x, y, p.Count, p.Aggressiveness, status, p.AcknowledgedOn))
}

func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM dog_reports WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.ReportRepository = (*ReportRepository)(nil)
