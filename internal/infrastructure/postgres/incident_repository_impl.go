package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ghozali/disaster-incident-api/internal/domain/entity"
	"github.com/ghozali/disaster-incident-api/internal/domain/repository"
)

// IncidentRepository serves one incident table. The table and the
// kind-specific column names come from the IncidentKind descriptor, so the
// same implementation backs both fire_incidents and drought_incidents.
type IncidentRepository struct {
	pool *pgxpool.Pool
	kind entity.IncidentKind

	selectCols string
	writeCols  []string
}

func NewIncidentRepository(pool *pgxpool.Pool, kind entity.IncidentKind) *IncidentRepository {
	writeCols := []string{
		"province", "district", kind.LevelColumn, kind.AreaColumn,
		"affected_people", "start_date", "end_date", "status", kind.CategoryColumn,
	}
	if kind.HasWaterFields {
		writeCols = append(writeCols, "water_source_impact", "mitigation_efforts")
	}
	writeCols = append(writeCols, "description")

	selectCols := "id, " + strings.Join(writeCols, ", ") + ", created_at, updated_at"

	return &IncidentRepository{
		pool:       pool,
		kind:       kind,
		selectCols: selectCols,
		writeCols:  writeCols,
	}
}

func (r *IncidentRepository) Kind() entity.IncidentKind { return r.kind }

func (r *IncidentRepository) scan(row pgx.Row) (*entity.Incident, error) {
	inc := &entity.Incident{}
	dest := []any{
		&inc.ID, &inc.Province, &inc.District, &inc.Level, &inc.Area,
		&inc.AffectedPeople, &inc.StartDate, &inc.EndDate, &inc.Status, &inc.Category,
	}
	if r.kind.HasWaterFields {
		dest = append(dest, &inc.WaterSourceImpact, &inc.MitigationEfforts)
	}
	dest = append(dest, &inc.Description, &inc.CreatedAt, &inc.UpdatedAt)

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return inc, nil
}

func (r *IncidentRepository) writeArgs(inc *entity.Incident) []any {
	args := []any{
		inc.Province, inc.District, inc.Level, inc.Area,
		inc.AffectedPeople, inc.StartDate, inc.EndDate, inc.Status, inc.Category,
	}
	if r.kind.HasWaterFields {
		args = append(args, inc.WaterSourceImpact, inc.MitigationEfforts)
	}
	return append(args, inc.Description)
}

func (r *IncidentRepository) List() ([]*entity.Incident, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY created_at DESC", r.selectCols, r.kind.Table,
	))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.Incident, 0)
	for rows.Next() {
		inc, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inc)
	}
	return out, rows.Err()
}

func (r *IncidentRepository) GetByID(id int64) (*entity.Incident, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, fmt.Sprintf(
		"SELECT %s FROM %s WHERE id = $1", r.selectCols, r.kind.Table,
	), id)
	return r.scan(row)
}

func (r *IncidentRepository) Create(inc *entity.Incident) (int64, error) {
	ctx := context.Background()
	placeholders := make([]string, len(r.writeCols))
	for i := range r.writeCols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	var id int64
	err := r.pool.QueryRow(ctx, fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		r.kind.Table, strings.Join(r.writeCols, ", "), strings.Join(placeholders, ", "),
	), r.writeArgs(inc)...).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update overwrites all mutable columns unconditionally and refreshes
// updated_at. Omitted optional fields are written as NULL.
func (r *IncidentRepository) Update(id int64, inc *entity.Incident) error {
	ctx := context.Background()
	sets := make([]string, len(r.writeCols))
	for i, col := range r.writeCols {
		sets[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	args := r.writeArgs(inc)
	args = append(args, time.Now(), id)

	res, err := r.pool.Exec(ctx, fmt.Sprintf(
		"UPDATE %s SET %s, updated_at = $%d WHERE id = $%d",
		r.kind.Table, strings.Join(sets, ", "), len(args)-1, len(args),
	), args...)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *IncidentRepository) Delete(id int64) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.kind.Table), id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.IncidentRepository = (*IncidentRepository)(nil)
