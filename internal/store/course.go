package store

import (
	"context"
	"fmt"
	"time"

	"github.com/KC-426/aeonaxy/internal/db"
	"github.com/KC-426/aeonaxy/types"
)

const courseColumns = `id, name, price, description, category, level, popularity, created_at, updated_at`

// filterColumns whitelists the columns a listing may filter on. Only
// these literals are ever spliced into SQL; values are always bound.
var filterColumns = map[types.CourseFilter]string{
	types.FilterCategory:   "category",
	types.FilterLevel:      "level",
	types.FilterPopularity: "popularity",
}

// CourseRepository handles persistence for courses.
type CourseRepository struct {
	db db.Querier
}

func NewCourseRepository(q db.Querier) *CourseRepository {
	return &CourseRepository{db: q}
}

// List returns one page of courses matching q together with the total
// number of matching rows.
func (r *CourseRepository) List(ctx context.Context, q types.CourseQuery) ([]types.Course, int, error) {
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.Limit < 1 {
		q.Limit = 20
	}

	where := ""
	var args []any
	if q.Filter != types.FilterNone {
		column, ok := filterColumns[q.Filter]
		if !ok {
			return nil, 0, fmt.Errorf("unsupported course filter %q", q.Filter)
		}
		where = " WHERE " + column + " = $1"
		args = append(args, q.Value)
	}

	var total int
	countQuery := `SELECT COUNT(1) FROM courses` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := fmt.Sprintf(
		`SELECT %s FROM courses%s ORDER BY id LIMIT $%d OFFSET $%d`,
		courseColumns, where, len(args)+1, len(args)+2,
	)
	rows, err := r.db.QueryContext(ctx, listQuery, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	courses := make([]types.Course, 0, q.Limit)
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, 0, err
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

func (r *CourseRepository) Get(ctx context.Context, id int) (types.Course, error) {
	const query = `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`
	return scanCourse(r.db.QueryRowContext(ctx, query, id))
}

func (r *CourseRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM courses WHERE name = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *CourseRepository) Create(ctx context.Context, course types.Course) (types.Course, error) {
	now := time.Now()
	course.CreatedAt = now
	course.UpdatedAt = now

	const query = `
		INSERT INTO courses (name, price, description, category, level, popularity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		course.Name,
		course.Price,
		course.Description,
		course.Category,
		course.Level,
		course.Popularity,
		course.CreatedAt,
		course.UpdatedAt,
	).Scan(&course.ID); err != nil {
		return types.Course{}, translateError(err)
	}
	return course, nil
}

func (r *CourseRepository) Update(ctx context.Context, course types.Course) (types.Course, error) {
	const query = `
		UPDATE courses
		SET name = $1,
			price = $2,
			description = $3,
			category = $4,
			level = $5,
			popularity = $6,
			updated_at = $7
		WHERE id = $8
		RETURNING ` + courseColumns
	return scanCourse(r.db.QueryRowContext(
		ctx,
		query,
		course.Name,
		course.Price,
		course.Description,
		course.Category,
		course.Level,
		course.Popularity,
		time.Now(),
		course.ID,
	))
}

func (r *CourseRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM courses WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

// DeleteAll removes every course. It returns ErrNotFound when the catalog
// was already empty.
func (r *CourseRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM courses`)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, ErrNotFound
	}
	return affected, nil
}

func scanCourse(row interface{ Scan(dest ...any) error }) (types.Course, error) {
	var course types.Course
	err := row.Scan(
		&course.ID,
		&course.Name,
		&course.Price,
		&course.Description,
		&course.Category,
		&course.Level,
		&course.Popularity,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		return types.Course{}, translateError(err)
	}
	return course, nil
}
