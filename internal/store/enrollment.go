package store

import (
	"context"

	"github.com/KC-426/aeonaxy/internal/db"
	"github.com/KC-426/aeonaxy/types"
)

// EnrollmentRepository stores the per-user enrollment snapshots.
type EnrollmentRepository struct {
	db db.Querier
}

func NewEnrollmentRepository(q db.Querier) *EnrollmentRepository {
	return &EnrollmentRepository{db: q}
}

// ListByUser returns the snapshots of a user ordered by enrollment time.
// The result is empty, not nil, when the user has none.
func (r *EnrollmentRepository) ListByUser(ctx context.Context, userID int) ([]types.EnrollmentSnapshot, error) {
	const query = `
		SELECT course_id, name, price, description, category, level, popularity, enrolled_at
		FROM enrollments
		WHERE user_id = $1
		ORDER BY enrolled_at, course_id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := make([]types.EnrollmentSnapshot, 0)
	for rows.Next() {
		var s types.EnrollmentSnapshot
		if err := rows.Scan(
			&s.CourseID,
			&s.Name,
			&s.Price,
			&s.Description,
			&s.Category,
			&s.Level,
			&s.Popularity,
			&s.EnrolledAt,
		); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return snapshots, nil
}

// Add appends one snapshot to the user's collection. A second snapshot
// for the same course yields ErrConflict.
func (r *EnrollmentRepository) Add(ctx context.Context, userID int, s types.EnrollmentSnapshot) error {
	const query = `
		INSERT INTO enrollments (user_id, course_id, name, price, description, category, level, popularity, enrolled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(
		ctx,
		query,
		userID,
		s.CourseID,
		s.Name,
		s.Price,
		s.Description,
		s.Category,
		s.Level,
		s.Popularity,
		s.EnrolledAt,
	)
	return translateError(err)
}
