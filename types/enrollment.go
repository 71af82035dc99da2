package types

import "time"

// EnrollmentSnapshot is a copy of a course's catalog fields taken when a
// user enrolled. Later edits to the course do not change it.
type EnrollmentSnapshot struct {
	CourseID    int       `json:"course_id" db:"course_id"`
	Name        string    `json:"name" db:"name"`
	Price       float64   `json:"price" db:"price"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	Level       string    `json:"level" db:"level"`
	Popularity  string    `json:"popularity" db:"popularity"`
	EnrolledAt  time.Time `json:"enrolled_at" db:"enrolled_at"`
}

// SnapshotOf copies the catalog fields of c into a new snapshot.
func SnapshotOf(c Course, at time.Time) EnrollmentSnapshot {
	return EnrollmentSnapshot{
		CourseID:    c.ID,
		Name:        c.Name,
		Price:       c.Price,
		Description: c.Description,
		Category:    c.Category,
		Level:       c.Level,
		Popularity:  c.Popularity,
		EnrolledAt:  at,
	}
}
