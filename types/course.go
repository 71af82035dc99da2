package types

import "time"

// Course is a catalog entry that users can enroll in.
type Course struct {
	// ID is the unique identifier of the course.
	ID int `json:"id" db:"id"`

	// Name is the course title. It is unique across the catalog.
	Name string `json:"name" db:"name"`

	// Price is the course price in the marketplace currency.
	Price float64 `json:"price" db:"price"`

	// Description is the long-form "about this course" text.
	Description string `json:"description" db:"description"`

	// Category groups courses by subject, e.g. "cs".
	Category string `json:"category" db:"category"`

	// Level is the intended audience level, e.g. "beginner".
	Level string `json:"level" db:"level"`

	// Popularity is a coarse popularity bucket, e.g. "high".
	Popularity string `json:"popularity" db:"popularity"`

	// CreatedAt is the timestamp at which the course was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the course.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CourseFilter names a column a course listing can be narrowed by.
type CourseFilter string

// Supported listing filters.
const (
	FilterNone       CourseFilter = ""
	FilterCategory   CourseFilter = "category"
	FilterLevel      CourseFilter = "level"
	FilterPopularity CourseFilter = "popularity"
)

// Valid reports whether f is one of the supported filters.
func (f CourseFilter) Valid() bool {
	switch f {
	case FilterNone, FilterCategory, FilterLevel, FilterPopularity:
		return true
	default:
		return false
	}
}

// CourseQuery describes one page of a filtered course listing.
// Value is matched exactly against the Filter column.
type CourseQuery struct {
	Filter CourseFilter
	Value  string
	Offset int
	Limit  int
}
