package handlers

import (
	"github.com/KC-426/aeonaxy/internal/pagination"
	"github.com/KC-426/aeonaxy/types"
)

type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
	Token   string `json:"token"`
}

type ProfilePatchRequest struct {
	Phone  *string `json:"phone_no" validate:"omitempty,max=32"`
	Gender *string `json:"gender" validate:"omitempty,max=32"`
}

type ProfileResponse struct {
	Message string     `json:"message"`
	User    types.User `json:"user"`
}

type EnrollmentsResponse struct {
	Message         string                     `json:"message"`
	EnrolledCourses []types.EnrollmentSnapshot `json:"enrolledCourses"`
}

// CourseRequest is the body of course create and update. Price is a
// pointer so that an explicit 0 can be told apart from a missing field.
type CourseRequest struct {
	Name        string   `json:"name" validate:"required"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Description string   `json:"description" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Level       string   `json:"level" validate:"required"`
	Popularity  string   `json:"popularity" validate:"required"`
}

// CourseListResponse is the paginated course listing payload.
type CourseListResponse struct {
	Message    string          `json:"message"`
	Courses    []types.Course  `json:"courses"`
	Pagination pagination.Meta `json:"pagination"`
}

type DeleteAllResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}
