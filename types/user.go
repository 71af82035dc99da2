package types

import "time"

// User represents a learner account in the marketplace.
// It contains identity, profile attributes, and the courses the user
// has enrolled in.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Name is the user's display or full name.
	Name string `json:"name" db:"name"`

	// Email is the user's email address. It is unique among users.
	Email string `json:"email" db:"email"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// Phone is the contact phone number set through a profile update.
	Phone string `json:"phone_no" db:"phone_no"`

	// Gender is a free-form profile attribute.
	Gender string `json:"gender" db:"gender"`

	// ImageName is the original filename of the uploaded profile image.
	ImageName string `json:"image_name" db:"image_name"`

	// ImageURL is the media storage reference of the profile image.
	ImageURL string `json:"image_url" db:"image_url"`

	// EnrolledCourses holds the enrollment snapshots of the user, ordered
	// by enrollment time. It is only populated on detail views.
	EnrolledCourses []EnrollmentSnapshot `json:"enrolled_courses,omitempty" db:"-"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
