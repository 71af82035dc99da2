package services

import (
	"context"
	"fmt"
	"time"

	"github.com/KC-426/aeonaxy/internal/notify"
	"github.com/KC-426/aeonaxy/types"
)

// EnrollmentRepository stores the per-user enrollment snapshots.
type EnrollmentRepository interface {
	ListByUser(ctx context.Context, userID int) ([]types.EnrollmentSnapshot, error)
	Add(ctx context.Context, userID int, snapshot types.EnrollmentSnapshot) error
}

type userGetter interface {
	GetByID(ctx context.Context, id int) (types.User, error)
}

type courseGetter interface {
	Get(ctx context.Context, id int) (types.Course, error)
}

// EnrollmentService records which courses a user is enrolled in.
type EnrollmentService struct {
	repo     EnrollmentRepository
	users    userGetter
	courses  courseGetter
	notifier Notifier
	now      func() time.Time
}

func NewEnrollmentService(
	repo EnrollmentRepository,
	users UserRepository,
	courses CourseRepository,
	notifier Notifier,
) *EnrollmentService {
	return &EnrollmentService{
		repo:     repo,
		users:    users,
		courses:  courses,
		notifier: notifier,
		now:      time.Now,
	}
}

// Enroll snapshots course courseID into the enrollments of user userID.
// Enrolling twice in the same course is a Conflict.
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID int) (types.EnrollmentSnapshot, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return types.EnrollmentSnapshot{}, translate("get user", err, "user not found", "")
	}
	course, err := s.courses.Get(ctx, courseID)
	if err != nil {
		return types.EnrollmentSnapshot{}, translate("get course", err, "course not found", "")
	}

	enrolled, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return types.EnrollmentSnapshot{}, fmt.Errorf("list enrollments: %w", err)
	}
	for _, e := range enrolled {
		if e.CourseID == courseID {
			return types.EnrollmentSnapshot{}, fail(ErrConflict, "user already enrolled in this course")
		}
	}

	snapshot := types.SnapshotOf(course, s.now().UTC())
	if err := s.repo.Add(ctx, userID, snapshot); err != nil {
		return types.EnrollmentSnapshot{}, translate("add enrollment", err, "", "user already enrolled in this course")
	}

	dispatch(ctx, s.notifier, notify.Message{
		To:      user.Email,
		Subject: "Course enrollment confirmation",
		Body: fmt.Sprintf("Hi %s,\n\nYou are now enrolled in %s (%s, %s).",
			user.Name, course.Name, course.Category, course.Level),
	})
	return snapshot, nil
}

// List returns the enrollments of a user, oldest first. It is never nil.
func (s *EnrollmentService) List(ctx context.Context, userID int) ([]types.EnrollmentSnapshot, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, translate("get user", err, "user not found", "")
	}
	enrolled, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	if enrolled == nil {
		enrolled = []types.EnrollmentSnapshot{}
	}
	return enrolled, nil
}
