package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KC-426/aeonaxy/internal/auth"
	"github.com/KC-426/aeonaxy/internal/notify"
	"github.com/KC-426/aeonaxy/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	UpdateProfile(ctx context.Context, user types.User) (types.User, error)
}

// MediaStore keeps uploaded profile images.
type MediaStore interface {
	Store(ctx context.Context, data []byte, name, contentType string) (string, error)
	Remove(ctx context.Context, ref string) error
}

// Upload is a file received from a client.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// ProfileInput carries a profile change. Nil fields are left untouched.
type ProfileInput struct {
	Phone  *string
	Gender *string
	Image  *Upload
}

// UserService encapsulates user use-cases.
type UserService struct {
	repo        UserRepository
	enrollments EnrollmentRepository
	hasher      PasswordHasher
	tokens      TokenIssuer
	media       MediaStore
	notifier    Notifier
}

func NewUserService(
	repo UserRepository,
	enrollments EnrollmentRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	media MediaStore,
	notifier Notifier,
) *UserService {
	return &UserService{
		repo:        repo,
		enrollments: enrollments,
		hasher:      hasher,
		tokens:      tokens,
		media:       media,
		notifier:    notifier,
	}
}

// Signup registers a new user and sends a welcome email.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (types.User, error) {
	if err := validateSignup(&in); err != nil {
		return types.User{}, err
	}
	if err := validatePassword(in.Password); err != nil {
		return types.User{}, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return types.User{}, fmt.Errorf("check user email: %w", err)
	}
	if exists {
		return types.User{}, fail(ErrConflict, "user already exists")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return types.User{}, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.repo.Create(ctx, types.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		return types.User{}, translate("create user", err, "", "user already exists")
	}

	dispatch(ctx, s.notifier, notify.Message{
		To:      user.Email,
		Subject: "Welcome to Aeonaxy",
		Body:    fmt.Sprintf("Hi %s,\n\nYour account has been created. Happy learning!", user.Name),
	})
	return user, nil
}

// Login verifies the credentials of a user and issues a token.
func (s *UserService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, fail(ErrInvalidArgument, "email and password are required")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return LoginResult{}, translate("get user", err, "user not found, please sign up", "")
	}
	if !s.hasher.Compare(password, user.PasswordHash) {
		return LoginResult{}, fail(ErrUnauthenticated, "incorrect password")
	}

	token, err := issueToken(ctx, s.tokens, auth.Subject{ID: user.ID, Role: auth.RoleUser, Email: user.Email})
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}
	return LoginResult{Email: user.Email, Token: token}, nil
}

// Get returns a user together with the courses they are enrolled in.
func (s *UserService) Get(ctx context.Context, id int) (types.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.User{}, translate("get user", err, "user not found", "")
	}
	enrolled, err := s.enrollments.ListByUser(ctx, id)
	if err != nil {
		return types.User{}, fmt.Errorf("list enrollments: %w", err)
	}
	user.EnrolledCourses = enrolled
	return user, nil
}

// UpdateProfile applies in to the profile of user id. A new image is
// uploaded before the record changes and removed again if the write fails.
func (s *UserService) UpdateProfile(ctx context.Context, id int, in ProfileInput) (types.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.User{}, translate("get user", err, "user not found", "")
	}

	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Gender != nil {
		user.Gender = strings.TrimSpace(*in.Gender)
	}

	previous := user.ImageURL
	var uploaded string
	if in.Image != nil {
		if len(in.Image.Data) == 0 {
			return types.User{}, fail(ErrInvalidArgument, "uploaded file is empty")
		}
		if s.media == nil {
			return types.User{}, fmt.Errorf("upload profile image: no media store configured")
		}
		uploaded, err = s.media.Store(ctx, in.Image.Data, in.Image.Name, in.Image.ContentType)
		if err != nil {
			return types.User{}, fmt.Errorf("upload profile image: %w", err)
		}
		user.ImageName = in.Image.Name
		user.ImageURL = uploaded
	}

	updated, err := s.repo.UpdateProfile(ctx, user)
	if err != nil {
		if uploaded != "" {
			s.removeMedia(ctx, uploaded)
		}
		return types.User{}, translate("update profile", err, "user not found", "")
	}
	if uploaded != "" && previous != "" && previous != uploaded {
		s.removeMedia(ctx, previous)
	}
	return updated, nil
}

func (s *UserService) removeMedia(ctx context.Context, ref string) {
	if err := s.media.Remove(context.WithoutCancel(ctx), ref); err != nil {
		slog.Warn("remove profile image", slog.String("ref", ref), slog.Any("error", err))
	}
}
