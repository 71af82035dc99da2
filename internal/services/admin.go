package services

import (
	"context"
	"fmt"

	"github.com/KC-426/aeonaxy/internal/auth"
	"github.com/KC-426/aeonaxy/types"
)

// AdminRepository defines persistence operations for super-admins.
type AdminRepository interface {
	GetByID(ctx context.Context, id int) (types.Admin, error)
	GetByEmail(ctx context.Context, email string) (types.Admin, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, admin types.Admin) (types.Admin, error)
}

// AdminService encapsulates super-admin account use-cases.
type AdminService struct {
	repo   AdminRepository
	hasher PasswordHasher
	tokens TokenIssuer
}

func NewAdminService(repo AdminRepository, hasher PasswordHasher, tokens TokenIssuer) *AdminService {
	return &AdminService{repo: repo, hasher: hasher, tokens: tokens}
}

// Signup registers a new super-admin.
func (s *AdminService) Signup(ctx context.Context, in SignupInput) (types.Admin, error) {
	if err := validateSignup(&in); err != nil {
		return types.Admin{}, err
	}
	if err := validatePassword(in.Password); err != nil {
		return types.Admin{}, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return types.Admin{}, fmt.Errorf("check admin email: %w", err)
	}
	if exists {
		return types.Admin{}, fail(ErrConflict, "super admin already exists")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return types.Admin{}, fmt.Errorf("hash password: %w", err)
	}
	admin, err := s.repo.Create(ctx, types.Admin{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		return types.Admin{}, translate("create admin", err, "", "super admin already exists")
	}
	return admin, nil
}

// Login verifies super-admin credentials and issues an admin token.
func (s *AdminService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, fail(ErrInvalidArgument, "email and password are required")
	}

	admin, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return LoginResult{}, translate("get admin", err, "super admin not found", "")
	}
	if !s.hasher.Compare(password, admin.PasswordHash) {
		return LoginResult{}, fail(ErrUnauthenticated, "incorrect password")
	}

	token, err := issueToken(ctx, s.tokens, auth.Subject{ID: admin.ID, Role: auth.RoleAdmin, Email: admin.Email})
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}
	return LoginResult{Email: admin.Email, Token: token}, nil
}

// Get returns the admin with the given id.
func (s *AdminService) Get(ctx context.Context, id int) (types.Admin, error) {
	admin, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.Admin{}, translate("get admin", err, "super admin not found", "")
	}
	return admin, nil
}
