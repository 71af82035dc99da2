package store

import (
	"context"
	"time"

	"github.com/KC-426/aeonaxy/internal/db"
	"github.com/KC-426/aeonaxy/types"
)

// AdminRepository handles persistence for super-admins.
type AdminRepository struct {
	db db.Querier
}

func NewAdminRepository(q db.Querier) *AdminRepository {
	return &AdminRepository{db: q}
}

func (r *AdminRepository) GetByID(ctx context.Context, id int) (types.Admin, error) {
	const query = `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM admins
		WHERE id = $1`
	return scanAdmin(r.db.QueryRowContext(ctx, query, id))
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (types.Admin, error) {
	const query = `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM admins
		WHERE email = $1`
	return scanAdmin(r.db.QueryRowContext(ctx, query, email))
}

func (r *AdminRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM admins WHERE email = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *AdminRepository) Create(ctx context.Context, admin types.Admin) (types.Admin, error) {
	now := time.Now()
	admin.CreatedAt = now
	admin.UpdatedAt = now

	const query = `
		INSERT INTO admins (name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		admin.Name,
		admin.Email,
		admin.PasswordHash,
		admin.CreatedAt,
		admin.UpdatedAt,
	).Scan(&admin.ID); err != nil {
		return types.Admin{}, translateError(err)
	}
	return admin, nil
}

func scanAdmin(row interface{ Scan(dest ...any) error }) (types.Admin, error) {
	var admin types.Admin
	err := row.Scan(
		&admin.ID,
		&admin.Name,
		&admin.Email,
		&admin.PasswordHash,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	if err != nil {
		return types.Admin{}, translateError(err)
	}
	return admin, nil
}
