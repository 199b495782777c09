// internal/repositories/user_repository.go
package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/nnminh-sam/watch-store-backend/internal/models"
)

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error

	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByPhoneNumber(ctx context.Context, phone string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	// Delete removes a user row. Used as the compensating action when
	// cart creation fails mid sign-up.
	Delete(ctx context.Context, id uuid.UUID) error
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type userRepo struct {
	db DB
}

func NewUserRepository(db DB) UserRepository {
	return &userRepo{db: db}
}

const baseSelectUser = `
	SELECT id, email, phone_number, first_name, last_name, role,
	       password_hash, created_at, updated_at, deleted_at
	FROM users
`

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (
			id, email, phone_number, first_name, last_name, role,
			password_hash, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,NOW(),NOW())`,
		user.ID, user.Email, user.PhoneNumber, user.FirstName, user.LastName,
		user.Role, user.PasswordHash,
	)
	return err
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRow(ctx, baseSelectUser+` WHERE email=$1 AND deleted_at IS NULL`, email)
	return r.scanUser(row)
}

func (r *userRepo) GetByPhoneNumber(ctx context.Context, phone string) (*models.User, error) {
	row := r.db.QueryRow(ctx, baseSelectUser+` WHERE phone_number=$1 AND deleted_at IS NULL`, phone)
	return r.scanUser(row)
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := r.db.QueryRow(ctx, baseSelectUser+` WHERE id=$1 AND deleted_at IS NULL`, id)
	return r.scanUser(row)
}

func (r *userRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET password_hash=$2, updated_at=NOW() WHERE id=$1`,
		id, passwordHash,
	)
	return err
}

func (r *userRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	return err
}

func (r *userRepo) scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PhoneNumber,
		&u.FirstName,
		&u.LastName,
		&u.Role,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.DeletedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
