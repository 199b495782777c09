// internal/repositories/cart_repository.go
package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/nnminh-sam/watch-store-backend/internal/models"
)

type CartRepository interface {
	Create(ctx context.Context, cart *models.Cart) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
}

type cartRepo struct {
	db DB
}

func NewCartRepository(db DB) CartRepository {
	return &cartRepo{db: db}
}

func (r *cartRepo) Create(ctx context.Context, cart *models.Cart) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO carts (id, user_id, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())`,
		cart.ID, cart.UserID,
	)
	return err
}

func (r *cartRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, created_at, updated_at
		FROM carts WHERE user_id=$1`, userID)

	var c models.Cart
	err := row.Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
