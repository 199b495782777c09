// internal/services/cart_service.go
package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/nnminh-sam/watch-store-backend/internal/models"
	"github.com/nnminh-sam/watch-store-backend/internal/repositories"
)

// CartService owns cart creation at sign-up. This is an explicit call
// from the auth service rather than an async event, so the sign-up
// transaction outcome stays visible to the caller.
type CartService interface {
	CreateForUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
}

type cartService struct {
	cartRepo repositories.CartRepository
}

func NewCartService(cartRepo repositories.CartRepository) CartService {
	return &cartService{cartRepo: cartRepo}
}

func (s *cartService) CreateForUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	// One cart per user. A retried sign-up must not create a second one.
	existing, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	cart := &models.Cart{
		ID:     uuid.New(),
		UserID: userID,
	}
	if err := s.cartRepo.Create(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}
