package repository

import (
	"context"

	"tradepost/internal/domain/entity"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	ListBySellerID(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Listing, int64, error)
	Delete(ctx context.Context, id string) error
}
