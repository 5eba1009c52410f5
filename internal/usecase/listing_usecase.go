package usecase

import (
	"context"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	"tradepost/pkg/errors"
)

type ListingUseCase struct {
	listingRepo repository.ListingRepository
}

func NewListingUseCase(listingRepo repository.ListingRepository) *ListingUseCase {
	return &ListingUseCase{
		listingRepo: listingRepo,
	}
}

type CreateListingInput struct {
	Name        string
	Description string
	Price       float64
}

func (uc *ListingUseCase) Create(ctx context.Context, sellerID string, input CreateListingInput) (*entity.Listing, error) {
	listing := &entity.Listing{
		SellerID:    sellerID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Status:      "active",
	}

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

func (uc *ListingUseCase) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	return uc.listingRepo.GetByID(ctx, id)
}

func (uc *ListingUseCase) ListBySeller(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Listing, int64, error) {
	return uc.listingRepo.ListBySellerID(ctx, sellerID, limit, offset)
}

func (uc *ListingUseCase) Delete(ctx context.Context, sellerID, id string) error {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if listing.SellerID != sellerID {
		return errors.Forbidden("You can only delete your own listings", nil)
	}

	return uc.listingRepo.Delete(ctx, id)
}
