package repository

import (
	"context"

	"tradepost/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error

	LinkDiscussion(ctx context.Context, userID, discussionID string) error
	UnlinkDiscussion(ctx context.Context, userID, discussionID string) error
	SetHidden(ctx context.Context, userID, discussionID string, hidden bool) error
	SetFavorite(ctx context.Context, userID, listingID string, favorite bool) error
	SetHasUnseen(ctx context.Context, userID string, hasUnseen bool) error
}
