package repository

import (
	"context"

	"tradepost/internal/domain/entity"
)

type DiscussionRepository interface {
	Create(ctx context.Context, discussion *entity.Discussion) error
	GetByID(ctx context.Context, id string) (*entity.Discussion, error)
	GetByBuyerAndListing(ctx context.Context, buyerID, listingID string) (*entity.Discussion, error)

	// AppendMessage must be an atomic append so that two near-simultaneous
	// sends both land, in some order, without losing either.
	AppendMessage(ctx context.Context, discussionID string, message entity.Message) error

	// MarkSeenTail flips the trailing unseen run for viewerID without
	// clobbering messages appended concurrently, and returns how many
	// messages were flipped.
	MarkSeenTail(ctx context.Context, discussionID, viewerID string) (int, error)

	// ClearParticipantSlot blanks the buyer or seller reference matching
	// userID. Part of the account-deletion cascade; idempotent.
	ClearParticipantSlot(ctx context.Context, discussionID, userID string) error

	Delete(ctx context.Context, id string) error
}
