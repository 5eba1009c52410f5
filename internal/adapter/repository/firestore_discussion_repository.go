package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	"tradepost/pkg/errors"
)

type firestoreDiscussionRepository struct {
	client *firestore.Client
}

func NewFirestoreDiscussionRepository(client *firestore.Client) repository.DiscussionRepository {
	return &firestoreDiscussionRepository{
		client: client,
	}
}

func (r *firestoreDiscussionRepository) Create(ctx context.Context, discussion *entity.Discussion) error {
	if discussion.ID == "" {
		discussion.ID = uuid.New().String()
	}

	now := time.Now()
	discussion.CreatedAt = now
	discussion.UpdatedAt = now

	_, err := r.client.Collection("discussions").Doc(discussion.ID).Set(ctx, discussion)
	if err != nil {
		return errors.Internal("Failed to create discussion", err)
	}

	return nil
}

func (r *firestoreDiscussionRepository) GetByID(ctx context.Context, id string) (*entity.Discussion, error) {
	doc, err := r.client.Collection("discussions").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Discussion", err)
		}
		return nil, errors.Internal("Failed to get discussion", err)
	}

	var discussion entity.Discussion
	if err := doc.DataTo(&discussion); err != nil {
		return nil, errors.Internal("Failed to parse discussion data", err)
	}

	return &discussion, nil
}

func (r *firestoreDiscussionRepository) GetByBuyerAndListing(ctx context.Context, buyerID, listingID string) (*entity.Discussion, error) {
	query := r.client.Collection("discussions").
		Where("buyerId", "==", buyerID).
		Where("listingId", "==", listingID).
		Limit(1)

	iter := query.Documents(ctx)
	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Discussion", nil)
		}
		return nil, errors.Internal("Failed to query discussion by buyer and listing", err)
	}

	var discussion entity.Discussion
	if err := doc.DataTo(&discussion); err != nil {
		return nil, errors.Internal("Failed to parse discussion data", err)
	}

	return &discussion, nil
}

// AppendMessage uses an atomic array append so two concurrent sends both
// land without a read-modify-write race.
func (r *firestoreDiscussionRepository) AppendMessage(ctx context.Context, discussionID string, message entity.Message) error {
	docRef := r.client.Collection("discussions").Doc(discussionID)

	_, err := docRef.Update(ctx, []firestore.Update{
		{Path: "messages", Value: firestore.ArrayUnion(message)},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Discussion", err)
		}
		return errors.Internal("Failed to append message", err)
	}

	return nil
}

// MarkSeenTail rewrites the message log inside a transaction. The
// transaction retries on contention, so a concurrently appended message is
// never overwritten with a stale log that lacks it.
func (r *firestoreDiscussionRepository) MarkSeenTail(ctx context.Context, discussionID, viewerID string) (int, error) {
	docRef := r.client.Collection("discussions").Doc(discussionID)

	flippedCount := 0
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			return err
		}

		var discussion entity.Discussion
		if err := doc.DataTo(&discussion); err != nil {
			return err
		}

		flipped := discussion.MarkSeenTail(viewerID)
		flippedCount = len(flipped)
		if flippedCount == 0 {
			return nil
		}

		return tx.Update(docRef, []firestore.Update{
			{Path: "messages", Value: discussion.Messages},
			{Path: "updatedAt", Value: time.Now()},
		})
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return 0, errors.NotFound("Discussion", err)
		}
		return 0, errors.Internal("Failed to update seen state", err)
	}

	return flippedCount, nil
}

func (r *firestoreDiscussionRepository) ClearParticipantSlot(ctx context.Context, discussionID, userID string) error {
	docRef := r.client.Collection("discussions").Doc(discussionID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			return err
		}

		var discussion entity.Discussion
		if err := doc.DataTo(&discussion); err != nil {
			return err
		}

		var path string
		switch userID {
		case discussion.BuyerID:
			path = "buyerId"
		case discussion.SellerID:
			path = "sellerId"
		default:
			// Already cleared; nothing to do.
			return nil
		}

		return tx.Update(docRef, []firestore.Update{
			{Path: path, Value: firestore.Delete},
			{Path: "updatedAt", Value: time.Now()},
		})
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return errors.Internal("Failed to clear participant slot", err)
	}

	return nil
}

func (r *firestoreDiscussionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("discussions").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete discussion", err)
	}

	return nil
}
