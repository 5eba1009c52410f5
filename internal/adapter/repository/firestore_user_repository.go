package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	"tradepost/pkg/errors"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.client.Collection("users").Doc(user.ID).Set(ctx, user)
	if err != nil {
		return errors.Internal("Failed to create user", err)
	}

	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection("users").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Internal("Failed to get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}

	return &user, nil
}

// Update merges only the mutable profile fields so empty values never
// overwrite existing data.
func (r *firestoreUserRepository) Update(ctx context.Context, user *entity.User) error {
	updateData := map[string]interface{}{
		"email":       user.Email,
		"displayName": user.DisplayName,
		"avatarURL":   user.AvatarURL,
		"updatedAt":   time.Now(),
	}

	cleanUpdateData := make(map[string]interface{})
	for key, value := range updateData {
		if strVal, ok := value.(string); ok && strVal == "" {
			continue
		}
		cleanUpdateData[key] = value
	}

	_, err := r.client.Collection("users").Doc(user.ID).Set(ctx, cleanUpdateData, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to update user", err)
	}

	return nil
}

func (r *firestoreUserRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("users").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete user", err)
	}

	return nil
}

func (r *firestoreUserRepository) LinkDiscussion(ctx context.Context, userID, discussionID string) error {
	return r.updateArray(ctx, userID, "linkedDiscussionIds", discussionID, true)
}

func (r *firestoreUserRepository) UnlinkDiscussion(ctx context.Context, userID, discussionID string) error {
	return r.updateArray(ctx, userID, "linkedDiscussionIds", discussionID, false)
}

func (r *firestoreUserRepository) SetHidden(ctx context.Context, userID, discussionID string, hidden bool) error {
	return r.updateArray(ctx, userID, "hiddenDiscussionIds", discussionID, hidden)
}

func (r *firestoreUserRepository) SetFavorite(ctx context.Context, userID, listingID string, favorite bool) error {
	return r.updateArray(ctx, userID, "favoriteListingIds", listingID, favorite)
}

func (r *firestoreUserRepository) SetHasUnseen(ctx context.Context, userID string, hasUnseen bool) error {
	_, err := r.client.Collection("users").Doc(userID).Update(ctx, []firestore.Update{
		{Path: "hasUnseenMessages", Value: hasUnseen},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("User", err)
		}
		return errors.Internal("Failed to update unseen flag", err)
	}

	return nil
}

func (r *firestoreUserRepository) updateArray(ctx context.Context, userID, field, value string, add bool) error {
	var op interface{}
	if add {
		op = firestore.ArrayUnion(value)
	} else {
		op = firestore.ArrayRemove(value)
	}

	_, err := r.client.Collection("users").Doc(userID).Update(ctx, []firestore.Update{
		{Path: field, Value: op},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("User", err)
		}
		return errors.Internal("Failed to update "+field, err)
	}

	return nil
}
