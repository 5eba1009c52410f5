package usecase

import (
	"context"
	"time"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	"tradepost/pkg/errors"
	"tradepost/pkg/logger"
)

type UserUseCase struct {
	userRepo       repository.UserRepository
	discussionRepo repository.DiscussionRepository
	auth           AuthProvider
}

func NewUserUseCase(
	userRepo repository.UserRepository,
	discussionRepo repository.DiscussionRepository,
	auth AuthProvider,
) *UserUseCase {
	return &UserUseCase{
		userRepo:       userRepo,
		discussionRepo: discussionRepo,
		auth:           auth,
	}
}

type FavoriteToggle struct {
	ListingID string
	Favorite  bool
}

type DiscussionHide struct {
	DiscussionID string
	Hidden       bool
}

// UpdateAccountInput is a tagged union: exactly one field may be set per
// request. Payloads that set more than one variant are rejected.
type UpdateAccountInput struct {
	DisplayName    *string
	Email          *string
	Password       *string
	AvatarURL      *string
	FavoriteToggle *FavoriteToggle
	DiscussionHide *DiscussionHide
}

func (in UpdateAccountInput) variantCount() int {
	count := 0
	if in.DisplayName != nil {
		count++
	}
	if in.Email != nil {
		count++
	}
	if in.Password != nil {
		count++
	}
	if in.AvatarURL != nil {
		count++
	}
	if in.FavoriteToggle != nil {
		count++
	}
	if in.DiscussionHide != nil {
		count++
	}
	return count
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

func (uc *UserUseCase) UpdateAccount(ctx context.Context, userID string, input UpdateAccountInput) error {
	switch input.variantCount() {
	case 0:
		return errors.Validation("update payload must set exactly one field", nil)
	case 1:
	default:
		return errors.Validation("update payload must not set more than one field", nil)
	}

	switch {
	case input.DisplayName != nil:
		user, err := uc.userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		user.DisplayName = *input.DisplayName
		user.UpdatedAt = time.Now()
		return uc.userRepo.Update(ctx, user)

	case input.Email != nil:
		if err := uc.auth.UpdateUserEmail(ctx, userID, *input.Email); err != nil {
			return errors.Internal("Failed to update email", err)
		}
		user, err := uc.userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		user.Email = *input.Email
		user.UpdatedAt = time.Now()
		return uc.userRepo.Update(ctx, user)

	case input.Password != nil:
		if err := uc.auth.UpdateUserPassword(ctx, userID, *input.Password); err != nil {
			return errors.Internal("Failed to update password", err)
		}
		return nil

	case input.AvatarURL != nil:
		user, err := uc.userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		user.AvatarURL = *input.AvatarURL
		user.UpdatedAt = time.Now()
		return uc.userRepo.Update(ctx, user)

	case input.FavoriteToggle != nil:
		return uc.userRepo.SetFavorite(ctx, userID, input.FavoriteToggle.ListingID, input.FavoriteToggle.Favorite)

	case input.DiscussionHide != nil:
		user, err := uc.userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if !user.HasLinked(input.DiscussionHide.DiscussionID) {
			return errors.NotFound("Discussion", nil)
		}
		return uc.userRepo.SetHidden(ctx, userID, input.DiscussionHide.DiscussionID, input.DiscussionHide.Hidden)

	default:
		// variantCount guarantees one arm matched.
		return errors.Internal("Unhandled update variant", nil)
	}
}

// DeleteAccount removes the user and walks their linked discussions,
// clearing the departing side's slot. A discussion whose counterpart is gone
// or had already unlinked is hard-deleted; the rest stay behind and render
// this side as deleted. The routine is idempotent so a partial failure can
// simply be re-run.
func (uc *UserUseCase) DeleteAccount(ctx context.Context, userID string) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return uc.auth.DeleteUser(ctx, userID)
		}
		return err
	}

	for _, discussionID := range user.LinkedDiscussionIDs {
		discussion, err := uc.discussionRepo.GetByID(ctx, discussionID)
		if err != nil {
			if errors.Is(err, "NOT_FOUND") {
				continue
			}
			return err
		}

		if err := uc.discussionRepo.ClearParticipantSlot(ctx, discussionID, userID); err != nil {
			return err
		}

		if uc.counterpartStillLinks(ctx, discussion, userID) {
			continue
		}

		if err := uc.discussionRepo.Delete(ctx, discussionID); err != nil {
			return err
		}
		logger.Info("Hard-deleted discussion %s during account deletion of %s", discussionID, userID)
	}

	if err := uc.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	if err := uc.auth.DeleteUser(ctx, userID); err != nil {
		return errors.Internal("Failed to delete auth account", err)
	}

	return nil
}

func (uc *UserUseCase) counterpartStillLinks(ctx context.Context, discussion *entity.Discussion, userID string) bool {
	counterpartID, ok := discussion.Counterpart(userID)
	if !ok {
		return false
	}

	counterpart, err := uc.userRepo.GetByID(ctx, counterpartID)
	if err != nil {
		return false
	}

	return counterpart.HasLinked(discussion.ID)
}
