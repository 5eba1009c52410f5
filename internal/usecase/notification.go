package usecase

import (
	"context"

	"tradepost/internal/domain/repository"
	"tradepost/pkg/errors"
)

// NotificationMaintainer owns the per-user aggregate unseen flag. The two
// directions are deliberately asymmetric:
//
//   - setting the flag happens inline on every append, because the appended
//     message is itself proof of an unseen message;
//   - clearing it requires evidence about every other linked discussion, so
//     it is only attempted after a seen-rewrite, by rescanning them.
//
// The flag may therefore be stale-true between a counterpart's unlink and
// the user's next seen-rewrite, but it is never incorrectly false.
type NotificationMaintainer struct {
	discussionRepo repository.DiscussionRepository
	userRepo       repository.UserRepository
}

func NewNotificationMaintainer(
	discussionRepo repository.DiscussionRepository,
	userRepo repository.UserRepository,
) *NotificationMaintainer {
	return &NotificationMaintainer{
		discussionRepo: discussionRepo,
		userRepo:       userRepo,
	}
}

// MarkUnseen raises the flag unconditionally. O(1) and always sound.
func (m *NotificationMaintainer) MarkUnseen(ctx context.Context, userID string) error {
	return m.userRepo.SetHasUnseen(ctx, userID, true)
}

// Recompute re-derives the flag for userID from the true state of their
// linked discussions. actedOnID is the discussion whose trailing run was
// just marked seen; it is skipped because it is known clean.
func (m *NotificationMaintainer) Recompute(ctx context.Context, userID, actedOnID string) error {
	user, err := m.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	hasUnseen := false
	for _, id := range user.LinkedDiscussionIDs {
		if id == actedOnID {
			continue
		}

		discussion, err := m.discussionRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, "NOT_FOUND") {
				// Hard-deleted under us; a stale link is not an unseen message.
				continue
			}
			return err
		}

		if discussion.HasUnseenFor(userID) {
			hasUnseen = true
			break
		}
	}

	if user.HasUnseenMessages == hasUnseen {
		return nil
	}
	return m.userRepo.SetHasUnseen(ctx, userID, hasUnseen)
}
