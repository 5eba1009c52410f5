package usecase

import (
	"context"
	"time"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	"tradepost/internal/infrastructure/realtime"
	"tradepost/pkg/errors"
	"tradepost/pkg/logger"
	"tradepost/pkg/utils"
)

// DeletedDisplayName is rendered for a participant whose account no longer
// resolves. Historical messages keep their original author ids regardless.
const DeletedDisplayName = "[DELETED]"

// DiscussionUseCase orchestrates the discussion lifecycle: create, append,
// mark seen, unlink. Every durable write happens before its fan-out; a
// publish failure is reported to the caller as a transport error but never
// rolls the write back.
type DiscussionUseCase struct {
	discussionRepo repository.DiscussionRepository
	userRepo       repository.UserRepository
	listingRepo    repository.ListingRepository
	notifications  *NotificationMaintainer
	publisher      EventPublisher
}

func NewDiscussionUseCase(
	discussionRepo repository.DiscussionRepository,
	userRepo repository.UserRepository,
	listingRepo repository.ListingRepository,
	notifications *NotificationMaintainer,
	publisher EventPublisher,
) *DiscussionUseCase {
	return &DiscussionUseCase{
		discussionRepo: discussionRepo,
		userRepo:       userRepo,
		listingRepo:    listingRepo,
		notifications:  notifications,
		publisher:      publisher,
	}
}

type CreateDiscussionInput struct {
	ListingID string
	Text      string
}

// Participant is one resolved side of a discussion.
type Participant struct {
	ID          string `json:"id,omitempty"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Deleted     bool   `json:"deleted,omitempty"`
}

type DiscussionResponse struct {
	*entity.Discussion
	Buyer  *Participant `json:"buyer"`
	Seller *Participant `json:"seller"`
	Hidden bool         `json:"hidden,omitempty"`
}

type discussionEvent struct {
	DiscussionID string `json:"discussion_id"`
	AuthorID     string `json:"author_id,omitempty"`
}

// Create opens a discussion between the buyer and the listing's seller with
// one initial message. At most one discussion may exist per (buyer, listing).
func (uc *DiscussionUseCase) Create(ctx context.Context, buyerID string, input CreateDiscussionInput) (*entity.Discussion, error) {
	listing, err := uc.listingRepo.GetByID(ctx, input.ListingID)
	if err != nil {
		return nil, err
	}

	if buyerID == listing.SellerID {
		return nil, errors.New("SELF_DEAL", "You cannot open a discussion on your own listing", 422, nil)
	}

	seller, err := uc.userRepo.GetByID(ctx, listing.SellerID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil, errors.NotFound("Seller", err)
		}
		return nil, err
	}

	buyer, err := uc.userRepo.GetByID(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	existing, err := uc.discussionRepo.GetByBuyerAndListing(ctx, buyerID, input.ListingID)
	if err != nil && !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}
	if existing != nil {
		return nil, errors.Conflict("ALREADY_EXISTS", "A discussion for this listing already exists")
	}

	discussion := &entity.Discussion{
		BuyerID:      buyerID,
		SellerID:     listing.SellerID,
		ListingID:    listing.ID,
		ListingName:  listing.Name,
		ChannelToken: utils.NewChannelToken(),
		Messages: []entity.Message{{
			Text:      input.Text,
			AuthorID:  buyerID,
			CreatedAt: time.Now(),
			Seen:      false,
		}},
	}

	if err := uc.discussionRepo.Create(ctx, discussion); err != nil {
		return nil, err
	}

	if err := uc.userRepo.LinkDiscussion(ctx, buyerID, discussion.ID); err != nil {
		return nil, err
	}
	if err := uc.userRepo.LinkDiscussion(ctx, listing.SellerID, discussion.ID); err != nil {
		return nil, err
	}

	// The initial message is unseen incoming mail for the seller.
	if err := uc.notifications.MarkUnseen(ctx, listing.SellerID); err != nil {
		return nil, err
	}

	payload := discussionEvent{DiscussionID: discussion.ID, AuthorID: buyerID}
	if err := uc.publishToUsers(realtime.EventDiscussionCreated, payload, buyer, seller); err != nil {
		return discussion, err
	}

	return discussion, nil
}

type messagePayload struct {
	DiscussionID string         `json:"discussion_id"`
	Message      entity.Message `json:"message"`
}

// AppendMessage appends to the log and raises the counterpart's unseen
// flag. Sending requires both current participants to still link the
// discussion; a conversation abandoned by either side is closed for good.
func (uc *DiscussionUseCase) AppendMessage(ctx context.Context, discussionID, senderID, text string) error {
	discussion, err := uc.discussionRepo.GetByID(ctx, discussionID)
	if err != nil {
		return err
	}

	if !discussion.IsParticipant(senderID) {
		return errors.Forbidden("You are not a participant in this discussion", nil)
	}

	counterpart, err := uc.sendableCounterpart(ctx, discussion, senderID)
	if err != nil {
		return err
	}

	message := entity.Message{
		Text:      text,
		AuthorID:  senderID,
		CreatedAt: time.Now(),
		Seen:      false,
	}

	if err := uc.discussionRepo.AppendMessage(ctx, discussionID, message); err != nil {
		return err
	}

	if err := uc.notifications.MarkUnseen(ctx, counterpart.ID); err != nil {
		return err
	}

	// Two deliveries: an empty ping on the counterpart's private channel so
	// their inbox refetches aggregate state, and the full message on the
	// discussion channel so an open transcript updates without a refetch.
	pingErr := uc.publisher.Publish(realtime.UserChannel(counterpart.ChannelToken), realtime.EventNewMessage, nil)
	fullErr := uc.publisher.Publish(
		realtime.DiscussionChannel(discussion.ChannelToken),
		realtime.EventNewMessage,
		messagePayload{DiscussionID: discussionID, Message: message},
	)
	if pingErr != nil || fullErr != nil {
		err := pingErr
		if err == nil {
			err = fullErr
		}
		logger.Warn("Message %s persisted but fan-out failed: %v", discussionID, err)
		return errors.Transport("Message saved but realtime delivery failed", err)
	}

	return nil
}

// sendableCounterpart verifies both sides still link the discussion and
// returns the sender's counterpart.
func (uc *DiscussionUseCase) sendableCounterpart(ctx context.Context, discussion *entity.Discussion, senderID string) (*entity.User, error) {
	cannotSend := errors.Conflict("CANNOT_SEND", "This conversation has been closed by one of its participants")

	counterpartID, ok := discussion.Counterpart(senderID)
	if !ok {
		return nil, cannotSend
	}

	var counterpart *entity.User
	for _, participantID := range []string{discussion.BuyerID, discussion.SellerID} {
		user, err := uc.userRepo.GetByID(ctx, participantID)
		if err != nil {
			if errors.Is(err, "NOT_FOUND") {
				return nil, cannotSend
			}
			return nil, err
		}
		if !user.HasLinked(discussion.ID) {
			return nil, cannotSend
		}
		if participantID == counterpartID {
			counterpart = user
		}
	}

	return counterpart, nil
}

// MarkSeen flips the trailing unseen run for the viewer and then recomputes
// their aggregate flag. Clearing the flag needs evidence about the viewer's
// other discussions, so it cannot be decided locally.
func (uc *DiscussionUseCase) MarkSeen(ctx context.Context, discussionID, viewerID string) error {
	discussion, err := uc.discussionRepo.GetByID(ctx, discussionID)
	if err != nil {
		return err
	}

	if !discussion.IsParticipant(viewerID) {
		return errors.Forbidden("You are not a participant in this discussion", nil)
	}

	if _, err := uc.discussionRepo.MarkSeenTail(ctx, discussionID, viewerID); err != nil {
		return err
	}

	return uc.notifications.Recompute(ctx, viewerID, discussionID)
}

// Unlink soft-deletes the discussion for the viewer. Once no participant
// links it any more the record is hard-deleted; an unlinked discussion is
// never resurrected.
func (uc *DiscussionUseCase) Unlink(ctx context.Context, discussionID, viewerID string) error {
	discussion, err := uc.discussionRepo.GetByID(ctx, discussionID)
	if err != nil {
		return err
	}

	if !discussion.IsParticipant(viewerID) {
		return errors.Forbidden("You are not a participant in this discussion", nil)
	}

	viewer, err := uc.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		return err
	}

	if err := uc.userRepo.UnlinkDiscussion(ctx, viewerID, discussionID); err != nil {
		return err
	}

	counterpartID, counterpartExists := discussion.Counterpart(viewerID)

	var counterpart *entity.User
	if counterpartExists {
		counterpart, err = uc.userRepo.GetByID(ctx, counterpartID)
		if err != nil && !errors.Is(err, "NOT_FOUND") {
			return err
		}
	}

	if counterpart != nil && counterpart.HasLinked(discussionID) {
		// The other side still sees it; keep the record.
		return nil
	}

	if err := uc.discussionRepo.Delete(ctx, discussionID); err != nil {
		return err
	}

	payload := discussionEvent{DiscussionID: discussionID}
	if err := uc.publishToUsers(realtime.EventDiscussionDeleted, payload, viewer, counterpart); err != nil {
		return err
	}

	return nil
}

// GetByID returns the discussion with both sides resolved at read time.
func (uc *DiscussionUseCase) GetByID(ctx context.Context, viewerID, discussionID string) (*DiscussionResponse, error) {
	discussion, err := uc.discussionRepo.GetByID(ctx, discussionID)
	if err != nil {
		return nil, err
	}

	if !discussion.IsParticipant(viewerID) {
		return nil, errors.Forbidden("You are not a participant in this discussion", nil)
	}

	viewer, err := uc.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	return uc.buildResponse(ctx, discussion, viewer), nil
}

// List returns every discussion still linked by the viewer.
func (uc *DiscussionUseCase) List(ctx context.Context, viewerID string) ([]*DiscussionResponse, error) {
	viewer, err := uc.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	var responses []*DiscussionResponse
	for _, id := range viewer.LinkedDiscussionIDs {
		discussion, err := uc.discussionRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, "NOT_FOUND") {
				logger.Warn("Skipping stale discussion link %s for user %s", id, viewerID)
				continue
			}
			return nil, err
		}
		responses = append(responses, uc.buildResponse(ctx, discussion, viewer))
	}

	return responses, nil
}

func (uc *DiscussionUseCase) buildResponse(ctx context.Context, discussion *entity.Discussion, viewer *entity.User) *DiscussionResponse {
	return &DiscussionResponse{
		Discussion: discussion,
		Buyer:      uc.resolveParticipant(ctx, discussion.BuyerID),
		Seller:     uc.resolveParticipant(ctx, discussion.SellerID),
		Hidden:     viewer.HasHidden(discussion.ID),
	}
}

// resolveParticipant resolves one side independently: a cleared slot or an
// id that no longer resolves renders as the deleted sentinel.
func (uc *DiscussionUseCase) resolveParticipant(ctx context.Context, userID string) *Participant {
	if userID == "" {
		return &Participant{DisplayName: DeletedDisplayName, Deleted: true}
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return &Participant{DisplayName: DeletedDisplayName, Deleted: true}
	}

	return &Participant{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
	}
}

func (uc *DiscussionUseCase) publishToUsers(event string, payload interface{}, users ...*entity.User) error {
	var firstErr error
	for _, user := range users {
		if user == nil {
			continue
		}
		if err := uc.publisher.Publish(realtime.UserChannel(user.ChannelToken), event, payload); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		logger.Warn("Fan-out of %s failed: %v", event, firstErr)
		return errors.Transport("State saved but realtime delivery failed", firstErr)
	}
	return nil
}
