package usecase

import (
	"context"
	"fmt"

	"tradepost/internal/domain/entity"
	"tradepost/pkg/errors"
)

type fakeDiscussionRepo struct {
	discussions map[string]*entity.Discussion
	nextID      int
}

func newFakeDiscussionRepo() *fakeDiscussionRepo {
	return &fakeDiscussionRepo{discussions: make(map[string]*entity.Discussion)}
}

func (r *fakeDiscussionRepo) Create(ctx context.Context, discussion *entity.Discussion) error {
	if discussion.ID == "" {
		r.nextID++
		discussion.ID = fmt.Sprintf("disc-%d", r.nextID)
	}
	r.discussions[discussion.ID] = discussion
	return nil
}

func (r *fakeDiscussionRepo) GetByID(ctx context.Context, id string) (*entity.Discussion, error) {
	discussion, ok := r.discussions[id]
	if !ok {
		return nil, errors.NotFound("Discussion", nil)
	}
	// Return a copy, like the real repository's per-call deserialization, so
	// callers never alias the stored record.
	copied := *discussion
	return &copied, nil
}

func (r *fakeDiscussionRepo) GetByBuyerAndListing(ctx context.Context, buyerID, listingID string) (*entity.Discussion, error) {
	for _, discussion := range r.discussions {
		if discussion.BuyerID == buyerID && discussion.ListingID == listingID {
			return discussion, nil
		}
	}
	return nil, errors.NotFound("Discussion", nil)
}

func (r *fakeDiscussionRepo) AppendMessage(ctx context.Context, discussionID string, message entity.Message) error {
	discussion, ok := r.discussions[discussionID]
	if !ok {
		return errors.NotFound("Discussion", nil)
	}
	discussion.Messages = append(discussion.Messages, message)
	return nil
}

func (r *fakeDiscussionRepo) MarkSeenTail(ctx context.Context, discussionID, viewerID string) (int, error) {
	discussion, ok := r.discussions[discussionID]
	if !ok {
		return 0, errors.NotFound("Discussion", nil)
	}
	return len(discussion.MarkSeenTail(viewerID)), nil
}

func (r *fakeDiscussionRepo) ClearParticipantSlot(ctx context.Context, discussionID, userID string) error {
	discussion, ok := r.discussions[discussionID]
	if !ok {
		return nil
	}
	switch userID {
	case discussion.BuyerID:
		discussion.BuyerID = ""
	case discussion.SellerID:
		discussion.SellerID = ""
	}
	return nil
}

func (r *fakeDiscussionRepo) Delete(ctx context.Context, id string) error {
	delete(r.discussions, id)
	return nil
}

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return errors.NotFound("User", nil)
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) LinkDiscussion(ctx context.Context, userID, discussionID string) error {
	user, ok := r.users[userID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	if !user.HasLinked(discussionID) {
		user.LinkedDiscussionIDs = append(user.LinkedDiscussionIDs, discussionID)
	}
	return nil
}

func (r *fakeUserRepo) UnlinkDiscussion(ctx context.Context, userID, discussionID string) error {
	user, ok := r.users[userID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	user.LinkedDiscussionIDs = removeString(user.LinkedDiscussionIDs, discussionID)
	return nil
}

func (r *fakeUserRepo) SetHidden(ctx context.Context, userID, discussionID string, hidden bool) error {
	user, ok := r.users[userID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	if hidden {
		if !user.HasHidden(discussionID) {
			user.HiddenDiscussionIDs = append(user.HiddenDiscussionIDs, discussionID)
		}
	} else {
		user.HiddenDiscussionIDs = removeString(user.HiddenDiscussionIDs, discussionID)
	}
	return nil
}

func (r *fakeUserRepo) SetFavorite(ctx context.Context, userID, listingID string, favorite bool) error {
	user, ok := r.users[userID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	if favorite {
		user.FavoriteListingIDs = append(user.FavoriteListingIDs, listingID)
	} else {
		user.FavoriteListingIDs = removeString(user.FavoriteListingIDs, listingID)
	}
	return nil
}

func (r *fakeUserRepo) SetHasUnseen(ctx context.Context, userID string, hasUnseen bool) error {
	user, ok := r.users[userID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	user.HasUnseenMessages = hasUnseen
	return nil
}

func removeString(items []string, target string) []string {
	out := items[:0]
	for _, item := range items {
		if item != target {
			out = append(out, item)
		}
	}
	return out
}

type fakeListingRepo struct {
	listings map[string]*entity.Listing
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: make(map[string]*entity.Listing)}
}

func (r *fakeListingRepo) Create(ctx context.Context, listing *entity.Listing) error {
	r.listings[listing.ID] = listing
	return nil
}

func (r *fakeListingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	listing, ok := r.listings[id]
	if !ok {
		return nil, errors.NotFound("Listing", nil)
	}
	return listing, nil
}

func (r *fakeListingRepo) ListBySellerID(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Listing, int64, error) {
	var out []*entity.Listing
	for _, listing := range r.listings {
		if listing.SellerID == sellerID {
			out = append(out, listing)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeListingRepo) Delete(ctx context.Context, id string) error {
	delete(r.listings, id)
	return nil
}

type publishedEvent struct {
	Channel string
	Event   string
	Payload interface{}
}

type fakePublisher struct {
	events  []publishedEvent
	failErr error
}

func (p *fakePublisher) Publish(channel, event string, payload interface{}) error {
	if p.failErr != nil {
		return p.failErr
	}
	p.events = append(p.events, publishedEvent{Channel: channel, Event: event, Payload: payload})
	return nil
}

func (p *fakePublisher) eventsNamed(event string) []publishedEvent {
	var out []publishedEvent
	for _, e := range p.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

type fakeAuthProvider struct {
	createdUIDs []string
	deletedUIDs []string
	emails      map[string]string
	passwords   map[string]string
}

func newFakeAuthProvider() *fakeAuthProvider {
	return &fakeAuthProvider{
		emails:    make(map[string]string),
		passwords: make(map[string]string),
	}
}

func (a *fakeAuthProvider) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	uid := fmt.Sprintf("uid-%d", len(a.createdUIDs)+1)
	a.createdUIDs = append(a.createdUIDs, uid)
	a.emails[uid] = email
	return uid, nil
}

func (a *fakeAuthProvider) UpdateUserEmail(ctx context.Context, uid, email string) error {
	a.emails[uid] = email
	return nil
}

func (a *fakeAuthProvider) UpdateUserPassword(ctx context.Context, uid, password string) error {
	a.passwords[uid] = password
	return nil
}

func (a *fakeAuthProvider) DeleteUser(ctx context.Context, uid string) error {
	a.deletedUIDs = append(a.deletedUIDs, uid)
	return nil
}
