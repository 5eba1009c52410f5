package entity

import "time"

type User struct {
	ID          string `json:"id" firestore:"id"`
	Email       string `json:"email" firestore:"email"`
	DisplayName string `json:"display_name" firestore:"displayName"`
	AvatarURL   string `json:"avatar_url,omitempty" firestore:"avatarURL,omitempty"`

	// ChannelToken names this user's private realtime channel.
	ChannelToken string `json:"channel_token" firestore:"channelToken"`

	// LinkedDiscussionIDs is the set of discussions currently visible to this
	// user. Removing an id is the soft-delete, independent per side.
	LinkedDiscussionIDs []string `json:"linked_discussion_ids" firestore:"linkedDiscussionIds"`

	// HiddenDiscussionIDs marks discussions the user collapsed in their inbox
	// without unlinking them.
	HiddenDiscussionIDs []string `json:"hidden_discussion_ids,omitempty" firestore:"hiddenDiscussionIds,omitempty"`

	FavoriteListingIDs []string `json:"favorite_listing_ids,omitempty" firestore:"favoriteListingIds,omitempty"`

	// HasUnseenMessages is the denormalized aggregate: true iff some linked
	// discussion's last message is an unseen one from the counterpart.
	HasUnseenMessages bool `json:"has_unseen_messages" firestore:"hasUnseenMessages"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (u *User) HasLinked(discussionID string) bool {
	for _, id := range u.LinkedDiscussionIDs {
		if id == discussionID {
			return true
		}
	}
	return false
}

func (u *User) HasHidden(discussionID string) bool {
	for _, id := range u.HiddenDiscussionIDs {
		if id == discussionID {
			return true
		}
	}
	return false
}
