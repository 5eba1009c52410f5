package entity

import "time"

// Message is one entry in a discussion's append-only log. Once appended the
// only field that may change is Seen, and only for the non-author party.
type Message struct {
	Text      string    `json:"text" firestore:"text"`
	AuthorID  string    `json:"author_id" firestore:"authorId"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	Seen      bool      `json:"seen" firestore:"seen"`
}

// Discussion is a two-party conversation scoped to one listing. BuyerID and
// SellerID are cleared independently when that account is deleted; the
// historical messages keep their original author ids regardless.
type Discussion struct {
	ID           string    `json:"id" firestore:"id"`
	BuyerID      string    `json:"buyer_id,omitempty" firestore:"buyerId,omitempty"`
	SellerID     string    `json:"seller_id,omitempty" firestore:"sellerId,omitempty"`
	ListingID    string    `json:"listing_id" firestore:"listingId"`
	ListingName  string    `json:"listing_name" firestore:"listingName"`
	ChannelToken string    `json:"channel_token" firestore:"channelToken"`
	Messages     []Message `json:"messages" firestore:"messages"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt    time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (d *Discussion) IsParticipant(userID string) bool {
	if userID == "" {
		return false
	}
	return userID == d.BuyerID || userID == d.SellerID
}

// Counterpart returns the other participant's id. The second return value is
// false when that slot has been cleared by an account deletion.
func (d *Discussion) Counterpart(userID string) (string, bool) {
	var other string
	switch userID {
	case d.BuyerID:
		other = d.SellerID
	case d.SellerID:
		other = d.BuyerID
	default:
		return "", false
	}
	return other, other != ""
}

func (d *Discussion) LastMessage() *Message {
	if len(d.Messages) == 0 {
		return nil
	}
	return &d.Messages[len(d.Messages)-1]
}

// HasUnseenFor reports whether the last message was authored by the
// counterpart and not yet seen. A message's seen state is only meaningful
// relative to the non-author party.
func (d *Discussion) HasUnseenFor(userID string) bool {
	last := d.LastMessage()
	if last == nil {
		return false
	}
	return last.AuthorID != userID && !last.Seen
}

// MarkSeenTail flips Seen on the trailing run of messages not authored by
// viewerID, scanning backward and stopping at the first message that is
// already seen. It returns the indexes that were flipped, oldest first.
// Bounding the rewrite to the trailing unseen run tolerates messages from
// either author interleaved in that run.
func (d *Discussion) MarkSeenTail(viewerID string) []int {
	var flipped []int
	for i := len(d.Messages) - 1; i >= 0; i-- {
		if d.Messages[i].AuthorID == viewerID {
			continue
		}
		if d.Messages[i].Seen {
			break
		}
		d.Messages[i].Seen = true
		flipped = append(flipped, i)
	}
	for l, r := 0, len(flipped)-1; l < r; l, r = l+1, r-1 {
		flipped[l], flipped[r] = flipped[r], flipped[l]
	}
	return flipped
}
