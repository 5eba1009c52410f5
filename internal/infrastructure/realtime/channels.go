package realtime

// Event names carried on the wire.
const (
	EventDiscussionCreated = "discussion-created"
	EventDiscussionDeleted = "discussion-deleted"
	EventNewMessage        = "new-message"
)

// UserChannel names a user's private channel by their channel token.
func UserChannel(token string) string {
	return "private-" + token
}

// DiscussionChannel names a discussion's private channel by its channel
// token. Traffic on these channels is encrypted in transit.
func DiscussionChannel(token string) string {
	return "private-encrypted-" + token
}
