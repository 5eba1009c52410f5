package usecase

import "context"

// AuthProvider is the slice of the identity service the use cases need. It
// issues and revokes accounts; everything else about credentials is its
// business.
type AuthProvider interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	UpdateUserEmail(ctx context.Context, uid, email string) error
	UpdateUserPassword(ctx context.Context, uid, password string) error
	DeleteUser(ctx context.Context, uid string) error
}

// EventPublisher publishes realtime events to a named channel. Delivery is
// at-most-once and best-effort; a returned error is a transport failure that
// never invalidates state already written.
type EventPublisher interface {
	Publish(channel, event string, payload interface{}) error
}
