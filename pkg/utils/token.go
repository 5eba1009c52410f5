package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// NewChannelToken returns an unguessable identifier used to name private
// realtime channels. Knowing the token is what authorizes a subscription.
func NewChannelToken() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
