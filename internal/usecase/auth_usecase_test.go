package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	userRepo := newFakeUserRepo()
	auth := newFakeAuthProvider()
	uc := NewAuthUseCase(userRepo, auth)

	user, err := uc.Register(context.Background(), RegisterInput{
		Email:       "new@example.com",
		Password:    "long-enough",
		DisplayName: "Newcomer",
	})

	require.NoError(t, err)
	assert.Equal(t, "uid-1", user.ID)
	assert.Equal(t, "new@example.com", user.Email)
	assert.NotEmpty(t, user.ChannelToken)
	assert.NotNil(t, user.LinkedDiscussionIDs)

	stored, err := userRepo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ChannelToken, stored.ChannelToken)
}

func TestRegisterMintsDistinctChannelTokens(t *testing.T) {
	userRepo := newFakeUserRepo()
	auth := newFakeAuthProvider()
	uc := NewAuthUseCase(userRepo, auth)

	first, err := uc.Register(context.Background(), RegisterInput{Email: "a@example.com", Password: "long-enough", DisplayName: "A"})
	require.NoError(t, err)
	second, err := uc.Register(context.Background(), RegisterInput{Email: "b@example.com", Password: "long-enough", DisplayName: "B"})
	require.NoError(t, err)

	assert.NotEqual(t, first.ChannelToken, second.ChannelToken)
}
