package usecase

import (
	"context"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	"tradepost/pkg/errors"
	"tradepost/pkg/utils"
)

type AuthUseCase struct {
	userRepo repository.UserRepository
	auth     AuthProvider
}

func NewAuthUseCase(userRepo repository.UserRepository, auth AuthProvider) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		auth:     auth,
	}
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

// Register creates the identity-provider account and the user document. The
// channel token minted here names the user's private realtime channel for
// the lifetime of the account.
func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	uid, err := uc.auth.CreateUser(ctx, input.Email, input.Password, input.DisplayName)
	if err != nil {
		return nil, errors.BadRequest("Failed to register account", err)
	}

	user := &entity.User{
		ID:                  uid,
		Email:               input.Email,
		DisplayName:         input.DisplayName,
		ChannelToken:        utils.NewChannelToken(),
		LinkedDiscussionIDs: []string{},
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
