package handler

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/usecase"
	"tradepost/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type favoriteToggleRequest struct {
	ListingID string `json:"listing_id" validate:"required"`
	Favorite  bool   `json:"favorite"`
}

type discussionHideRequest struct {
	DiscussionID string `json:"discussion_id" validate:"required"`
	Hidden       bool   `json:"hidden"`
}

// updateAccountRequest mirrors the mutually exclusive update variants;
// exactly one field may be present.
type updateAccountRequest struct {
	DisplayName    *string                `json:"display_name,omitempty"`
	Email          *string                `json:"email,omitempty" validate:"omitempty,email"`
	Password       *string                `json:"password,omitempty" validate:"omitempty,min=8"`
	AvatarURL      *string                `json:"avatar_url,omitempty" validate:"omitempty,url"`
	Favorite       *favoriteToggleRequest `json:"favorite,omitempty"`
	DiscussionHide *discussionHideRequest `json:"discussion_hide,omitempty"`
}

func (h *UserHandler) GetMe(c echo.Context) error {
	userID := c.Get("uid").(string)

	user, err := h.userUseCase.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	input := usecase.UpdateAccountInput{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Password:    req.Password,
		AvatarURL:   req.AvatarURL,
	}
	if req.Favorite != nil {
		input.FavoriteToggle = &usecase.FavoriteToggle{
			ListingID: req.Favorite.ListingID,
			Favorite:  req.Favorite.Favorite,
		}
	}
	if req.DiscussionHide != nil {
		input.DiscussionHide = &usecase.DiscussionHide{
			DiscussionID: req.DiscussionHide.DiscussionID,
			Hidden:       req.DiscussionHide.Hidden,
		}
	}

	if err := h.userUseCase.UpdateAccount(c.Request().Context(), userID, input); err != nil {
		return response.Error(c, err)
	}

	return response.NoContent(c)
}

func (h *UserHandler) DeleteMe(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.userUseCase.DeleteAccount(c.Request().Context(), userID); err != nil {
		return response.Error(c, err)
	}

	return response.NoContent(c)
}
