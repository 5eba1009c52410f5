package handler

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/usecase"
	"tradepost/pkg/response"
)

type DiscussionHandler struct {
	discussionUseCase *usecase.DiscussionUseCase
}

func NewDiscussionHandler(discussionUseCase *usecase.DiscussionUseCase) *DiscussionHandler {
	return &DiscussionHandler{
		discussionUseCase: discussionUseCase,
	}
}

type createDiscussionRequest struct {
	ListingID string `json:"listing_id" validate:"required"`
	Text      string `json:"text" validate:"required"`
}

type appendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

// Create opens a discussion on a listing with an initial message.
func (h *DiscussionHandler) Create(c echo.Context) error {
	var req createDiscussionRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	buyerID := c.Get("uid").(string)

	discussion, err := h.discussionUseCase.Create(c.Request().Context(), buyerID, usecase.CreateDiscussionInput{
		ListingID: req.ListingID,
		Text:      req.Text,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, map[string]string{"id": discussion.ID})
}

// List returns the caller's linked discussions.
func (h *DiscussionHandler) List(c echo.Context) error {
	userID := c.Get("uid").(string)

	discussions, err := h.discussionUseCase.List(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, discussions)
}

// GetByID returns one discussion with both participants resolved.
func (h *DiscussionHandler) GetByID(c echo.Context) error {
	discussionID := c.Param("id")
	userID := c.Get("uid").(string)

	discussion, err := h.discussionUseCase.GetByID(c.Request().Context(), userID, discussionID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, discussion)
}

// AppendMessage sends a message into a discussion.
func (h *DiscussionHandler) AppendMessage(c echo.Context) error {
	discussionID := c.Param("id")
	userID := c.Get("uid").(string)

	var req appendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.discussionUseCase.AppendMessage(c.Request().Context(), discussionID, userID, req.Text); err != nil {
		return response.Error(c, err)
	}

	return response.NoContent(c)
}

// MarkSeen takes no body: the caller is the viewer, the discussion is the
// target, nothing else is needed.
func (h *DiscussionHandler) MarkSeen(c echo.Context) error {
	discussionID := c.Param("id")
	userID := c.Get("uid").(string)

	if err := h.discussionUseCase.MarkSeen(c.Request().Context(), discussionID, userID); err != nil {
		return response.Error(c, err)
	}

	return response.NoContent(c)
}

// Unlink soft-deletes the discussion for the caller.
func (h *DiscussionHandler) Unlink(c echo.Context) error {
	discussionID := c.Param("id")
	userID := c.Get("uid").(string)

	if err := h.discussionUseCase.Unlink(c.Request().Context(), discussionID, userID); err != nil {
		return response.Error(c, err)
	}

	return response.NoContent(c)
}
