package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rahat09/peerly/backend/internal/services"
)

// FriendshipHandler handles HTTP requests related to friendships
type FriendshipHandler struct {
	friendshipService services.FriendshipService
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(friendshipSvc services.FriendshipService) *FriendshipHandler {
	return &FriendshipHandler{friendshipService: friendshipSvc}
}

// RegisterFriendshipRoutes registers friendship-related routes
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.POST("/friends/request/:id", h.SendFriendRequest)
	g.POST("/friends/accept/:id", h.AcceptFriendRequest)
	g.DELETE("/friends/unfriend/:id", h.Unfriend)
	g.GET("/friends", h.ListFriends)
	g.GET("/friends/unknown", h.ListUnknownUsers)
	g.GET("/friends/requests/incoming", h.ListIncomingRequests)
}

// friendshipError maps service error kinds onto HTTP statuses. Not-found
// goes to 404, every state conflict to 400; anything unrecognized is a
// server fault and stays opaque.
func friendshipError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, services.ErrTargetNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrAlreadyFriends),
		errors.Is(err, services.ErrRequestAlreadyPending),
		errors.Is(err, services.ErrRequestAlreadyAccepted),
		errors.Is(err, services.ErrNoPendingRequest),
		errors.Is(err, services.ErrNotFriends),
		errors.Is(err, services.ErrSelfRelation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}

// SendFriendRequest handles sending a friend request to the user in the path
func (h *FriendshipHandler) SendFriendRequest(c echo.Context) error {
	requesterID, err := currentUserID(c)
	if err != nil {
		return err
	}

	receiverID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	req, err := h.friendshipService.SendRequest(requesterID, uint(receiverID))
	if err != nil {
		return friendshipError(err)
	}

	return c.JSON(http.StatusCreated, req)
}

// AcceptFriendRequest accepts the pending request sent by the user in the
// path to the authenticated caller
func (h *FriendshipHandler) AcceptFriendRequest(c echo.Context) error {
	accepterID, err := currentUserID(c)
	if err != nil {
		return err
	}

	requesterID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	result, err := h.friendshipService.AcceptRequest(uint(requesterID), accepterID)
	if err != nil {
		return friendshipError(err)
	}

	return c.JSON(http.StatusOK, result)
}

// Unfriend removes the friendship with the user in the path
func (h *FriendshipHandler) Unfriend(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	otherID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.friendshipService.Unfriend(userID, uint(otherID)); err != nil {
		return friendshipError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Successfully unfriended user"})
}

// ListFriends retrieves the authenticated user's friends
func (h *FriendshipHandler) ListFriends(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	friends, err := h.friendshipService.Friends(userID)
	if err != nil {
		return friendshipError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"friends": friends})
}

// ListUnknownUsers retrieves everyone the authenticated user has no
// friendship with
func (h *FriendshipHandler) ListUnknownUsers(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	unknown, err := h.friendshipService.UnknownUsers(userID)
	if err != nil {
		return friendshipError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"unknown_users": unknown})
}

// ListIncomingRequests retrieves pending requests addressed to the
// authenticated user
func (h *FriendshipHandler) ListIncomingRequests(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	requesters, err := h.friendshipService.IncomingRequests(userID)
	if err != nil {
		return friendshipError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"incoming": requesters})
}
