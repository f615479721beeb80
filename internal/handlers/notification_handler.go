package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ideanest/backend/internal/models"
	"github.com/ideanest/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
	ideaRepository         repositories.IdeaRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(
	notifRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	ideaRepo repositories.IdeaRepository,
) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
		userRepository:         userRepo,
		ideaRepository:         ideaRepo,
	}
}

// RegisterNotificationRoutes registers notification routes on the protected group
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.PATCH("/notifications/read-all", h.MarkAllAsRead)
	g.PATCH("/notifications/:id/read", h.MarkAsRead)
	g.DELETE("/notifications/delete/:id", h.DeleteNotification)
}

// GetNotifications returns a page of the caller's notifications, newest
// first, with sender and idea resolved to their display subsets
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, _ := strconv.ParseInt(c.QueryParam("page"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	notifications, err := h.notificationRepository.GetByRecipient(c.Request().Context(), currentUserID, page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	unreadCount, _ := h.notificationRepository.GetUnreadCount(c.Request().Context(), currentUserID)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"notifications": h.resolveNotifications(c.Request().Context(), notifications),
		},
		"meta": echo.Map{
			"currentPage":  page,
			"itemsPerPage": limit,
			"unreadCount":  unreadCount,
		},
	})
}

// MarkAsRead marks one of the caller's notifications as read. A
// notification belonging to another user yields 404.
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	err := h.notificationRepository.MarkAsRead(c.Request().Context(), c.Param("id"), currentUserID)
	if err != nil {
		if err == repositories.ErrNotFound || err == repositories.ErrInvalidID {
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found or not authorized")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// MarkAllAsRead marks every unread notification of the caller as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.notificationRepository.MarkAllAsRead(c.Request().Context(), currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// DeleteNotification deletes one of the caller's notifications. A
// notification belonging to another user yields 404.
func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	err := h.notificationRepository.DeleteNotification(c.Request().Context(), c.Param("id"), currentUserID)
	if err != nil {
		if err == repositories.ErrNotFound || err == repositories.ErrInvalidID {
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found or not authorized")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"message": "Notification deleted successfully"}})
}

// resolveNotifications attaches sender display fields and idea snippets,
// caching repeated references within the page
func (h *NotificationHandler) resolveNotifications(ctx context.Context, notifications []models.Notification) []models.NotificationResolved {
	resolved := make([]models.NotificationResolved, len(notifications))
	userCache := make(map[string]models.UserCompact)
	ideaCache := make(map[string]models.IdeaSnippet)

	for i, n := range notifications {
		resolved[i] = models.NotificationResolved{Notification: n}

		senderKey := n.Sender.Hex()
		if compact, ok := userCache[senderKey]; ok {
			resolved[i].Sender = compact
		} else if user, err := h.userRepository.GetUserByID(ctx, senderKey); err == nil {
			compact := user.ToCompact()
			userCache[senderKey] = compact
			resolved[i].Sender = compact
		}

		ideaKey := n.Idea.Hex()
		if snippet, ok := ideaCache[ideaKey]; ok {
			resolved[i].Idea = snippet
		} else if idea, err := h.ideaRepository.GetIdeaByID(ctx, ideaKey); err == nil {
			snippet := models.IdeaSnippet{ID: idea.ID, Content: idea.Content}
			ideaCache[ideaKey] = snippet
			resolved[i].Idea = snippet
		}
	}
	return resolved
}
