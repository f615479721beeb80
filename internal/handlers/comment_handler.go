package handlers

import (
	"context"
	"net/http"

	"github.com/ideanest/backend/internal/models"
	"github.com/ideanest/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles comment-scoped HTTP requests. Creation lives on
// the idea routes; everything addressed by comment ID lives here.
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	userRepository    repositories.UserRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, userRepo repositories.UserRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		userRepository:    userRepo,
	}
}

// RegisterCommentRoutes registers comment routes on the protected group
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/comments/idea/:ideaId", h.GetCommentsByIdea)
	g.PATCH("/comments/:id", h.UpdateComment)
	g.PATCH("/comments/:id/like", h.ToggleLike)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// GetCommentsByIdea returns all comments on an idea, newest first, with
// creators resolved
func (h *CommentHandler) GetCommentsByIdea(c echo.Context) error {
	comments, err := h.commentRepository.GetCommentsByIdea(c.Request().Context(), c.Param("ideaId"))
	if err != nil {
		if err == repositories.ErrInvalidID {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid idea ID")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": h.resolveComments(c.Request().Context(), comments)})
}

// UpdateComment edits a comment's content; only the creator may do this
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.commentRepository.GetCommentByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrNotFound || err == repositories.ErrInvalidID {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if comment.Creator.Hex() != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to update this comment")
	}

	if err := h.commentRepository.UpdateComment(c.Request().Context(), c.Param("id"), req.Content); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	updated, err := h.commentRepository.GetCommentByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": updated})
}

// ToggleLike flips the authenticated user's like on a comment. This path
// does not dispatch a notification.
func (h *CommentHandler) ToggleLike(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	_, err := h.commentRepository.ToggleLike(c.Request().Context(), c.Param("id"), currentUserID)
	if err != nil {
		if err == repositories.ErrNotFound || err == repositories.ErrInvalidID {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	comment, err := h.commentRepository.GetCommentByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": comment})
}

// DeleteComment deletes a comment; only the creator may do this
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	comment, err := h.commentRepository.GetCommentByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrNotFound || err == repositories.ErrInvalidID {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if comment.Creator.Hex() != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to delete this comment")
	}

	if err := h.commentRepository.DeleteComment(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// resolveComments attaches creator display fields, caching repeated creators
func (h *CommentHandler) resolveComments(ctx context.Context, comments []models.Comment) []models.CommentResolved {
	resolved := make([]models.CommentResolved, len(comments))
	cache := make(map[string]models.UserCompact)

	for i, comment := range comments {
		resolved[i] = models.CommentResolved{Comment: comment}
		key := comment.Creator.Hex()
		if compact, ok := cache[key]; ok {
			resolved[i].Creator = compact
			continue
		}
		if user, err := h.userRepository.GetUserByID(ctx, key); err == nil {
			compact := user.ToCompact()
			cache[key] = compact
			resolved[i].Creator = compact
		}
	}
	return resolved
}
