package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ideanest/backend/internal/models"
	"github.com/ideanest/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// topIdeasLimit caps the most-supported / most-inspiring listings
const topIdeasLimit = 10

// Dispatcher persists a notification for a domain event and attempts live
// delivery. Satisfied by *notify.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, recipientID, senderID, ideaID string, typ models.NotificationType, content string) (*models.NotificationResolved, error)
}

// IdeaHandler handles idea-related HTTP requests
type IdeaHandler struct {
	ideaRepository    repositories.IdeaRepository
	userRepository    repositories.UserRepository
	commentRepository repositories.CommentRepository
	dispatcher        Dispatcher
	log               zerolog.Logger
}

// NewIdeaHandler creates a new IdeaHandler
func NewIdeaHandler(
	ideaRepo repositories.IdeaRepository,
	userRepo repositories.UserRepository,
	commentRepo repositories.CommentRepository,
	dispatcher Dispatcher,
	log zerolog.Logger,
) *IdeaHandler {
	return &IdeaHandler{
		ideaRepository:    ideaRepo,
		userRepository:    userRepo,
		commentRepository: commentRepo,
		dispatcher:        dispatcher,
		log:               log.With().Str("component", "ideas").Logger(),
	}
}

// RegisterIdeaRoutes registers idea routes. Reads are public, mutations
// require authentication.
func (h *IdeaHandler) RegisterIdeaRoutes(public, protected *echo.Group) {
	public.GET("/ideas", h.GetAllIdeas)
	public.GET("/ideas/most-supported", h.GetMostSupported)
	public.GET("/ideas/most-inspiring", h.GetMostInspiring)
	public.GET("/ideas/user/:userId", h.GetIdeasByUser)
	public.GET("/ideas/:id/reactions", h.GetReactions)
	public.GET("/ideas/:id", h.GetIdea)

	protected.POST("/ideas/create", h.CreateIdea)
	protected.PUT("/ideas/:id", h.UpdateIdea)
	protected.DELETE("/ideas/:id", h.DeleteIdea)
	protected.POST("/ideas/:id/toggle-support", h.ToggleSupport)
	protected.POST("/ideas/:id/toggle-inspiration", h.ToggleInspiration)
	protected.POST("/ideas/:id/comments", h.CreateComment)
}

// CreateIdea creates a new idea owned by the authenticated user
func (h *IdeaHandler) CreateIdea(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateIdeaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	creator, err := primitive.ObjectIDFromHex(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid user ID")
	}

	idea := &models.Idea{
		Title:            req.Title,
		Content:          req.Content,
		EmotionalContext: req.EmotionalContext,
		Creator:          creator,
	}
	if err := h.ideaRepository.CreateIdea(c.Request().Context(), idea); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": idea})
}

// GetAllIdeas returns all ideas, newest first, with creators resolved
func (h *IdeaHandler) GetAllIdeas(c echo.Context) error {
	ideas, err := h.ideaRepository.GetAllIdeas(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": h.resolveIdeas(c.Request().Context(), ideas)})
}

// GetIdea returns a single idea with its creator resolved
func (h *IdeaHandler) GetIdea(c echo.Context) error {
	idea, err := h.ideaRepository.GetIdeaByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrNotFound || err == repositories.ErrInvalidID {
			return echo.NewHTTPError(http.StatusNotFound, "Idea not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resolved := h.resolveIdeas(c.Request().Context(), []models.Idea{*idea})
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": resolved[0]})
}

// GetIdeasByUser returns ideas posted by a specific user
func (h *IdeaHandler) GetIdeasByUser(c echo.Context) error {
	ideas, err := h.ideaRepository.GetIdeasByCreator(c.Request().Context(), c.Param("userId"))
	if err != nil {
		if err == repositories.ErrInvalidID {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": h.resolveIdeas(c.Request().Context(), ideas)})
}

// GetMostSupported returns the ideas with the largest supports sets
func (h *IdeaHandler) GetMostSupported(c echo.Context) error {
	return h.getMostReacted(c, models.ReactionSupports)
}

// GetMostInspiring returns the ideas with the largest inspirations sets
func (h *IdeaHandler) GetMostInspiring(c echo.Context) error {
	return h.getMostReacted(c, models.ReactionInspirations)
}

func (h *IdeaHandler) getMostReacted(c echo.Context, setName string) error {
	ideas, err := h.ideaRepository.GetMostReacted(c.Request().Context(), setName, topIdeasLimit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": h.resolveIdeas(c.Request().Context(), ideas)})
}

// GetReactions returns the supporter and inspirer display lists for an idea
func (h *IdeaHandler) GetReactions(c echo.Context) error {
	idea, err := h.ideaRepository.GetIdeaByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrNotFound || err == repositories.ErrInvalidID {
			return echo.NewHTTPError(http.StatusNotFound, "Idea not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	cache := make(map[string]models.UserCompact)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"supports":     h.resolveUsers(c.Request().Context(), idea.Supports, cache),
			"inspirations": h.resolveUsers(c.Request().Context(), idea.Inspirations, cache),
		},
	})
}

// UpdateIdea edits an idea; only the creator may do this
func (h *IdeaHandler) UpdateIdea(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateIdeaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	idea, err := h.ideaRepository.GetIdeaByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrNotFound || err == repositories.ErrInvalidID {
			return echo.NewHTTPError(http.StatusNotFound, "Idea not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if idea.Creator.Hex() != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not allowed to update this idea")
	}

	if err := h.ideaRepository.UpdateIdea(c.Request().Context(), c.Param("id"), &req); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	updated, err := h.ideaRepository.GetIdeaByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": updated})
}

// DeleteIdea deletes an idea; only the creator may do this
func (h *IdeaHandler) DeleteIdea(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	idea, err := h.ideaRepository.GetIdeaByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrNotFound || err == repositories.ErrInvalidID {
			return echo.NewHTTPError(http.StatusNotFound, "Idea not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if idea.Creator.Hex() != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to delete this idea")
	}

	if err := h.ideaRepository.DeleteIdea(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// ToggleSupport toggles the authenticated user's membership in the idea's
// supports set and notifies the creator on both transitions
func (h *IdeaHandler) ToggleSupport(c echo.Context) error {
	return h.toggleReaction(c, models.ReactionSupports)
}

// ToggleInspiration toggles membership in the inspirations set
func (h *IdeaHandler) ToggleInspiration(c echo.Context) error {
	return h.toggleReaction(c, models.ReactionInspirations)
}

func (h *IdeaHandler) toggleReaction(c echo.Context, setName string) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	ideaID := c.Param("id")

	added, err := h.ideaRepository.ToggleReaction(c.Request().Context(), ideaID, currentUserID, setName)
	if err != nil {
		if err == repositories.ErrNotFound || err == repositories.ErrInvalidID {
			return echo.NewHTTPError(http.StatusNotFound, "Idea not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	idea, err := h.ideaRepository.GetIdeaByID(c.Request().Context(), ideaID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Both transitions notify the creator; only self-reactions are skipped.
	if idea.Creator.Hex() != currentUserID {
		h.dispatchReaction(c, idea, currentUserID, setName, added)
	}

	resolved := h.resolveIdeas(c.Request().Context(), []models.Idea{*idea})
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": resolved[0]})
}

// dispatchReaction sends the reaction notification. Failures are logged and
// swallowed: the toggle already committed and must still appear successful.
func (h *IdeaHandler) dispatchReaction(c echo.Context, idea *models.Idea, actorID, setName string, added bool) {
	actorName := "Someone"
	if actor, err := h.userRepository.GetUserByID(c.Request().Context(), actorID); err == nil {
		actorName = actor.Name
	}

	var typ models.NotificationType
	var content string
	switch setName {
	case models.ReactionSupports:
		typ = models.NotificationSupport
		if added {
			content = fmt.Sprintf("%s supported your idea", actorName)
		} else {
			content = fmt.Sprintf("%s withdrew support from your idea", actorName)
		}
	case models.ReactionInspirations:
		typ = models.NotificationInspiration
		if added {
			content = fmt.Sprintf("%s found your idea inspiring", actorName)
		} else {
			content = fmt.Sprintf("%s withdrew inspiration from your idea", actorName)
		}
	}

	if _, err := h.dispatcher.Dispatch(c.Request().Context(), idea.Creator.Hex(), actorID, idea.ID.Hex(), typ, content); err != nil {
		h.log.Warn().Err(err).Str("idea", idea.ID.Hex()).Msg("reaction notification failed")
	}
}

// CreateComment creates a comment on an idea and notifies the idea's creator
func (h *IdeaHandler) CreateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	idea, err := h.ideaRepository.GetIdeaByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrNotFound || err == repositories.ErrInvalidID {
			return echo.NewHTTPError(http.StatusNotFound, "Idea not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	creator, err := primitive.ObjectIDFromHex(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid user ID")
	}

	comment := &models.Comment{
		Content: req.Content,
		Idea:    idea.ID,
		Creator: creator,
	}
	if err := h.commentRepository.CreateComment(c.Request().Context(), comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if idea.Creator.Hex() != currentUserID {
		actorName := "Someone"
		if actor, err := h.userRepository.GetUserByID(c.Request().Context(), currentUserID); err == nil {
			actorName = actor.Name
		}
		content := fmt.Sprintf("%s commented on your idea", actorName)
		if _, err := h.dispatcher.Dispatch(c.Request().Context(), idea.Creator.Hex(), currentUserID, idea.ID.Hex(), models.NotificationComment, content); err != nil {
			h.log.Warn().Err(err).Str("idea", idea.ID.Hex()).Msg("comment notification failed")
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": comment})
}

// resolveIdeas attaches creator display fields, caching repeated creators
func (h *IdeaHandler) resolveIdeas(ctx context.Context, ideas []models.Idea) []models.IdeaResolved {
	resolved := make([]models.IdeaResolved, len(ideas))
	cache := make(map[string]models.UserCompact)

	for i, idea := range ideas {
		resolved[i] = models.IdeaResolved{Idea: idea}
		key := idea.Creator.Hex()
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

// resolveUsers maps reaction-set member IDs to display subsets
func (h *IdeaHandler) resolveUsers(ctx context.Context, ids []primitive.ObjectID, cache map[string]models.UserCompact) []models.UserCompact {
	users := make([]models.UserCompact, 0, len(ids))
	for _, id := range ids {
		key := id.Hex()
		if compact, ok := cache[key]; ok {
			users = append(users, compact)
			continue
		}
		if user, err := h.userRepository.GetUserByID(ctx, key); err == nil {
			compact := user.ToCompact()
			cache[key] = compact
			users = append(users, compact)
		}
	}
	return users
}
