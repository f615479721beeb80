package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"time"

	"github.com/ideanest/backend/internal/models"
	"github.com/ideanest/backend/internal/repositories"
	"github.com/ideanest/backend/validators"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes shared by the handler tests.

type memUserRepo struct {
	users map[string]*models.User
}

func newMemUserRepo(users ...*models.User) *memUserRepo {
	r := &memUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		r.users[u.ID.Hex()] = u
	}
	return r
}

func (r *memUserRepo) CreateUser(_ context.Context, u *models.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repositories.ErrEmailTaken
		}
	}
	u.ID = primitive.NewObjectID()
	r.users[u.ID.Hex()] = u
	return nil
}

func (r *memUserRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *memUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memUserRepo) UpdateUser(_ context.Context, id string, req *models.UpdateProfileRequest) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Alias != "" {
		u.Alias = req.Alias
	}
	if req.Image != "" {
		u.Image = req.Image
	}
	return u, nil
}

type memIdeaRepo struct {
	ideas map[string]*models.Idea
}

func newMemIdeaRepo(ideas ...*models.Idea) *memIdeaRepo {
	r := &memIdeaRepo{ideas: make(map[string]*models.Idea)}
	for _, i := range ideas {
		r.ideas[i.ID.Hex()] = i
	}
	return r
}

func (r *memIdeaRepo) CreateIdea(_ context.Context, idea *models.Idea) error {
	idea.ID = primitive.NewObjectID()
	idea.CreatedAt = time.Now()
	idea.Supports = []primitive.ObjectID{}
	idea.Inspirations = []primitive.ObjectID{}
	r.ideas[idea.ID.Hex()] = idea
	return nil
}

func (r *memIdeaRepo) GetIdeaByID(_ context.Context, id string) (*models.Idea, error) {
	if idea, ok := r.ideas[id]; ok {
		return idea, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *memIdeaRepo) GetAllIdeas(_ context.Context) ([]models.Idea, error) {
	out := make([]models.Idea, 0, len(r.ideas))
	for _, idea := range r.ideas {
		out = append(out, *idea)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memIdeaRepo) GetIdeasByCreator(_ context.Context, creatorID string) ([]models.Idea, error) {
	var out []models.Idea
	for _, idea := range r.ideas {
		if idea.Creator.Hex() == creatorID {
			out = append(out, *idea)
		}
	}
	return out, nil
}

func (r *memIdeaRepo) GetMostReacted(_ context.Context, setName string, limit int64) ([]models.Idea, error) {
	out, _ := r.GetAllIdeas(context.Background())
	sort.Slice(out, func(i, j int) bool {
		if setName == models.ReactionSupports {
			return len(out[i].Supports) > len(out[j].Supports)
		}
		return len(out[i].Inspirations) > len(out[j].Inspirations)
	})
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memIdeaRepo) UpdateIdea(_ context.Context, id string, req *models.UpdateIdeaRequest) error {
	idea, ok := r.ideas[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if req.Title != "" {
		idea.Title = req.Title
	}
	if req.Content != "" {
		idea.Content = req.Content
	}
	if req.EmotionalContext != "" {
		idea.EmotionalContext = req.EmotionalContext
	}
	return nil
}

func (r *memIdeaRepo) DeleteIdea(_ context.Context, id string) error {
	if _, ok := r.ideas[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.ideas, id)
	return nil
}

func (r *memIdeaRepo) ToggleReaction(_ context.Context, id, userID, setName string) (bool, error) {
	idea, ok := r.ideas[id]
	if !ok {
		return false, repositories.ErrNotFound
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, repositories.ErrInvalidID
	}

	set := &idea.Supports
	if setName == models.ReactionInspirations {
		set = &idea.Inspirations
	}

	for i, member := range *set {
		if member == uid {
			*set = append((*set)[:i], (*set)[i+1:]...)
			return false, nil
		}
	}
	*set = append(*set, uid)
	return true, nil
}

type memCommentRepo struct {
	comments map[string]*models.Comment
}

func newMemCommentRepo(comments ...*models.Comment) *memCommentRepo {
	r := &memCommentRepo{comments: make(map[string]*models.Comment)}
	for _, c := range comments {
		r.comments[c.ID.Hex()] = c
	}
	return r
}

func (r *memCommentRepo) CreateComment(_ context.Context, c *models.Comment) error {
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now()
	c.Likes = []primitive.ObjectID{}
	r.comments[c.ID.Hex()] = c
	return nil
}

func (r *memCommentRepo) GetCommentByID(_ context.Context, id string) (*models.Comment, error) {
	if c, ok := r.comments[id]; ok {
		return c, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *memCommentRepo) GetCommentsByIdea(_ context.Context, ideaID string) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range r.comments {
		if c.Idea.Hex() == ideaID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memCommentRepo) UpdateComment(_ context.Context, id, content string) error {
	c, ok := r.comments[id]
	if !ok {
		return repositories.ErrNotFound
	}
	c.Content = content
	return nil
}

func (r *memCommentRepo) DeleteComment(_ context.Context, id string) error {
	if _, ok := r.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.comments, id)
	return nil
}

func (r *memCommentRepo) ToggleLike(_ context.Context, id, userID string) (bool, error) {
	c, ok := r.comments[id]
	if !ok {
		return false, repositories.ErrNotFound
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, repositories.ErrInvalidID
	}
	for i, member := range c.Likes {
		if member == uid {
			c.Likes = append(c.Likes[:i], c.Likes[i+1:]...)
			return false, nil
		}
	}
	c.Likes = append(c.Likes, uid)
	return true, nil
}

type memNotificationRepo struct {
	notifications map[string]*models.Notification
}

func newMemNotificationRepo(notifications ...*models.Notification) *memNotificationRepo {
	r := &memNotificationRepo{notifications: make(map[string]*models.Notification)}
	for _, n := range notifications {
		r.notifications[n.ID.Hex()] = n
	}
	return r
}

func (r *memNotificationRepo) CreateNotification(_ context.Context, n *models.Notification) error {
	if !n.Type.Valid() {
		return repositories.ErrInvalidType
	}
	n.ID = primitive.NewObjectID()
	n.Read = false
	n.CreatedAt = time.Now()
	r.notifications[n.ID.Hex()] = n
	return nil
}

func (r *memNotificationRepo) GetNotificationByID(_ context.Context, id string) (*models.Notification, error) {
	if n, ok := r.notifications[id]; ok {
		return n, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *memNotificationRepo) GetByRecipient(_ context.Context, recipientID string, page, limit int64) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range r.notifications {
		if n.Recipient.Hex() == recipientID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	skip := (page - 1) * limit
	if skip >= int64(len(out)) {
		return nil, nil
	}
	out = out[skip:]
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memNotificationRepo) GetUnreadCount(_ context.Context, recipientID string) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.Recipient.Hex() == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *memNotificationRepo) MarkAsRead(_ context.Context, id, recipientID string) error {
	n, ok := r.notifications[id]
	if !ok || n.Recipient.Hex() != recipientID {
		return repositories.ErrNotFound
	}
	n.Read = true
	return nil
}

func (r *memNotificationRepo) MarkAllAsRead(_ context.Context, recipientID string) error {
	for _, n := range r.notifications {
		if n.Recipient.Hex() == recipientID {
			n.Read = true
		}
	}
	return nil
}

func (r *memNotificationRepo) DeleteNotification(_ context.Context, id, recipientID string) error {
	n, ok := r.notifications[id]
	if !ok || n.Recipient.Hex() != recipientID {
		return repositories.ErrNotFound
	}
	delete(r.notifications, id)
	return nil
}

// recordingDispatcher captures dispatch calls for assertions
type recordingDispatcher struct {
	calls []dispatchCall
	err   error
}

type dispatchCall struct {
	recipient string
	sender    string
	idea      string
	typ       models.NotificationType
	content   string
}

func (d *recordingDispatcher) Dispatch(_ context.Context, recipientID, senderID, ideaID string, typ models.NotificationType, content string) (*models.NotificationResolved, error) {
	d.calls = append(d.calls, dispatchCall{recipientID, senderID, ideaID, typ, content})
	if d.err != nil {
		return nil, d.err
	}
	return &models.NotificationResolved{}, nil
}

// newTestContext builds an Echo context with the validator installed, an
// optional JSON body, and the authenticated user set the way the JWT
// middleware would.
func newTestContext(method, target, body, userID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validators.NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set("userID", userID)
	}
	return c, rec
}
