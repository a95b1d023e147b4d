package services

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anonto42/ideahub/backend/internal/apperr"
	"github.com/anonto42/ideahub/backend/internal/gamification"
	"github.com/anonto42/ideahub/backend/internal/models"
	"github.com/anonto42/ideahub/backend/internal/repositories"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory implementation of every repository the services
// use. WithinTx rolls back saga step claims when fn fails, which is the part
// of transactional behaviour the services depend on.
type memStore struct {
	mu            sync.Mutex
	ideas         map[string]*models.Idea
	profiles      map[string]*models.Profile
	likes         map[string]*models.Like
	comments      map[string]*models.Comment
	follows       map[string]*models.Follow
	notifications map[string]*models.Notification
	steps         map[string]*models.SagaStep
	categories    map[string]*models.Category
	tags          map[string]*models.Tag
	ideaTags      map[string][]string
	milestones    map[string]*models.Milestone
	fail          map[string]error
	calls         int
}

func newMemStore() *memStore {
	return &memStore{
		ideas:         map[string]*models.Idea{},
		profiles:      map[string]*models.Profile{},
		likes:         map[string]*models.Like{},
		comments:      map[string]*models.Comment{},
		follows:       map[string]*models.Follow{},
		notifications: map[string]*models.Notification{},
		steps:         map[string]*models.SagaStep{},
		categories:    map[string]*models.Category{},
		tags:          map[string]*models.Tag{},
		ideaTags:      map[string][]string{},
		milestones:    map[string]*models.Milestone{},
		fail:          map[string]error{},
	}
}

// call counts the store access and returns the injected failure for op.
// The caller must hold m.mu.
func (m *memStore) call(op string) error {
	m.calls++
	if err, ok := m.fail[op]; ok {
		return apperr.Persistence(op, err)
	}
	return nil
}

func (m *memStore) setFailure(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.fail, op)
		return
	}
	m.fail[op] = err
}

func (m *memStore) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *memStore) addProfile(username string, points int) *models.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &models.Profile{ID: uuid.NewString(), Username: username, Points: points, Level: gamification.LevelFor(points)}
	m.profiles[p.ID] = p
	return p
}

func (m *memStore) addIdea(ownerID, title string) *models.Idea {
	m.mu.Lock()
	defer m.mu.Unlock()
	idea := &models.Idea{ID: primitive.NewObjectID(), Title: title, Description: "An idea worth sharing", UserID: ownerID, CreatedAt: time.Now()}
	m.ideas[idea.ID.Hex()] = idea
	return idea
}

func (m *memStore) profile(id string) models.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.profiles[id]
}

func (m *memStore) notificationsFor(userID string) []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Notification{}
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out
}

func (m *memStore) pendingSteps() []models.SagaStep {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.SagaStep{}
	for _, s := range m.steps {
		if s.Status == models.StepPending {
			out = append(out, *s)
		}
	}
	return out
}

// TxRunner

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	snapshot := make(map[string]models.SagaStepStatus, len(m.steps))
	for id, s := range m.steps {
		snapshot[id] = s.Status
	}
	m.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.mu.Lock()
		for id, s := range m.steps {
			if status, ok := snapshot[id]; ok {
				s.Status = status
			} else {
				delete(m.steps, id)
			}
		}
		m.mu.Unlock()
		return err
	}
	return nil
}

// IdeaRepository

func (m *memStore) CreateIdea(ctx context.Context, idea *models.Idea) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("CreateIdea"); err != nil {
		return err
	}
	idea.ID = primitive.NewObjectID()
	idea.CreatedAt = time.Now()
	idea.UpdatedAt = idea.CreatedAt
	cp := *idea
	m.ideas[idea.ID.Hex()] = &cp
	return nil
}

func (m *memStore) GetIdeaByID(ctx context.Context, id string) (*models.Idea, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("GetIdeaByID"); err != nil {
		return nil, err
	}
	idea, ok := m.ideas[id]
	if !ok {
		return nil, apperr.NotFound("get idea", "Idea not found")
	}
	cp := *idea
	return &cp, nil
}

func (m *memStore) ListIdeas(ctx context.Context, filter repositories.IdeaFilter, skip, limit int64) ([]models.Idea, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("ListIdeas"); err != nil {
		return nil, err
	}
	out := []models.Idea{}
	for _, idea := range m.ideas {
		if filter.UserID != "" && idea.UserID != filter.UserID {
			continue
		}
		if filter.UserID == "" && len(filter.UserIDs) > 0 && !slices.Contains(filter.UserIDs, idea.UserID) {
			continue
		}
		if filter.CategoryID != "" && (idea.CategoryID == nil || *idea.CategoryID != filter.CategoryID) {
			continue
		}
		out = append(out, *idea)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if skip >= int64(len(out)) {
		return []models.Idea{}, nil
	}
	out = out[skip:]
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) SearchIdeas(ctx context.Context, query string, limit int64) ([]models.Idea, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("SearchIdeas"); err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	out := []models.Idea{}
	for _, idea := range m.ideas {
		if strings.Contains(strings.ToLower(idea.Title), q) || strings.Contains(strings.ToLower(idea.Description), q) {
			out = append(out, *idea)
		}
	}
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) UpdateIdea(ctx context.Context, idea *models.Idea) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("UpdateIdea"); err != nil {
		return err
	}
	if _, ok := m.ideas[idea.ID.Hex()]; !ok {
		return apperr.NotFound("update idea", "Idea not found")
	}
	cp := *idea
	m.ideas[idea.ID.Hex()] = &cp
	return nil
}

func (m *memStore) DeleteIdea(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("DeleteIdea"); err != nil {
		return err
	}
	if _, ok := m.ideas[id]; !ok {
		return apperr.NotFound("delete idea", "Idea not found")
	}
	delete(m.ideas, id)
	return nil
}

func (m *memStore) IncrementShareCount(ctx context.Context, id string) (*models.Idea, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("IncrementShareCount"); err != nil {
		return nil, err
	}
	idea, ok := m.ideas[id]
	if !ok {
		return nil, apperr.NotFound("share idea", "Idea not found")
	}
	idea.ShareCount++
	cp := *idea
	return &cp, nil
}

// ProfileRepository

func (m *memStore) CreateProfile(ctx context.Context, profile *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("CreateProfile"); err != nil {
		return err
	}
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	cp := *profile
	m.profiles[profile.ID] = &cp
	return nil
}

func (m *memStore) GetProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("GetProfileByID"); err != nil {
		return nil, err
	}
	p, ok := m.profiles[id]
	if !ok {
		return nil, apperr.NotFound("get profile", "Profile not found")
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) GetProfileByFirebaseUID(ctx context.Context, firebaseUID string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("GetProfileByFirebaseUID"); err != nil {
		return nil, err
	}
	for _, p := range m.profiles {
		if p.FirebaseUID == firebaseUID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("get profile", "Profile not found")
}

func (m *memStore) GetProfilesByIDs(ctx context.Context, ids []string) ([]models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("GetProfilesByIDs"); err != nil {
		return nil, err
	}
	out := []models.Profile{}
	for _, id := range ids {
		if p, ok := m.profiles[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memStore) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("UpdateProfile"); err != nil {
		return err
	}
	p, ok := m.profiles[profile.ID]
	if !ok {
		return apperr.NotFound("update profile", "Profile not found")
	}
	p.Username = profile.Username
	p.AvatarURL = profile.AvatarURL
	return nil
}

func (m *memStore) AddPoints(ctx context.Context, userID string, delta int) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("AddPoints"); err != nil {
		return nil, err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, apperr.NotFound("add points", "Profile not found")
	}
	p.Points += delta
	p.Level = gamification.LevelFor(p.Points)
	cp := *p
	return &cp, nil
}

// LikeRepository

func (m *memStore) CreateLike(ctx context.Context, like *models.Like) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("CreateLike"); err != nil {
		return err
	}
	for _, l := range m.likes {
		if l.IdeaID == like.IdeaID && l.UserID == like.UserID {
			return apperr.Conflict("create like", "Already exists")
		}
	}
	like.ID = uuid.NewString()
	cp := *like
	m.likes[like.ID] = &cp
	return nil
}

func (m *memStore) DeleteLike(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("DeleteLike"); err != nil {
		return err
	}
	if _, ok := m.likes[id]; !ok {
		return apperr.NotFound("delete like", "Like not found")
	}
	delete(m.likes, id)
	return nil
}

func (m *memStore) FindLike(ctx context.Context, ideaID, userID string) (*models.Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("FindLike"); err != nil {
		return nil, err
	}
	for _, l := range m.likes {
		if l.IdeaID == ideaID && l.UserID == userID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) GetLikesCountByIdeaID(ctx context.Context, ideaID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("GetLikesCountByIdeaID"); err != nil {
		return 0, err
	}
	var n int64
	for _, l := range m.likes {
		if l.IdeaID == ideaID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) HasUserLikedIdea(ctx context.Context, ideaID, userID string) (bool, error) {
	like, err := m.FindLike(ctx, ideaID, userID)
	return like != nil, err
}

func (m *memStore) DeleteLikesByIdeaID(ctx context.Context, ideaID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("DeleteLikesByIdeaID"); err != nil {
		return err
	}
	for id, l := range m.likes {
		if l.IdeaID == ideaID {
			delete(m.likes, id)
		}
	}
	return nil
}

// CommentRepository

func (m *memStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("CreateComment"); err != nil {
		return err
	}
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	comment.CreatedAt = time.Now()
	cp := *comment
	m.comments[comment.ID] = &cp
	return nil
}

func (m *memStore) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("GetCommentByID"); err != nil {
		return nil, err
	}
	c, ok := m.comments[id]
	if !ok {
		return nil, apperr.NotFound("get comment", "Comment not found")
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) GetCommentsByIdeaID(ctx context.Context, ideaID string) ([]models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("GetCommentsByIdeaID"); err != nil {
		return nil, err
	}
	out := []models.Comment{}
	for _, c := range m.comments {
		if c.IdeaID == ideaID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) CountCommentsByIdeaID(ctx context.Context, ideaID string) (int64, error) {
	comments, err := m.GetCommentsByIdeaID(ctx, ideaID)
	return int64(len(comments)), err
}

func (m *memStore) DeleteComment(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("DeleteComment"); err != nil {
		return err
	}
	delete(m.comments, id)
	return nil
}

func (m *memStore) DeleteCommentsByIdeaID(ctx context.Context, ideaID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("DeleteCommentsByIdeaID"); err != nil {
		return err
	}
	for id, c := range m.comments {
		if c.IdeaID == ideaID {
			delete(m.comments, id)
		}
	}
	return nil
}

// FollowRepository

func (m *memStore) CreateFollow(ctx context.Context, follow *models.Follow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("CreateFollow"); err != nil {
		return err
	}
	for _, f := range m.follows {
		if f.FollowerID == follow.FollowerID && f.FollowingID == follow.FollowingID {
			return apperr.Conflict("create follow", "Already exists")
		}
	}
	follow.ID = uuid.NewString()
	cp := *follow
	m.follows[follow.ID] = &cp
	return nil
}

func (m *memStore) DeleteFollow(ctx context.Context, followerID, followingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("DeleteFollow"); err != nil {
		return err
	}
	for id, f := range m.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			delete(m.follows, id)
			return nil
		}
	}
	return apperr.NotFound("unfollow", "Not following this user")
}

func (m *memStore) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("IsFollowing"); err != nil {
		return false, err
	}
	for _, f := range m.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) countFollows(match func(f *models.Follow) bool) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	var n int64
	for _, f := range m.follows {
		if match(f) {
			n++
		}
	}
	return n
}

func (m *memStore) GetFollowersCount(ctx context.Context, userID string) (int64, error) {
	return m.countFollows(func(f *models.Follow) bool { return f.FollowingID == userID }), nil
}

func (m *memStore) GetFollowingCount(ctx context.Context, userID string) (int64, error) {
	return m.countFollows(func(f *models.Follow) bool { return f.FollowerID == userID }), nil
}

func (m *memStore) GetFollowingIDs(ctx context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := []string{}
	for _, f := range m.follows {
		if f.FollowerID == userID {
			ids = append(ids, f.FollowingID)
		}
	}
	return ids, nil
}

// NotificationRepository

func (m *memStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("CreateNotification"); err != nil {
		return err
	}
	n.ID = uuid.NewString()
	n.IsRead = false
	n.CreatedAt = time.Now()
	cp := *n
	m.notifications[n.ID] = &cp
	return nil
}

func (m *memStore) GetNotificationByID(ctx context.Context, id string) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("GetNotificationByID"); err != nil {
		return nil, err
	}
	n, ok := m.notifications[id]
	if !ok {
		return nil, apperr.NotFound("get notification", "Notification not found")
	}
	cp := *n
	return &cp, nil
}

func (m *memStore) GetByRecipientID(ctx context.Context, recipientID string, page, limit int) ([]models.Notification, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("GetByRecipientID"); err != nil {
		return nil, 0, err
	}
	all := []models.Notification{}
	for _, n := range m.notifications {
		if n.UserID == recipientID {
			all = append(all, *n)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return []models.Notification{}, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (m *memStore) GetUnreadCount(ctx context.Context, recipientID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("GetUnreadCount"); err != nil {
		return 0, err
	}
	var n int64
	for _, notification := range m.notifications {
		if notification.UserID == recipientID && !notification.IsRead {
			n++
		}
	}
	return n, nil
}

func (m *memStore) MarkAsRead(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("MarkAsRead"); err != nil {
		return err
	}
	n, ok := m.notifications[id]
	if !ok {
		return apperr.NotFound("mark notification as read", "Notification not found")
	}
	n.IsRead = true
	return nil
}

func (m *memStore) MarkAllAsRead(ctx context.Context, recipientID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("MarkAllAsRead"); err != nil {
		return err
	}
	for _, n := range m.notifications {
		if n.UserID == recipientID && !n.IsRead {
			n.IsRead = true
		}
	}
	return nil
}

func (m *memStore) DeleteNotification(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("DeleteNotification"); err != nil {
		return err
	}
	delete(m.notifications, id)
	return nil
}

func (m *memStore) DeleteNotificationsByIdeaID(ctx context.Context, ideaID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("DeleteNotificationsByIdeaID"); err != nil {
		return err
	}
	for id, n := range m.notifications {
		if n.IdeaID != nil && *n.IdeaID == ideaID {
			delete(m.notifications, id)
		}
	}
	return nil
}

// SagaStepRepository

func (m *memStore) CreateSteps(ctx context.Context, steps []models.SagaStep) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("CreateSteps"); err != nil {
		return err
	}
	for i := range steps {
		steps[i].ID = uuid.NewString()
		steps[i].CreatedAt = time.Now()
		cp := steps[i]
		m.steps[cp.ID] = &cp
	}
	return nil
}

func (m *memStore) ClaimStep(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("ClaimStep"); err != nil {
		return false, err
	}
	s, ok := m.steps[id]
	if !ok || s.Status != models.StepPending {
		return false, nil
	}
	s.Status = models.StepDone
	return true, nil
}

func (m *memStore) RecordFailure(ctx context.Context, id string, cause error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.steps[id]; ok && s.Status == models.StepPending {
		s.Attempts++
		s.LastError = cause.Error()
	}
	return nil
}

func (m *memStore) FailSaga(ctx context.Context, sagaID string, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.steps {
		if s.SagaID == sagaID && s.Status == models.StepPending {
			s.Status = models.StepFailed
		}
	}
	return nil
}

func (m *memStore) GetPendingSteps(ctx context.Context, createdBefore time.Time, limit int) ([]models.SagaStep, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.SagaStep{}
	for _, s := range m.steps {
		if s.Status == models.StepPending && s.CreatedAt.Before(createdBefore) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SagaID != out[j].SagaID {
			return out[i].SagaID < out[j].SagaID
		}
		return out[i].Seq < out[j].Seq
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// TaxonomyRepository

func (m *memStore) GetCategories(ctx context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Category{}
	for _, c := range m.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memStore) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return nil, apperr.NotFound("get category", "Category not found")
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) GetTags(ctx context.Context) ([]models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Tag{}
	for _, t := range m.tags {
		out = append(out, *t)
	}
	return out, nil
}

func (m *memStore) GetTagsByIdeaID(ctx context.Context, ideaID string) ([]models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Tag{}
	for _, id := range m.ideaTags[ideaID] {
		if t, ok := m.tags[id]; ok {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memStore) GetTagsByIDs(ctx context.Context, ids []string) ([]models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Tag{}
	for _, id := range ids {
		if t, ok := m.tags[id]; ok {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memStore) ReplaceIdeaTags(ctx context.Context, ideaID string, tagIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("ReplaceIdeaTags"); err != nil {
		return err
	}
	m.ideaTags[ideaID] = append([]string(nil), tagIDs...)
	return nil
}

func (m *memStore) DeleteIdeaTags(ctx context.Context, ideaID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ideaTags, ideaID)
	return nil
}

// MilestoneRepository

func (m *memStore) CreateMilestone(ctx context.Context, milestone *models.Milestone) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("CreateMilestone"); err != nil {
		return err
	}
	milestone.ID = uuid.NewString()
	cp := *milestone
	m.milestones[milestone.ID] = &cp
	return nil
}

func (m *memStore) GetMilestoneByID(ctx context.Context, id string) (*models.Milestone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.milestones[id]
	if !ok {
		return nil, apperr.NotFound("get milestone", "Milestone not found")
	}
	cp := *ms
	return &cp, nil
}

func (m *memStore) GetMilestonesByIdeaID(ctx context.Context, ideaID string) ([]models.Milestone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Milestone{}
	for _, ms := range m.milestones {
		if ms.IdeaID == ideaID {
			out = append(out, *ms)
		}
	}
	return out, nil
}

func (m *memStore) UpdateMilestoneStatus(ctx context.Context, milestone *models.Milestone) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("UpdateMilestoneStatus"); err != nil {
		return err
	}
	ms, ok := m.milestones[milestone.ID]
	if !ok {
		return apperr.NotFound("update milestone", "Milestone not found")
	}
	ms.Status = milestone.Status
	ms.CompletedAt = milestone.CompletedAt
	return nil
}

func (m *memStore) DeleteMilestone(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.milestones, id)
	return nil
}

func (m *memStore) DeleteMilestonesByIdeaID(ctx context.Context, ideaID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, ms := range m.milestones {
		if ms.IdeaID == ideaID {
			delete(m.milestones, id)
		}
	}
	return nil
}
