package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anonto42/ideahub/backend/internal/apperr"
	"github.com/anonto42/ideahub/backend/internal/events"
	"github.com/anonto42/ideahub/backend/internal/gamification"
	"github.com/anonto42/ideahub/backend/internal/models"
	"github.com/anonto42/ideahub/backend/internal/repositories"
	"github.com/anonto42/ideahub/backend/internal/saga"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPublisher is satisfied by *events.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, event events.SocialEvent) error
}

type ActionRecorder interface {
	RecordSocialAction(ctx context.Context, action string)
}

// SocialDeps wires a SocialService.
type SocialDeps struct {
	Tx       saga.TxRunner
	Ideas    repositories.IdeaRepository
	Profiles repositories.ProfileRepository
	Likes    repositories.LikeRepository
	Comments repositories.CommentRepository
	Follows  repositories.FollowRepository
	Steps    repositories.SagaStepRepository
	Executor *saga.Executor
	Events   EventPublisher
	Recorder ActionRecorder
	Logger   *zap.SugaredLogger
}

// SocialService sequences like, comment, follow and share with their point
// awards and notifications. The primary write and the planned side effects
// commit together; the side effects then run in order and the first failure
// is returned. Failed steps stay in the outbox for the relay.
type SocialService struct {
	SocialDeps
}

func NewSocialService(deps SocialDeps) *SocialService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop().Sugar()
	}
	return &SocialService{SocialDeps: deps}
}

// LikeSummary is the like count of an idea as seen by one user.
type LikeSummary struct {
	Count        int64 `json:"count"`
	UserHasLiked bool  `json:"user_has_liked"`
}

// FollowStatus describes the follow relation between a viewer and a user.
type FollowStatus struct {
	IsFollowing    bool  `json:"is_following"`
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
}

// ToggleLike flips the like of actingUserID on the idea. Liking someone
// else's idea awards the owner and notifies them; unliking reverses nothing.
func (s *SocialService) ToggleLike(ctx context.Context, ideaID, actingUserID string) (models.LikeState, error) {
	if actingUserID == "" {
		return models.Unliked, apperr.Validation("toggle like", "User ID is required")
	}

	idea, err := s.Ideas.GetIdeaByID(ctx, ideaID)
	if err != nil {
		return models.Unliked, err
	}

	existing, err := s.Likes.FindLike(ctx, ideaID, actingUserID)
	if err != nil {
		return models.Unliked, err
	}

	current := models.Unliked
	if existing != nil {
		current = models.Liked
	}
	next := current.Toggle()

	if next == models.Unliked {
		if err := s.Likes.DeleteLike(ctx, existing.ID); err != nil {
			return current, err
		}
		s.completed(ctx, "unlike", "", events.SocialEvent{})
		return next, nil
	}

	plan := saga.NewPlan("like")
	if idea.UserID != actingUserID {
		actor, err := s.Profiles.GetProfileByID(ctx, actingUserID)
		if err != nil {
			return current, err
		}
		plan.AwardPoints(idea.UserID, gamification.LikePoints).
			Notify(models.NewNotification{
				UserID:   idea.UserID,
				SenderID: &actingUserID,
				IdeaID:   &ideaID,
				Type:     models.NotificationLike,
				Message:  fmt.Sprintf("%s liked your idea \"%s\"", actor.Username, idea.Title),
			})
	}

	like := &models.Like{IdeaID: ideaID, UserID: actingUserID}
	if err := s.commit(ctx, plan, func(ctx context.Context) error {
		return s.Likes.CreateLike(ctx, like)
	}); err != nil {
		return current, err
	}

	s.completed(ctx, "like", events.SubjectIdeaLiked, events.SocialEvent{
		Action:       "like",
		ActorID:      actingUserID,
		TargetUserID: idea.UserID,
		IdeaID:       ideaID,
	})
	return next, nil
}

// CreateComment stores a comment. The commenter always earns points; the
// idea owner is notified unless they commented on their own idea.
func (s *SocialService) CreateComment(ctx context.Context, ideaID, actingUserID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("create comment", "Comment cannot be empty")
	}
	if actingUserID == "" {
		return nil, apperr.Validation("create comment", "User ID is required")
	}

	idea, err := s.Ideas.GetIdeaByID(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	actor, err := s.Profiles.GetProfileByID(ctx, actingUserID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:      uuid.NewString(),
		Content: content,
		IdeaID:  ideaID,
		UserID:  actingUserID,
	}

	plan := saga.NewPlan("comment").AwardPoints(actingUserID, gamification.CommentPoints)
	if idea.UserID != actingUserID {
		plan.Notify(models.NewNotification{
			UserID:    idea.UserID,
			SenderID:  &actingUserID,
			IdeaID:    &ideaID,
			CommentID: &comment.ID,
			Type:      models.NotificationComment,
			Message:   fmt.Sprintf("%s commented on your idea \"%s\"", actor.Username, idea.Title),
		})
	}

	if err := s.commit(ctx, plan, func(ctx context.Context) error {
		return s.Comments.CreateComment(ctx, comment)
	}); err != nil {
		return nil, err
	}

	compact := actor.ToCompact()
	comment.Profile = &compact
	s.completed(ctx, "comment", events.SubjectIdeaCommented, events.SocialEvent{
		Action:       "comment",
		ActorID:      actingUserID,
		TargetUserID: idea.UserID,
		IdeaID:       ideaID,
		CommentID:    comment.ID,
	})
	return comment, nil
}

// Follow makes followerID follow followingID and rewards the followed user.
func (s *SocialService) Follow(ctx context.Context, followerID, followingID string) error {
	if followerID == "" || followingID == "" {
		return apperr.Validation("follow", "User ID is required")
	}
	if followerID == followingID {
		return apperr.Validation("follow", "You cannot follow yourself")
	}

	if _, err := s.Profiles.GetProfileByID(ctx, followingID); err != nil {
		return err
	}
	follower, err := s.Profiles.GetProfileByID(ctx, followerID)
	if err != nil {
		return err
	}

	already, err := s.Follows.IsFollowing(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if already {
		return apperr.Conflict("follow", "Already following this user")
	}

	plan := saga.NewPlan("follow").
		AwardPoints(followingID, gamification.FollowPoints).
		Notify(models.NewNotification{
			UserID:   followingID,
			SenderID: &followerID,
			Type:     models.NotificationFollow,
			Message:  fmt.Sprintf("%s started following you", follower.Username),
		})

	follow := &models.Follow{FollowerID: followerID, FollowingID: followingID}
	if err := s.commit(ctx, plan, func(ctx context.Context) error {
		return s.Follows.CreateFollow(ctx, follow)
	}); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return apperr.Conflict("follow", "Already following this user")
		}
		return err
	}

	s.completed(ctx, "follow", events.SubjectUserFollowed, events.SocialEvent{
		Action:       "follow",
		ActorID:      followerID,
		TargetUserID: followingID,
	})
	return nil
}

// Unfollow deletes the follow row only.
func (s *SocialService) Unfollow(ctx context.Context, followerID, followingID string) error {
	if followerID == followingID {
		return apperr.Validation("unfollow", "You cannot unfollow yourself")
	}
	if err := s.Follows.DeleteFollow(ctx, followerID, followingID); err != nil {
		return err
	}
	s.completed(ctx, "unfollow", "", events.SocialEvent{})
	return nil
}

// Share increments the share counter atomically and awards the idea owner.
// Shares never notify.
func (s *SocialService) Share(ctx context.Context, ideaID, actingUserID string) (*models.Idea, error) {
	idea, err := s.Ideas.IncrementShareCount(ctx, ideaID)
	if err != nil {
		return nil, err
	}

	plan := saga.NewPlan("share").AwardPoints(idea.UserID, gamification.SharePoints)
	if err := s.commit(ctx, plan, nil); err != nil {
		return nil, err
	}

	s.completed(ctx, "share", events.SubjectIdeaShared, events.SocialEvent{
		Action:       "share",
		ActorID:      actingUserID,
		TargetUserID: idea.UserID,
		IdeaID:       ideaID,
		ShareCount:   idea.ShareCount,
	})
	return idea, nil
}

func (s *SocialService) LikeSummary(ctx context.Context, ideaID, viewerID string) (*LikeSummary, error) {
	count, err := s.Likes.GetLikesCountByIdeaID(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	summary := &LikeSummary{Count: count}
	if viewerID != "" {
		if summary.UserHasLiked, err = s.Likes.HasUserLikedIdea(ctx, ideaID, viewerID); err != nil {
			return nil, err
		}
	}
	return summary, nil
}

func (s *SocialService) FollowStatus(ctx context.Context, viewerID, userID string) (*FollowStatus, error) {
	status := &FollowStatus{}
	var err error
	if viewerID != "" && viewerID != userID {
		if status.IsFollowing, err = s.Follows.IsFollowing(ctx, viewerID, userID); err != nil {
			return nil, err
		}
	}
	if status.FollowersCount, err = s.Follows.GetFollowersCount(ctx, userID); err != nil {
		return nil, err
	}
	if status.FollowingCount, err = s.Follows.GetFollowingCount(ctx, userID); err != nil {
		return nil, err
	}
	return status, nil
}

// ListComments returns an idea's comments oldest first with authors projected.
func (s *SocialService) ListComments(ctx context.Context, ideaID string) ([]models.Comment, error) {
	if _, err := s.Ideas.GetIdeaByID(ctx, ideaID); err != nil {
		return nil, err
	}
	comments, err := s.Comments.GetCommentsByIdeaID(ctx, ideaID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.UserID)
	}
	if len(ids) == 0 {
		return comments, nil
	}
	authors, err := s.Profiles.GetProfilesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.ProfileCompact, len(authors))
	for i := range authors {
		byID[authors[i].ID] = authors[i].ToCompact()
	}
	for i := range comments {
		if author, ok := byID[comments[i].UserID]; ok {
			comments[i].Profile = &author
		}
	}
	return comments, nil
}

// DeleteComment removes a comment written by the acting user. Awarded
// points are kept.
func (s *SocialService) DeleteComment(ctx context.Context, actingUserID, commentID string) error {
	comment, err := s.Comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != actingUserID {
		return apperr.Forbidden("delete comment", "You can only delete your own comments")
	}
	return s.Comments.DeleteComment(ctx, commentID)
}

// commit stores the primary write and the planned steps in one transaction,
// then runs the steps in order.
func (s *SocialService) commit(ctx context.Context, plan *saga.Plan, primary func(ctx context.Context) error) error {
	steps, err := plan.Steps()
	if err != nil {
		return apperr.Persistence("plan side effects", err)
	}

	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if primary != nil {
			if err := primary(ctx); err != nil {
				return err
			}
		}
		return s.Steps.CreateSteps(ctx, steps)
	})
	if err != nil {
		return err
	}

	if err := s.Executor.RunAll(ctx, steps); err != nil {
		s.Logger.Errorw("side effect failed", "saga_id", plan.ID(), "error", err)
		return err
	}
	return nil
}

func (s *SocialService) completed(ctx context.Context, action, subject string, event events.SocialEvent) {
	if s.Recorder != nil {
		s.Recorder.RecordSocialAction(ctx, action)
	}
	if subject == "" || s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, subject, event); err != nil {
		s.Logger.Warnw("failed to publish social event", "subject", subject, "error", err)
	}
}
