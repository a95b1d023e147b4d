package services

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/anonto42/ideahub/backend/internal/apperr"
	"github.com/anonto42/ideahub/backend/internal/models"
	"github.com/anonto42/ideahub/backend/internal/repositories"
	"github.com/anonto42/ideahub/backend/internal/saga"
	"go.uber.org/zap"
)

// IdeaDeps wires an IdeaService.
type IdeaDeps struct {
	Tx            saga.TxRunner
	Ideas         repositories.IdeaRepository
	Profiles      repositories.ProfileRepository
	Likes         repositories.LikeRepository
	Comments      repositories.CommentRepository
	Follows       repositories.FollowRepository
	Taxonomy      repositories.TaxonomyRepository
	Milestones    repositories.MilestoneRepository
	Notifications repositories.NotificationRepository
	Logger        *zap.SugaredLogger
}

type IdeaService struct {
	IdeaDeps
}

func NewIdeaService(deps IdeaDeps) *IdeaService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop().Sugar()
	}
	return &IdeaService{IdeaDeps: deps}
}

func (s *IdeaService) Create(ctx context.Context, userID string, req models.CreateIdeaRequest) (*models.IdeaDetail, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		return nil, apperr.Validation("create idea", "Title and description are required")
	}
	if err := s.checkCategory(ctx, "create idea", req.CategoryID); err != nil {
		return nil, err
	}
	if err := s.checkTags(ctx, "create idea", req.TagIDs); err != nil {
		return nil, err
	}

	idea := &models.Idea{
		Title:       title,
		Description: description,
		UserID:      userID,
		CategoryID:  req.CategoryID,
	}
	if err := s.Ideas.CreateIdea(ctx, idea); err != nil {
		return nil, err
	}
	if len(req.TagIDs) > 0 {
		if err := s.replaceTags(ctx, idea.ID.Hex(), req.TagIDs); err != nil {
			if derr := s.Ideas.DeleteIdea(ctx, idea.ID.Hex()); derr != nil {
				s.Logger.Warnw("failed to remove untagged idea", "idea_id", idea.ID.Hex(), "error", derr)
			}
			return nil, err
		}
	}

	s.Logger.Infow("idea created", "idea_id", idea.ID.Hex(), "user_id", userID)
	return s.Get(ctx, idea.ID.Hex(), userID)
}

// Get returns the idea with its owner, category, tags and counters.
func (s *IdeaService) Get(ctx context.Context, id, viewerID string) (*models.IdeaDetail, error) {
	idea, err := s.Ideas.GetIdeaByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var owner *models.ProfileCompact
	profile, err := s.Profiles.GetProfileByID(ctx, idea.UserID)
	switch {
	case err == nil:
		compact := profile.ToCompact()
		owner = &compact
	case !errors.Is(err, apperr.ErrNotFound):
		return nil, err
	}

	detail, err := s.detail(ctx, *idea, owner, viewerID)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *IdeaService) List(ctx context.Context, filter repositories.IdeaFilter, page, limit int, viewerID string) ([]models.IdeaDetail, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	ideas, err := s.Ideas.ListIdeas(ctx, filter, int64((page-1)*limit), int64(limit))
	if err != nil {
		return nil, err
	}
	return s.details(ctx, ideas, viewerID)
}

// Feed lists ideas by the user and everyone they follow, newest first.
func (s *IdeaService) Feed(ctx context.Context, userID string, page, limit int) ([]models.IdeaDetail, error) {
	following, err := s.Follows.GetFollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	filter := repositories.IdeaFilter{UserIDs: append(following, userID)}
	return s.List(ctx, filter, page, limit, userID)
}

func (s *IdeaService) Search(ctx context.Context, query string, limit int, viewerID string) ([]models.IdeaDetail, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Validation("search ideas", "Search query is required")
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	ideas, err := s.Ideas.SearchIdeas(ctx, query, int64(limit))
	if err != nil {
		return nil, err
	}
	return s.details(ctx, ideas, viewerID)
}

// Update changes the provided fields of an idea owned by userID.
func (s *IdeaService) Update(ctx context.Context, userID, id string, req models.UpdateIdeaRequest) (*models.IdeaDetail, error) {
	idea, err := s.owned(ctx, "update idea", userID, id)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(req.Title); title != "" {
		idea.Title = title
	}
	if description := strings.TrimSpace(req.Description); description != "" {
		idea.Description = description
	}
	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, "update idea", req.CategoryID); err != nil {
			return nil, err
		}
		idea.CategoryID = req.CategoryID
	}
	if err := s.checkTags(ctx, "update idea", req.TagIDs); err != nil {
		return nil, err
	}

	if err := s.Ideas.UpdateIdea(ctx, idea); err != nil {
		return nil, err
	}
	if req.TagIDs != nil {
		if err := s.replaceTags(ctx, id, req.TagIDs); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id, userID)
}

// Delete removes an idea owned by userID together with everything that
// references it. Awarded points are kept.
func (s *IdeaService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, "delete idea", userID, id); err != nil {
		return err
	}

	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Comments.DeleteCommentsByIdeaID(ctx, id); err != nil {
			return err
		}
		if err := s.Likes.DeleteLikesByIdeaID(ctx, id); err != nil {
			return err
		}
		if err := s.Taxonomy.DeleteIdeaTags(ctx, id); err != nil {
			return err
		}
		if err := s.Milestones.DeleteMilestonesByIdeaID(ctx, id); err != nil {
			return err
		}
		return s.Notifications.DeleteNotificationsByIdeaID(ctx, id)
	})
	if err != nil {
		return err
	}
	// The document goes last so a failed cascade leaves the idea reachable
	// for a retry.
	if err := s.Ideas.DeleteIdea(ctx, id); err != nil {
		return err
	}

	s.Logger.Infow("idea deleted", "idea_id", id, "user_id", userID)
	return nil
}

// checkTags rejects tag ids that have no row in the tags table.
func (s *IdeaService) checkTags(ctx context.Context, op string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}
	unique := make([]string, 0, len(tagIDs))
	for _, id := range tagIDs {
		if !slices.Contains(unique, id) {
			unique = append(unique, id)
		}
	}
	tags, err := s.Taxonomy.GetTagsByIDs(ctx, unique)
	if err != nil {
		return err
	}
	if len(tags) != len(unique) {
		return apperr.Validation(op, "Tag does not exist")
	}
	return nil
}

func (s *IdeaService) replaceTags(ctx context.Context, ideaID string, tagIDs []string) error {
	return s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.Taxonomy.ReplaceIdeaTags(ctx, ideaID, tagIDs)
	})
}

func (s *IdeaService) owned(ctx context.Context, op, userID, id string) (*models.Idea, error) {
	idea, err := s.Ideas.GetIdeaByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if idea.UserID != userID {
		return nil, apperr.Forbidden(op, "You can only change your own ideas")
	}
	return idea, nil
}

func (s *IdeaService) checkCategory(ctx context.Context, op string, categoryID *string) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.Taxonomy.GetCategoryByID(ctx, *categoryID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.Validation(op, "Category does not exist")
		}
		return err
	}
	return nil
}

func (s *IdeaService) details(ctx context.Context, ideas []models.Idea, viewerID string) ([]models.IdeaDetail, error) {
	ownerIDs := make([]string, 0, len(ideas))
	seen := make(map[string]struct{})
	for _, idea := range ideas {
		if _, ok := seen[idea.UserID]; !ok {
			seen[idea.UserID] = struct{}{}
			ownerIDs = append(ownerIDs, idea.UserID)
		}
	}

	owners := make(map[string]models.ProfileCompact)
	if len(ownerIDs) > 0 {
		profiles, err := s.Profiles.GetProfilesByIDs(ctx, ownerIDs)
		if err != nil {
			return nil, err
		}
		for i := range profiles {
			owners[profiles[i].ID] = profiles[i].ToCompact()
		}
	}

	out := make([]models.IdeaDetail, 0, len(ideas))
	for _, idea := range ideas {
		var owner *models.ProfileCompact
		if p, ok := owners[idea.UserID]; ok {
			owner = &p
		}
		detail, err := s.detail(ctx, idea, owner, viewerID)
		if err != nil {
			return nil, err
		}
		out = append(out, *detail)
	}
	return out, nil
}

func (s *IdeaService) detail(ctx context.Context, idea models.Idea, owner *models.ProfileCompact, viewerID string) (*models.IdeaDetail, error) {
	id := idea.ID.Hex()
	detail := &models.IdeaDetail{Idea: idea, Profile: owner}

	if idea.CategoryID != nil {
		category, err := s.Taxonomy.GetCategoryByID(ctx, *idea.CategoryID)
		switch {
		case err == nil:
			detail.Category = category
		case !errors.Is(err, apperr.ErrNotFound):
			return nil, err
		}
	}

	var err error
	if detail.Tags, err = s.Taxonomy.GetTagsByIdeaID(ctx, id); err != nil {
		return nil, err
	}
	if detail.LikesCount, err = s.Likes.GetLikesCountByIdeaID(ctx, id); err != nil {
		return nil, err
	}
	if detail.CommentsCount, err = s.Comments.CountCommentsByIdeaID(ctx, id); err != nil {
		return nil, err
	}
	if viewerID != "" {
		if detail.UserHasLiked, err = s.Likes.HasUserLikedIdea(ctx, id, viewerID); err != nil {
			return nil, err
		}
	}
	return detail, nil
}
