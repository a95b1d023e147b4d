package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/ideahub/backend/internal/middleware"
	"github.com/anonto42/ideahub/backend/internal/models"
	"github.com/anonto42/ideahub/backend/internal/services"
	"github.com/labstack/echo/v4"
)

type SocialService interface {
	ToggleLike(ctx context.Context, ideaID, actingUserID string) (models.LikeState, error)
	LikeSummary(ctx context.Context, ideaID, viewerID string) (*services.LikeSummary, error)
	Share(ctx context.Context, ideaID, actingUserID string) (*models.Idea, error)
	CreateComment(ctx context.Context, ideaID, actingUserID, content string) (*models.Comment, error)
	ListComments(ctx context.Context, ideaID string) ([]models.Comment, error)
	DeleteComment(ctx context.Context, actingUserID, commentID string) error
	Follow(ctx context.Context, followerID, followingID string) error
	Unfollow(ctx context.Context, followerID, followingID string) error
	FollowStatus(ctx context.Context, viewerID, userID string) (*services.FollowStatus, error)
}

// SocialHandler serves likes, shares, comments and follows
type SocialHandler struct {
	social SocialService
}

func NewSocialHandler(social SocialService) *SocialHandler {
	return &SocialHandler{social: social}
}

func (h *SocialHandler) RegisterSocialRoutes(g *echo.Group) {
	g.POST("/ideas/:id/like", h.ToggleLike)
	g.GET("/ideas/:id/likes", h.GetLikes)
	g.POST("/ideas/:id/share", h.ShareIdea)
	g.GET("/ideas/:id/comments", h.ListComments)
	g.POST("/ideas/:id/comments", h.CreateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
	g.POST("/users/:id/follow", h.FollowUser)
	g.DELETE("/users/:id/follow", h.UnfollowUser)
	g.GET("/users/:id/follow", h.GetFollowStatus)
}

// ToggleLike likes the idea, or removes the like when it already exists
func (h *SocialHandler) ToggleLike(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	ideaID := c.Param("id")
	state, err := h.social.ToggleLike(c.Request().Context(), ideaID, userID)
	if err != nil {
		return err
	}

	summary, err := h.social.LikeSummary(c.Request().Context(), ideaID, userID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{
		"state":          state,
		"liked":          state == models.Liked,
		"likes_count":    summary.Count,
		"user_has_liked": summary.UserHasLiked,
	})
}

func (h *SocialHandler) GetLikes(c echo.Context) error {
	summary, err := h.social.LikeSummary(c.Request().Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, summary)
}

func (h *SocialHandler) ShareIdea(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	idea, err := h.social.Share(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"idea_id": c.Param("id"), "share_count": idea.ShareCount})
}

func (h *SocialHandler) ListComments(c echo.Context) error {
	comments, err := h.social.ListComments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"comments": comments})
}

func (h *SocialHandler) CreateComment(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.social.CreateComment(c.Request().Context(), c.Param("id"), userID, req.Content)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, comment)
}

func (h *SocialHandler) DeleteComment(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.social.DeleteComment(c.Request().Context(), userID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SocialHandler) FollowUser(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.social.Follow(c.Request().Context(), userID, id); err != nil {
		return err
	}
	return ok(c, http.StatusCreated, echo.Map{"following": true})
}

func (h *SocialHandler) UnfollowUser(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.social.Unfollow(c.Request().Context(), userID, id); err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"following": false})
}

func (h *SocialHandler) GetFollowStatus(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	status, err := h.social.FollowStatus(c.Request().Context(), middleware.UserID(c), id)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, status)
}
