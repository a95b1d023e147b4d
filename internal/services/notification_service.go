package services

import (
	"context"
	"errors"

	"github.com/anonto42/ideahub/backend/internal/apperr"
	"github.com/anonto42/ideahub/backend/internal/cache"
	"github.com/anonto42/ideahub/backend/internal/models"
	"github.com/anonto42/ideahub/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// UnreadCache caches per-recipient unread counts. *cache.Cache satisfies it.
type UnreadCache interface {
	GetUnreadCount(ctx context.Context, userID string) (int64, error)
	SetUnreadCount(ctx context.Context, userID string, count int64) error
	InvalidateUnreadCount(ctx context.Context, userID string) error
}

type NotificationRecorder interface {
	RecordNotificationCreated(ctx context.Context, notificationType models.NotificationType)
}

// NotificationPage is one page of a recipient's notifications.
type NotificationPage struct {
	Items []models.Notification `json:"notifications"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// NotificationService persists notifications and their read state. It does
// not suppress self-notifications; callers decide whether to notify.
type NotificationService struct {
	repo     repositories.NotificationRepository
	profiles repositories.ProfileRepository
	cache    UnreadCache
	validate *validator.Validate
	recorder NotificationRecorder
	logger   *zap.SugaredLogger
}

func NewNotificationService(repo repositories.NotificationRepository, profiles repositories.ProfileRepository,
	unread UnreadCache, recorder NotificationRecorder, logger *zap.SugaredLogger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if unread == nil {
		unread = cache.New(nil, 0, logger, nil)
	}
	return &NotificationService{
		repo:     repo,
		profiles: profiles,
		cache:    unread,
		validate: validator.New(),
		recorder: recorder,
		logger:   logger,
	}
}

// Create inserts an unread notification.
func (s *NotificationService) Create(ctx context.Context, input models.NewNotification) (*models.Notification, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, apperr.Validation("create notification", err.Error())
	}

	notification := &models.Notification{
		UserID:    input.UserID,
		SenderID:  input.SenderID,
		IdeaID:    input.IdeaID,
		CommentID: input.CommentID,
		Type:      input.Type,
		Message:   input.Message,
	}
	if err := s.repo.CreateNotification(ctx, notification); err != nil {
		return nil, err
	}

	s.invalidate(ctx, input.UserID)
	if s.recorder != nil {
		s.recorder.RecordNotificationCreated(ctx, input.Type)
	}
	return notification, nil
}

// List returns the recipient's notifications newest first with the sender projected.
func (s *NotificationService) List(ctx context.Context, userID string, page, limit int) (*NotificationPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	items, total, err := s.repo.GetByRecipientID(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}

	senderIDs := make([]string, 0, len(items))
	seen := make(map[string]struct{})
	for _, n := range items {
		if n.SenderID == nil {
			continue
		}
		if _, ok := seen[*n.SenderID]; !ok {
			seen[*n.SenderID] = struct{}{}
			senderIDs = append(senderIDs, *n.SenderID)
		}
	}

	if len(senderIDs) > 0 {
		senders, err := s.profiles.GetProfilesByIDs(ctx, senderIDs)
		if err != nil {
			return nil, err
		}
		byID := make(map[string]models.ProfileCompact, len(senders))
		for i := range senders {
			byID[senders[i].ID] = senders[i].ToCompact()
		}
		for i := range items {
			if items[i].SenderID == nil {
				continue
			}
			if sender, ok := byID[*items[i].SenderID]; ok {
				items[i].Sender = &sender
			}
		}
	}

	return &NotificationPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// UnreadCount has no side effects besides filling the cache.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	count, err := s.cache.GetUnreadCount(ctx, userID)
	if err == nil {
		return count, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warnw("unread count cache lookup failed", "user_id", userID, "error", err)
	}

	count, err = s.repo.GetUnreadCount(ctx, userID)
	if err != nil {
		return 0, err
	}
	if err := s.cache.SetUnreadCount(ctx, userID, count); err != nil {
		s.logger.Warnw("failed to cache unread count", "user_id", userID, "error", err)
	}
	return count, nil
}

// MarkAsRead is idempotent. Only the recipient may mark a notification.
func (s *NotificationService) MarkAsRead(ctx context.Context, actingUserID, id string) error {
	notification, err := s.owned(ctx, "mark notification as read", actingUserID, id)
	if err != nil {
		return err
	}
	if notification.ReadState() == models.Read {
		return nil
	}

	if err := s.repo.MarkAsRead(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, actingUserID)
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	if err := s.repo.MarkAllAsRead(ctx, userID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

// Delete removes a notification owned by the acting user.
func (s *NotificationService) Delete(ctx context.Context, actingUserID, id string) error {
	if _, err := s.owned(ctx, "delete notification", actingUserID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteNotification(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, actingUserID)
	return nil
}

func (s *NotificationService) owned(ctx context.Context, op, actingUserID, id string) (*models.Notification, error) {
	notification, err := s.repo.GetNotificationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notification.UserID != actingUserID {
		return nil, apperr.Forbidden(op, "You can only manage your own notifications")
	}
	return notification, nil
}

func (s *NotificationService) invalidate(ctx context.Context, userID string) {
	if err := s.cache.InvalidateUnreadCount(ctx, userID); err != nil {
		s.logger.Warnw("failed to invalidate unread count", "user_id", userID, "error", err)
	}
}
