package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/ideahub/backend/internal/apperr"
	"github.com/anonto42/ideahub/backend/internal/gamification"
	"github.com/anonto42/ideahub/backend/internal/models"
	"github.com/anonto42/ideahub/backend/internal/repositories"
	"go.uber.org/zap"
)

// ProfileView is a profile with its level progress and follow counters.
type ProfileView struct {
	models.Profile
	Progress       gamification.LevelProgress `json:"progress"`
	FollowersCount int64                      `json:"followers_count"`
	FollowingCount int64                      `json:"following_count"`
}

type ProfileService struct {
	profiles repositories.ProfileRepository
	follows  repositories.FollowRepository
	logger   *zap.SugaredLogger
}

func NewProfileService(profiles repositories.ProfileRepository, follows repositories.FollowRepository, logger *zap.SugaredLogger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &ProfileService{profiles: profiles, follows: follows, logger: logger}
}

func (s *ProfileService) Get(ctx context.Context, id string) (*ProfileView, error) {
	profile, err := s.profiles.GetProfileByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := &ProfileView{Profile: *profile, Progress: gamification.Progress(profile.Points)}
	if view.FollowersCount, err = s.follows.GetFollowersCount(ctx, id); err != nil {
		return nil, err
	}
	if view.FollowingCount, err = s.follows.GetFollowingCount(ctx, id); err != nil {
		return nil, err
	}
	return view, nil
}

// Update edits the username and avatar. Points and level are not editable.
func (s *ProfileService) Update(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.Profile, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, apperr.Validation("update profile", "Username cannot be empty")
	}

	profile, err := s.profiles.GetProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.Username = username
	if req.AvatarURL != nil {
		profile.AvatarURL = req.AvatarURL
	}

	if err := s.profiles.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// EnsureFirebaseProfile returns the profile linked to a Firebase account,
// creating it on first login.
func (s *ProfileService) EnsureFirebaseProfile(ctx context.Context, firebaseUID, email, displayName string) (*models.Profile, error) {
	if firebaseUID == "" {
		return nil, apperr.Validation("firebase login", "Firebase UID is required")
	}

	profile, err := s.profiles.GetProfileByFirebaseUID(ctx, firebaseUID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	username := strings.TrimSpace(displayName)
	if username == "" {
		username = strings.Split(email, "@")[0]
	}
	if username == "" {
		username = "user"
	}
	if len(username) > 50 {
		username = username[:50]
	}

	profile = &models.Profile{
		Username:    username,
		Email:       email,
		FirebaseUID: firebaseUID,
		Level:       models.LevelBeginner,
	}
	if err := s.profiles.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}
	s.logger.Infow("profile created from firebase login", "user_id", profile.ID, "email", email)
	return profile, nil
}
