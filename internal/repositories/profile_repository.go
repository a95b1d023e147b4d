package repositories

import (
	"context"
	"time"

	"github.com/anonto42/ideahub/backend/internal/apperr"
	"github.com/anonto42/ideahub/backend/internal/gamification"
	"github.com/anonto42/ideahub/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	CreateProfile(ctx context.Context, profile *models.Profile) error
	GetProfileByID(ctx context.Context, id string) (*models.Profile, error)
	GetProfileByFirebaseUID(ctx context.Context, firebaseUID string) (*models.Profile, error)
	GetProfilesByIDs(ctx context.Context, ids []string) ([]models.Profile, error)
	UpdateProfile(ctx context.Context, profile *models.Profile) error
	AddPoints(ctx context.Context, userID string, delta int) (*models.Profile, error)
}

// PostgresProfileRepository implements ProfileRepository for PostgreSQL
type PostgresProfileRepository struct {
	db *gorm.DB
}

// NewPostgresProfileRepository creates a new PostgresProfileRepository
func NewPostgresProfileRepository(db *gorm.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) CreateProfile(ctx context.Context, profile *models.Profile) error {
	return translate("create profile", conn(ctx, r.db).Create(profile).Error, "")
}

func (r *PostgresProfileRepository) GetProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	if err := conn(ctx, r.db).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, translate("get profile", err, "Profile not found")
	}
	return &profile, nil
}

func (r *PostgresProfileRepository) GetProfileByFirebaseUID(ctx context.Context, firebaseUID string) (*models.Profile, error) {
	var profile models.Profile
	if err := conn(ctx, r.db).Where("firebase_uid = ?", firebaseUID).First(&profile).Error; err != nil {
		return nil, translate("get profile by firebase uid", err, "Profile not found")
	}
	return &profile, nil
}

func (r *PostgresProfileRepository) GetProfilesByIDs(ctx context.Context, ids []string) ([]models.Profile, error) {
	var profiles []models.Profile
	if len(ids) == 0 {
		return profiles, nil
	}
	if err := conn(ctx, r.db).Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, translate("get profiles", err, "")
	}
	return profiles, nil
}

// UpdateProfile writes the editable columns only. Points and level are left
// to AddPoints.
func (r *PostgresProfileRepository) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	res := conn(ctx, r.db).Model(&models.Profile{}).Where("id = ?", profile.ID).
		Updates(map[string]interface{}{
			"username":   profile.Username,
			"avatar_url": profile.AvatarURL,
			"email":      profile.Email,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return translate("update profile", res.Error, "")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("update profile", "Profile not found")
	}
	return nil
}

// AddPoints increments points and recomputes the level in one UPDATE so
// concurrent awards never overwrite each other.
func (r *PostgresProfileRepository) AddPoints(ctx context.Context, userID string, delta int) (*models.Profile, error) {
	levelSQL, n := gamification.LevelCaseSQL("points + ?")
	args := make([]interface{}, n)
	for i := range args {
		args[i] = delta
	}

	var profile models.Profile
	res := conn(ctx, r.db).Model(&profile).
		Clauses(clause.Returning{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"points":     gorm.Expr("points + ?", delta),
			"level":      gorm.Expr(levelSQL, args...),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, translate("add points", res.Error, "")
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("add points", "Profile not found")
	}
	return &profile, nil
}
