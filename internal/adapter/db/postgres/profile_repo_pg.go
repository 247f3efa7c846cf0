package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"vocalab-users/internal/domain/user"
	pkgerrors "vocalab-users/pkg/errors"
	"vocalab-users/pkg/security"
)

// ProfileRepoPG implements the profile Repository using GORM.
// It runs against PostgreSQL in production and SQLite in tests or single-node setups.
type ProfileRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewProfileRepoPG creates a new instance of ProfileRepoPG.
func NewProfileRepoPG(db *gorm.DB, log *zap.Logger) *ProfileRepoPG {
	return &ProfileRepoPG{db: db, log: log}
}

// ProfileSchema represents the database schema for the user_profiles table.
type ProfileSchema struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	UserID       string `gorm:"size:64;not null;uniqueIndex"`
	LoginType    string `gorm:"size:32;not null;default:''"`
	UserName     string `gorm:"size:100;not null;default:''"`
	UserNickname string `gorm:"size:100;not null;default:''"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for the ProfileSchema model.
func (ProfileSchema) TableName() string {
	return "user_profiles"
}

func (m ProfileSchema) toDomain() user.Profile {
	return user.NewProfile(m.LoginType, m.UserID, m.UserName, m.UserNickname)
}

func schemaFromDomain(p *user.Profile) ProfileSchema {
	return ProfileSchema{
		UserID:       p.UserID(),
		LoginType:    p.LoginType(),
		UserName:     p.UserName(),
		UserNickname: p.UserNickname(),
	}
}

// Migrate creates or updates the user_profiles table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&ProfileSchema{})
}

// Create inserts a new profile.
func (r *ProfileRepoPG) Create(ctx context.Context, p *user.Profile) error {
	if p == nil {
		return errors.New("profile cannot be nil")
	}

	model := schemaFromDomain(p)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			r.log.Warn("profile already exists in db", zap.String("user_id", p.UserID()))
			return pkgerrors.NewAlreadyExistsError("profile", fmt.Sprintf("profile already exists: user_id=%s", p.UserID()))
		}
		r.log.Error("failed to create profile in db", zap.Error(err), zap.String("user_id", p.UserID()))
		return fmt.Errorf("failed to create profile: %w", err)
	}

	r.log.Info("profile created in db", zap.Int64("row_id", model.ID), zap.String("user_id", model.UserID))
	return nil
}

// GetByUserID retrieves a profile by user id. It returns (nil, nil) when none exists.
func (r *ProfileRepoPG) GetByUserID(ctx context.Context, userID string) (*user.Profile, error) {
	var model ProfileSchema
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("profile not found", zap.String("user_id", userID))
			return nil, nil
		}
		r.log.Error("failed to get profile from db", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	p := model.toDomain()
	return &p, nil
}

// Update replaces the login type, name and nickname of an existing profile.
func (r *ProfileRepoPG) Update(ctx context.Context, p *user.Profile) error {
	if p == nil {
		return errors.New("profile cannot be nil")
	}

	// A map is used so that empty strings are written too.
	res := r.db.WithContext(ctx).
		Model(&ProfileSchema{}).
		Where("user_id = ?", p.UserID()).
		Updates(map[string]any{
			"login_type":    p.LoginType(),
			"user_name":     p.UserName(),
			"user_nickname": p.UserNickname(),
		})
	if res.Error != nil {
		r.log.Error("failed to update profile in db", zap.Error(res.Error), zap.String("user_id", p.UserID()))
		return fmt.Errorf("failed to update profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(p.UserID())
	}

	r.log.Info("profile updated in db", zap.String("user_id", p.UserID()))
	return nil
}

// Delete removes a profile by user id.
func (r *ProfileRepoPG) Delete(ctx context.Context, userID string) error {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&ProfileSchema{})
	if res.Error != nil {
		r.log.Error("failed to delete profile in db", zap.Error(res.Error), zap.String("user_id", userID))
		return fmt.Errorf("failed to delete profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(userID)
	}

	r.log.Info("profile deleted in db", zap.String("user_id", userID))
	return nil
}

// List returns one page of profiles whose user id, name or nickname contains
// query (case-insensitive), together with the total number of matches.
func (r *ProfileRepoPG) List(ctx context.Context, query string, page, limit int64) ([]user.Profile, int64, error) {
	cleaned, err := security.ValidateSearchQuery(query)
	if err != nil {
		r.log.Warn("rejected search query", zap.String("query", query), zap.Error(err))
		return nil, 0, pkgerrors.NewValidationError("query", err.Error())
	}
	query = cleaned

	tx := r.db.WithContext(ctx).Model(&ProfileSchema{})
	if query != "" {
		pattern := "%" + strings.ToLower(security.SanitizeSearchString(query)) + "%"
		tx = tx.Where(
			`LOWER(user_id) LIKE ? ESCAPE '\' OR LOWER(user_name) LIKE ? ESCAPE '\' OR LOWER(user_nickname) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern,
		)
	}
	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		r.log.Error("failed to count profiles", zap.Error(err), zap.String("query", query))
		return nil, 0, fmt.Errorf("failed to count profiles: %w", err)
	}

	var models []ProfileSchema
	if err := tx.Order("id ASC").Offset(int((page - 1) * limit)).Limit(int(limit)).Find(&models).Error; err != nil {
		r.log.Error("failed to list profiles from db", zap.Error(err), zap.String("query", query), zap.Int64("page", page), zap.Int64("limit", limit))
		return nil, 0, fmt.Errorf("failed to list profiles: %w", err)
	}

	profiles := make([]user.Profile, len(models))
	for i, model := range models {
		profiles[i] = model.toDomain()
	}

	return profiles, total, nil
}

func notFound(userID string) error {
	return pkgerrors.NewNotFoundError("profile", fmt.Sprintf("profile not found: user_id=%s", userID))
}
