package user

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "vocalab-users/internal/domain/user"
	pkgerrors "vocalab-users/pkg/errors"
	"vocalab-users/pkg/logger"
)

// Paging limits for ListProfiles.
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Usecase implements the business logic for profile management.
// It is the caller-side home of every rule the profile record itself does not enforce.
type Usecase struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
}

var _ Service = (*Usecase)(nil)

// New creates a new instance of Usecase with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Usecase {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &Usecase{repo: r, log: log, validate: v}
}

// formatValidationError converts validator.ValidationErrors into a single ValidationError.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return pkgerrors.NewValidationError("", strings.Join(messages, ", "))
}

// passThrough keeps typed application errors and wraps everything else as internal.
func passThrough(op string, err error) error {
	var he pkgerrors.HTTPError
	if errors.As(err, &he) {
		return err
	}
	return pkgerrors.NewInternalError("failed to "+op, err)
}

func profileNotFound(userID string) error {
	return pkgerrors.NewNotFoundError("profile", fmt.Sprintf("profile not found: user_id=%s", userID))
}

// CreateProfile validates the request, checks user id uniqueness and stores a new profile.
func (uc *Usecase) CreateProfile(ctx context.Context, in CreateProfileRequest) (*Profile, error) {
	ctx = logger.WithUserID(ctx, in.UserID)
	log := logger.WithContext(ctx, uc.log)
	log.Info("creating profile", zap.String("login_type", in.LoginType))

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	existing, err := uc.repo.GetByUserID(ctx, in.UserID)
	if err != nil {
		log.Error("failed to check existing profile", zap.Error(err))
		return nil, passThrough("validate user id uniqueness", err)
	}
	if existing != nil {
		log.Warn("profile already exists")
		return nil, pkgerrors.NewAlreadyExistsError("profile", fmt.Sprintf("profile already exists: user_id=%s", in.UserID))
	}

	p := domain.NewProfile(in.LoginType, in.UserID, in.UserName, in.UserNickname)
	if err := uc.repo.Create(ctx, &p); err != nil {
		log.Error("failed to create profile", zap.Error(err))
		return nil, passThrough("create profile", err)
	}

	out := toDTO(&p)
	return &out, nil
}

// GetProfile retrieves a profile by user id.
func (uc *Usecase) GetProfile(ctx context.Context, in GetProfileRequest) (*Profile, error) {
	ctx = logger.WithUserID(ctx, in.UserID)
	log := logger.WithContext(ctx, uc.log)

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("get profile validation failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	p, err := uc.repo.GetByUserID(ctx, in.UserID)
	if err != nil {
		log.Error("failed to get profile", zap.Error(err))
		return nil, passThrough("get profile", err)
	}
	if p == nil {
		return nil, profileNotFound(in.UserID)
	}

	out := toDTO(p)
	return &out, nil
}

// UpdateProfile applies a partial update to an existing profile.
func (uc *Usecase) UpdateProfile(ctx context.Context, in UpdateProfileRequest) (*Profile, error) {
	ctx = logger.WithUserID(ctx, in.UserID)
	log := logger.WithContext(ctx, uc.log)
	log.Info("updating profile")

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	p, err := uc.repo.GetByUserID(ctx, in.UserID)
	if err != nil {
		log.Error("failed to load profile for update", zap.Error(err))
		return nil, passThrough("update profile", err)
	}
	if p == nil {
		return nil, profileNotFound(in.UserID)
	}

	if in.LoginType != nil {
		p.SetLoginType(*in.LoginType)
	}
	if in.UserName != nil {
		p.SetUserName(*in.UserName)
	}
	if in.UserNickname != nil {
		p.SetUserNickname(*in.UserNickname)
	}

	if err := uc.repo.Update(ctx, p); err != nil {
		log.Error("failed to update profile", zap.Error(err))
		return nil, passThrough("update profile", err)
	}

	out := toDTO(p)
	return &out, nil
}

// DeleteProfile deletes a profile by user id.
func (uc *Usecase) DeleteProfile(ctx context.Context, in DeleteProfileRequest) (*DeleteProfileResponse, error) {
	ctx = logger.WithUserID(ctx, in.UserID)
	log := logger.WithContext(ctx, uc.log)
	log.Info("deleting profile")

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("delete profile validation failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	if err := uc.repo.Delete(ctx, in.UserID); err != nil {
		log.Error("failed to delete profile", zap.Error(err))
		return nil, passThrough("delete profile", err)
	}

	return &DeleteProfileResponse{UserID: in.UserID}, nil
}

// ListProfiles retrieves a page of profiles with optional search.
func (uc *Usecase) ListProfiles(ctx context.Context, in ListProfilesRequest) (*ListProfilesResponse, error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.Limit <= 0 {
		in.Limit = DefaultPageLimit
	}
	if in.Limit > MaxPageLimit {
		in.Limit = MaxPageLimit
	}

	log := logger.WithContext(ctx, uc.log)
	log.Info("listing profiles", zap.String("query", in.Query), zap.Int64("page", in.Page), zap.Int64("limit", in.Limit))

	profiles, total, err := uc.repo.List(ctx, in.Query, in.Page, in.Limit)
	if err != nil {
		log.Error("failed to list profiles", zap.String("query", in.Query), zap.Error(err))
		return nil, passThrough("list profiles", err)
	}

	out := make([]Profile, len(profiles))
	for i := range profiles {
		out[i] = toDTO(&profiles[i])
	}

	return &ListProfilesResponse{
		Profiles:   out,
		Pagination: domain.NewPagination(total, in.Page, in.Limit),
	}, nil
}
