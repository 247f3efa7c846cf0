package user

import (
	"context"

	domain "vocalab-users/internal/domain/user"
)

// Service defines the interface for profile business logic operations.
// Transports depend on it rather than on *Usecase.
type Service interface {
	CreateProfile(ctx context.Context, in CreateProfileRequest) (*Profile, error)
	GetProfile(ctx context.Context, in GetProfileRequest) (*Profile, error)
	UpdateProfile(ctx context.Context, in UpdateProfileRequest) (*Profile, error)
	DeleteProfile(ctx context.Context, in DeleteProfileRequest) (*DeleteProfileResponse, error)
	ListProfiles(ctx context.Context, in ListProfilesRequest) (*ListProfilesResponse, error)
}

// Repository defines the interface for profile data access operations.
type Repository interface {
	Create(ctx context.Context, p *domain.Profile) error                                        // Create a new profile
	GetByUserID(ctx context.Context, userID string) (*domain.Profile, error)                    // Retrieve by user id, nil when absent
	Update(ctx context.Context, p *domain.Profile) error                                        // Replace mutable fields
	Delete(ctx context.Context, userID string) error                                            // Delete by user id
	List(ctx context.Context, query string, page, limit int64) ([]domain.Profile, int64, error) // Page of matches plus total
}
