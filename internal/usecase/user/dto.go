package user

import domain "vocalab-users/internal/domain/user"

// CreateProfileRequest represents the request payload for creating a profile.
type CreateProfileRequest struct {
	LoginType    string `json:"login_type" validate:"max=32"`
	UserID       string `json:"user_id" validate:"required,max=64"`
	UserName     string `json:"user_name" validate:"max=100"`
	UserNickname string `json:"user_nickname" validate:"max=100"`
}

// UpdateProfileRequest represents a partial update. Nil fields keep their stored value;
// a non-nil empty string clears the field.
type UpdateProfileRequest struct {
	UserID       string  `json:"user_id" validate:"required,max=64"`
	LoginType    *string `json:"login_type" validate:"omitempty,max=32"`
	UserName     *string `json:"user_name" validate:"omitempty,max=100"`
	UserNickname *string `json:"user_nickname" validate:"omitempty,max=100"`
}

// GetProfileRequest represents the request payload for retrieving a profile.
type GetProfileRequest struct {
	UserID string `json:"user_id" validate:"required,max=64"`
}

// DeleteProfileRequest represents the request payload for deleting a profile.
type DeleteProfileRequest struct {
	UserID string `json:"user_id" validate:"required,max=64"`
}

// DeleteProfileResponse represents the response payload after deleting a profile.
type DeleteProfileResponse struct {
	UserID string
}

// ListProfilesRequest represents the request payload for listing profiles.
// It supports pagination and search over user id, name and nickname.
type ListProfilesRequest struct {
	Query string
	Page  int64
	Limit int64
}

// ListProfilesResponse represents the response payload for profile listing.
type ListProfilesResponse struct {
	Profiles   []Profile
	Pagination *domain.Pagination
}

// Profile is the profile DTO returned by every use case operation.
type Profile struct {
	LoginType    string
	UserID       string
	UserName     string
	UserNickname string
}

func toDTO(p *domain.Profile) Profile {
	return Profile{
		LoginType:    p.LoginType(),
		UserID:       p.UserID(),
		UserName:     p.UserName(),
		UserNickname: p.UserNickname(),
	}
}
