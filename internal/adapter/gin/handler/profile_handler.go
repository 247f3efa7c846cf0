package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vocalab-users/internal/usecase/user"
	pkgerrors "vocalab-users/pkg/errors"
	"vocalab-users/pkg/logger"
)

// ProfileHandler handles HTTP requests for profile operations
type ProfileHandler struct {
	svc user.Service
	log *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler instance
func NewProfileHandler(svc user.Service, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		svc: svc,
		log: log,
	}
}

// CreateProfileRequest represents the HTTP request body for creating a profile
type CreateProfileRequest struct {
	LoginType    string `json:"login_type"`
	UserID       string `json:"user_id"`
	UserName     string `json:"user_name"`
	UserNickname string `json:"user_nickname"`
}

// UpdateProfileRequest represents the HTTP request body for a partial update.
// Omitted or null fields keep their stored value.
type UpdateProfileRequest struct {
	LoginType    *string `json:"login_type"`
	UserName     *string `json:"user_name"`
	UserNickname *string `json:"user_nickname"`
}

// ProfileResponse represents the HTTP response for profile data
type ProfileResponse struct {
	LoginType    string `json:"login_type"`
	UserID       string `json:"user_id"`
	UserName     string `json:"user_name"`
	UserNickname string `json:"user_nickname"`
}

// ListProfilesResponse represents the HTTP response for listing profiles
type ListProfilesResponse struct {
	Profiles   []ProfileResponse `json:"profiles"`
	Pagination *Pagination       `json:"pagination,omitempty"`
}

// Pagination represents pagination information
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	TotalPages int64 `json:"total_pages"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func toResponse(p *user.Profile) ProfileResponse {
	return ProfileResponse{
		LoginType:    p.LoginType,
		UserID:       p.UserID,
		UserName:     p.UserName,
		UserNickname: p.UserNickname,
	}
}

// CreateProfile handles POST /v1/profiles
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.WithContext(ctx, h.log)

	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid create profile request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_body",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.svc.CreateProfile(ctx, user.CreateProfileRequest{
		LoginType:    req.LoginType,
		UserID:       req.UserID,
		UserName:     req.UserName,
		UserNickname: req.UserNickname,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toResponse(resp))
}

// GetProfile handles GET /v1/profiles/:user_id
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	resp, err := h.svc.GetProfile(c.Request.Context(), user.GetProfileRequest{UserID: c.Param("user_id")})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(resp))
}

// UpdateProfile handles PATCH /v1/profiles/:user_id
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("user_id")

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WithContext(ctx, h.log).Warn("invalid update profile request", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_body",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.svc.UpdateProfile(ctx, user.UpdateProfileRequest{
		UserID:       userID,
		LoginType:    req.LoginType,
		UserName:     req.UserName,
		UserNickname: req.UserNickname,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(resp))
}

// DeleteProfile handles DELETE /v1/profiles/:user_id
func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	resp, err := h.svc.DeleteProfile(c.Request.Context(), user.DeleteProfileRequest{UserID: c.Param("user_id")})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": resp.UserID,
	})
}

// ListProfiles handles GET /v1/profiles
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	// Unparseable paging values fall back to the use case defaults.
	page, _ := strconv.ParseInt(c.Query("page"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)

	resp, err := h.svc.ListProfiles(c.Request.Context(), user.ListProfilesRequest{
		Query: c.Query("query"),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	profiles := make([]ProfileResponse, len(resp.Profiles))
	for i := range resp.Profiles {
		profiles[i] = toResponse(&resp.Profiles[i])
	}

	var pagination *Pagination
	if resp.Pagination != nil {
		pagination = &Pagination{
			Total:      resp.Pagination.Total,
			Page:       resp.Pagination.Page,
			Limit:      resp.Pagination.Limit,
			TotalPages: resp.Pagination.TotalPages,
		}
	}

	c.JSON(http.StatusOK, ListProfilesResponse{
		Profiles:   profiles,
		Pagination: pagination,
	})
}

// handleError converts use case errors to HTTP responses
func (h *ProfileHandler) handleError(c *gin.Context, err error) {
	code := pkgerrors.HTTPStatusOf(err)
	log := logger.WithContext(c.Request.Context(), h.log)
	if code >= http.StatusInternalServerError {
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	} else {
		log.Info("request rejected", zap.String("path", c.FullPath()), zap.Int("status", code), zap.Error(err))
	}

	c.JSON(code, ErrorResponse{
		Error:   pkgerrors.CodeOf(err),
		Message: pkgerrors.PublicMessage(err),
	})
}
