package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "vocalab-users/internal/domain/user"
	usecase "vocalab-users/internal/usecase/user"
	pkgerrors "vocalab-users/pkg/errors"
)

// MockService is a mock implementation of user.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) CreateProfile(ctx context.Context, req usecase.CreateProfileRequest) (*usecase.Profile, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.Profile), args.Error(1)
}

func (m *MockService) GetProfile(ctx context.Context, req usecase.GetProfileRequest) (*usecase.Profile, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.Profile), args.Error(1)
}

func (m *MockService) UpdateProfile(ctx context.Context, req usecase.UpdateProfileRequest) (*usecase.Profile, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.Profile), args.Error(1)
}

func (m *MockService) DeleteProfile(ctx context.Context, req usecase.DeleteProfileRequest) (*usecase.DeleteProfileResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.DeleteProfileResponse), args.Error(1)
}

func (m *MockService) ListProfiles(ctx context.Context, req usecase.ListProfilesRequest) (*usecase.ListProfilesResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ListProfilesResponse), args.Error(1)
}

func setupTest(t *testing.T) (*gin.Engine, *MockService) {
	gin.SetMode(gin.TestMode)
	svc := new(MockService)
	h := NewProfileHandler(svc, zaptest.NewLogger(t))

	r := gin.New()
	r.POST("/profiles", h.CreateProfile)
	r.GET("/profiles", h.ListProfiles)
	r.GET("/profiles/:user_id", h.GetProfile)
	r.PATCH("/profiles/:user_id", h.UpdateProfile)
	r.DELETE("/profiles/:user_id", h.DeleteProfile)
	return r, svc
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != "" {
		buf = bytes.NewBufferString(body)
	} else {
		buf = &bytes.Buffer{}
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

var jane = &usecase.Profile{LoginType: "local", UserID: "u-1001", UserName: "Jane Doe", UserNickname: "jd"}

func TestCreateProfile(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, svc := setupTest(t)
		svc.On("CreateProfile", mock.Anything, usecase.CreateProfileRequest{
			LoginType: "local", UserID: "u-1001", UserName: "Jane Doe", UserNickname: "jd",
		}).Return(jane, nil)

		w := do(r, http.MethodPost, "/profiles",
			`{"login_type":"local","user_id":"u-1001","user_name":"Jane Doe","user_nickname":"jd"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"login_type":"local","user_id":"u-1001","user_name":"Jane Doe","user_nickname":"jd"}`, w.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("Invalid Request Body", func(t *testing.T) {
		r, svc := setupTest(t)

		w := do(r, http.MethodPost, "/profiles", "invalid json")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_body", decodeError(t, w).Error)
		svc.AssertNotCalled(t, "CreateProfile", mock.Anything, mock.Anything)
	})

	t.Run("Validation Error", func(t *testing.T) {
		r, svc := setupTest(t)
		svc.On("CreateProfile", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.NewValidationError("", "user_id is required"))

		w := do(r, http.MethodPost, "/profiles", `{"user_name":"Jane"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "validation_error", resp.Error)
		assert.Contains(t, resp.Message, "user_id is required")
	})

	t.Run("Already Exists", func(t *testing.T) {
		r, svc := setupTest(t)
		svc.On("CreateProfile", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.NewAlreadyExistsError("profile", "profile already exists: user_id=u-1001"))

		w := do(r, http.MethodPost, "/profiles", `{"user_id":"u-1001"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "already_exists", decodeError(t, w).Error)
	})

	t.Run("Usecase Error", func(t *testing.T) {
		r, svc := setupTest(t)
		svc.On("CreateProfile", mock.Anything, mock.Anything).Return(nil, errors.New("dial tcp 10.0.0.5:5432: refused"))

		w := do(r, http.MethodPost, "/profiles", `{"user_id":"u-1001"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "internal_error", resp.Error)
		assert.NotContains(t, resp.Message, "10.0.0.5")
	})
}

func TestGetProfile(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, svc := setupTest(t)
		svc.On("GetProfile", mock.Anything, usecase.GetProfileRequest{UserID: "u-1001"}).Return(jane, nil)

		w := do(r, http.MethodGet, "/profiles/u-1001", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var resp ProfileResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "jd", resp.UserNickname)
	})

	t.Run("Not Found", func(t *testing.T) {
		r, svc := setupTest(t)
		svc.On("GetProfile", mock.Anything, usecase.GetProfileRequest{UserID: "missing"}).
			Return(nil, pkgerrors.NewNotFoundError("profile", "profile not found: user_id=missing"))

		w := do(r, http.MethodGet, "/profiles/missing", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not_found", decodeError(t, w).Error)
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Run("Partial", func(t *testing.T) {
		r, svc := setupTest(t)
		svc.On("UpdateProfile", mock.Anything, mock.MatchedBy(func(req usecase.UpdateProfileRequest) bool {
			return req.UserID == "u-1001" &&
				req.UserNickname != nil && *req.UserNickname == "janed" &&
				req.UserName == nil && req.LoginType == nil
		})).Return(&usecase.Profile{LoginType: "local", UserID: "u-1001", UserName: "Jane Doe", UserNickname: "janed"}, nil)

		w := do(r, http.MethodPatch, "/profiles/u-1001", `{"user_nickname":"janed"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp ProfileResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "janed", resp.UserNickname)
		assert.Equal(t, "Jane Doe", resp.UserName)
		svc.AssertExpectations(t)
	})

	t.Run("Invalid Request Body", func(t *testing.T) {
		r, _ := setupTest(t)

		w := do(r, http.MethodPatch, "/profiles/u-1001", `{"user_nickname":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteProfile(t *testing.T) {
	r, svc := setupTest(t)
	svc.On("DeleteProfile", mock.Anything, usecase.DeleteProfileRequest{UserID: "u-1001"}).
		Return(&usecase.DeleteProfileResponse{UserID: "u-1001"}, nil)

	w := do(r, http.MethodDelete, "/profiles/u-1001", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"u-1001"}`, w.Body.String())
}

func TestListProfiles(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, svc := setupTest(t)
		svc.On("ListProfiles", mock.Anything, usecase.ListProfilesRequest{Query: "jane", Page: 2, Limit: 1}).
			Return(&usecase.ListProfilesResponse{
				Profiles:   []usecase.Profile{*jane},
				Pagination: domain.NewPagination(3, 2, 1),
			}, nil)

		w := do(r, http.MethodGet, "/profiles?query=jane&page=2&limit=1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var resp ListProfilesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Profiles, 1)
		assert.Equal(t, "u-1001", resp.Profiles[0].UserID)
		assert.Equal(t, &Pagination{Total: 3, Page: 2, Limit: 1, TotalPages: 3}, resp.Pagination)
	})

	t.Run("Unparseable Paging Falls Back", func(t *testing.T) {
		r, svc := setupTest(t)
		svc.On("ListProfiles", mock.Anything, usecase.ListProfilesRequest{}).
			Return(&usecase.ListProfilesResponse{Profiles: []usecase.Profile{}, Pagination: domain.NewPagination(0, 1, 10)}, nil)

		w := do(r, http.MethodGet, "/profiles?page=abc&limit=xyz", "")

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Invalid Query", func(t *testing.T) {
		r, svc := setupTest(t)
		svc.On("ListProfiles", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.NewValidationError("query", "search query contains invalid characters"))

		w := do(r, http.MethodGet, "/profiles?query=%3Cscript%3E", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
