package grpc

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	domain "vocalab-users/internal/domain/user"
	"vocalab-users/internal/usecase/user"
	pkgerrors "vocalab-users/pkg/errors"
	"vocalab-users/pkg/logger"
)

// Struct keys used on the wire.
const (
	fieldLoginType    = "login_type"
	fieldUserID       = "user_id"
	fieldUserName     = "user_name"
	fieldUserNickname = "user_nickname"
	fieldQuery        = "query"
	fieldPage         = "page"
	fieldLimit        = "limit"
)

var profileFields = map[string]bool{
	fieldLoginType:    true,
	fieldUserID:       true,
	fieldUserName:     true,
	fieldUserNickname: true,
}

// ProfileServer implements ProfileServiceServer on top of the profile use case.
type ProfileServer struct {
	svc user.Service
	log *zap.Logger
}

var _ ProfileServiceServer = (*ProfileServer)(nil)

// NewProfileServer creates a new gRPC profile server.
func NewProfileServer(svc user.Service, log *zap.Logger) *ProfileServer {
	return &ProfileServer{svc: svc, log: log}
}

// CreateProfile handles gRPC CreateProfile request
func (s *ProfileServer) CreateProfile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields, err := profileFieldsOf(req)
	if err != nil {
		logger.WithContext(ctx, s.log).Debug("rejecting create request", zap.Error(err))
		return nil, err
	}

	p, err := s.svc.CreateProfile(ctx, user.CreateProfileRequest{
		LoginType:    deref(fields[fieldLoginType]),
		UserID:       deref(fields[fieldUserID]),
		UserName:     deref(fields[fieldUserName]),
		UserNickname: deref(fields[fieldUserNickname]),
	})
	if err != nil {
		return nil, err
	}

	return profileToStruct(p)
}

// GetProfile handles gRPC GetProfile request
func (s *ProfileServer) GetProfile(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	p, err := s.svc.GetProfile(ctx, user.GetProfileRequest{UserID: req.GetValue()})
	if err != nil {
		return nil, err
	}

	return profileToStruct(p)
}

// UpdateProfile handles gRPC UpdateProfile request.
// Keys that are absent or null keep their stored value.
func (s *ProfileServer) UpdateProfile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields, err := profileFieldsOf(req)
	if err != nil {
		logger.WithContext(ctx, s.log).Debug("rejecting update request", zap.Error(err))
		return nil, err
	}

	p, err := s.svc.UpdateProfile(ctx, user.UpdateProfileRequest{
		UserID:       deref(fields[fieldUserID]),
		LoginType:    fields[fieldLoginType],
		UserName:     fields[fieldUserName],
		UserNickname: fields[fieldUserNickname],
	})
	if err != nil {
		return nil, err
	}

	return profileToStruct(p)
}

// DeleteProfile handles gRPC DeleteProfile request
func (s *ProfileServer) DeleteProfile(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if _, err := s.svc.DeleteProfile(ctx, user.DeleteProfileRequest{UserID: req.GetValue()}); err != nil {
		return nil, err
	}

	return &emptypb.Empty{}, nil
}

// ListProfiles handles gRPC ListProfiles request
func (s *ProfileServer) ListProfiles(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in := user.ListProfilesRequest{}
	for key, v := range req.GetFields() {
		var err error
		switch key {
		case fieldQuery:
			var q *string
			q, err = stringValue(key, v)
			in.Query = deref(q)
		case fieldPage:
			in.Page, err = intValue(key, v)
		case fieldLimit:
			in.Limit, err = intValue(key, v)
		default:
			err = pkgerrors.NewValidationError(key, "unknown field")
		}
		if err != nil {
			return nil, err
		}
	}

	resp, err := s.svc.ListProfiles(ctx, in)
	if err != nil {
		return nil, err
	}

	profiles := make([]any, len(resp.Profiles))
	for i := range resp.Profiles {
		profiles[i] = profileMap(&resp.Profiles[i])
	}

	return structpb.NewStruct(map[string]any{
		"profiles":   profiles,
		"pagination": paginationMap(resp.Pagination),
	})
}

// profileFieldsOf reads the four profile keys of req. Absent or null keys map to nil.
func profileFieldsOf(req *structpb.Struct) (map[string]*string, error) {
	out := make(map[string]*string, len(profileFields))
	for key, v := range req.GetFields() {
		if !profileFields[key] {
			return nil, pkgerrors.NewValidationError(key, "unknown field")
		}
		s, err := stringValue(key, v)
		if err != nil {
			return nil, err
		}
		out[key] = s
	}
	return out, nil
}

func stringValue(key string, v *structpb.Value) (*string, error) {
	switch k := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return nil, nil
	case *structpb.Value_StringValue:
		s := k.StringValue
		return &s, nil
	default:
		return nil, pkgerrors.NewValidationError(key, "must be a string")
	}
}

func intValue(key string, v *structpb.Value) (int64, error) {
	switch k := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return 0, nil
	case *structpb.Value_NumberValue:
		n := k.NumberValue
		if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
			return 0, pkgerrors.NewValidationError(key, fmt.Sprintf("must be an integer, got %v", n))
		}
		return int64(n), nil
	default:
		return 0, pkgerrors.NewValidationError(key, "must be a number")
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func profileMap(p *user.Profile) map[string]any {
	return map[string]any{
		fieldLoginType:    p.LoginType,
		fieldUserID:       p.UserID,
		fieldUserName:     p.UserName,
		fieldUserNickname: p.UserNickname,
	}
}

func profileToStruct(p *user.Profile) (*structpb.Struct, error) {
	return structpb.NewStruct(profileMap(p))
}

func paginationMap(p *domain.Pagination) map[string]any {
	if p == nil {
		return map[string]any{}
	}
	return map[string]any{
		"total":       p.Total,
		"page":        p.Page,
		"limit":       p.Limit,
		"total_pages": p.TotalPages,
	}
}
