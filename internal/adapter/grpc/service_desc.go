package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "vocalab.users.v1.ProfileService"

// Full method names, as seen by interceptors.
const (
	CreateProfileMethod = "/" + ServiceName + "/CreateProfile"
	GetProfileMethod    = "/" + ServiceName + "/GetProfile"
	UpdateProfileMethod = "/" + ServiceName + "/UpdateProfile"
	DeleteProfileMethod = "/" + ServiceName + "/DeleteProfile"
	ListProfilesMethod  = "/" + ServiceName + "/ListProfiles"
)

// ProfileServiceServer is the server API for the profile service.
// Messages are protobuf well-known types, so no generated code is required.
type ProfileServiceServer interface {
	CreateProfile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProfile(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	UpdateProfile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteProfile(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	ListProfiles(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ProfileService_ServiceDesc is the grpc.ServiceDesc for the profile service.
var ProfileService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProfileServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("CreateProfile", newStruct, ProfileServiceServer.CreateProfile),
		unary("GetProfile", newStringValue, ProfileServiceServer.GetProfile),
		unary("UpdateProfile", newStruct, ProfileServiceServer.UpdateProfile),
		unary("DeleteProfile", newStringValue, ProfileServiceServer.DeleteProfile),
		unary("ListProfiles", newStruct, ProfileServiceServer.ListProfiles),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vocalab/users/v1/profile.proto",
}

// RegisterProfileServiceServer registers srv on s.
func RegisterProfileServiceServer(s grpc.ServiceRegistrar, srv ProfileServiceServer) {
	s.RegisterService(&ProfileService_ServiceDesc, srv)
}

func newStruct() *structpb.Struct             { return new(structpb.Struct) }
func newStringValue() *wrapperspb.StringValue { return new(wrapperspb.StringValue) }

// unary builds a MethodDesc that decodes into a fresh Req and runs the interceptor chain.
func unary[Req proto.Message, Resp proto.Message](
	name string,
	newReq func() Req,
	call func(ProfileServiceServer, context.Context, Req) (Resp, error),
) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := newReq()
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(ProfileServiceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ProfileServiceClient is the client API for the profile service.
type ProfileServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewProfileServiceClient creates a client on top of cc.
func NewProfileServiceClient(cc grpc.ClientConnInterface) *ProfileServiceClient {
	return &ProfileServiceClient{cc: cc}
}

func (c *ProfileServiceClient) CreateProfile(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, CreateProfileMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProfileServiceClient) GetProfile(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetProfileMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProfileServiceClient) UpdateProfile(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, UpdateProfileMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProfileServiceClient) DeleteProfile(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, DeleteProfileMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProfileServiceClient) ListProfiles(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ListProfilesMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
