package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	ginhandler "vocalab-users/internal/adapter/gin/handler"
	"vocalab-users/internal/adapter/grpc/middleware"
	"vocalab-users/internal/config"
)

type stubProfileServer struct{}

func (s *stubProfileServer) CreateProfile(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, nil
}

func (s *stubProfileServer) GetProfile(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, nil
}

func (s *stubProfileServer) UpdateProfile(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, nil
}

func (s *stubProfileServer) DeleteProfile(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error) {
	return nil, nil
}

func (s *stubProfileServer) ListProfiles(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, nil
}

func testConfig(grpcPort, httpPort string) *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Env:                    "test",
			GRPCPort:               grpcPort,
			HTTPPort:               httpPort,
			ShutdownTimeoutSeconds: 2,
		},
		Logger: config.LoggerConfig{ServiceName: "vocalab-users"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	l := zaptest.NewLogger(t)
	limiter := middleware.NewRateLimiter(nil, middleware.RateLimiterConfig{}, l)
	return New(cfg, l, &stubProfileServer{}, limiter, ginhandler.NewProfileHandler(nil, l))
}

func TestServer_StartAndShutdown(t *testing.T) {
	srv := newTestServer(t, testConfig("0", "0"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_PortInUse(t *testing.T) {
	lis, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = lis.Close() })
	_, port, err := net.SplitHostPort(lis.Addr().String())
	require.NoError(t, err)

	srv := newTestServer(t, testConfig(port, "0"))

	err = srv.Start(context.Background())
	assert.ErrorContains(t, err, "failed to listen on gRPC address")
}
