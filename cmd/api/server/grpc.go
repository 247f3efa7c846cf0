package server

import (
	"go.uber.org/zap"
	"google.golang.org/grpc"

	grpcadapter "vocalab-users/internal/adapter/grpc"
	"vocalab-users/internal/adapter/grpc/middleware"
	"vocalab-users/pkg/logger"
)

// SetupGRPC creates and configures the gRPC server
func SetupGRPC(profileServer grpcadapter.ProfileServiceServer, l *zap.Logger, rateLimiter *middleware.RateLimiter) *grpc.Server {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logger.RequestIDInterceptor(),
			rateLimiter.UnaryInterceptor(),
		),
	)
	grpcadapter.RegisterProfileServiceServer(grpcServer, profileServer)

	l.Info("gRPC service registered", zap.String("service", grpcadapter.ServiceName))
	return grpcServer
}
