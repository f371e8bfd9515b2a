// Package grpc exposes the auth service over gRPC.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/rpc"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// authService is the part of services.AuthService the transport calls.
type authService interface {
	SignUp(ctx context.Context, email, password string) (*models.TokenPair, error)
	SignIn(ctx context.Context, email, password string) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Authenticate(ctx context.Context, accessToken string) (*auth.Claims, error)
}

type GRPCServer struct {
	rpc.UnimplementedAuthServiceServer
	address string
	auth    authService
	metrics *metrics.Metrics
	logger  logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, as authService, m *metrics.Metrics) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		auth:    as,
		metrics: m,
	}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx is cancelled, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.metricsInterceptor, s.accessTokenInterceptor))
	rpc.RegisterAuthServiceServer(srv, s)
	return srv
}
