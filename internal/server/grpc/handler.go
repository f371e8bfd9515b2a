package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/rpc"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

func (s *GRPCServer) SignUp(ctx context.Context, req *rpc.SignUpRequest) (*rpc.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	pair, err := s.auth.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, "signup", err)
	}

	s.logger.Info(ctx, "Signed up")
	return toTokenResponse(pair), nil
}

func (s *GRPCServer) SignIn(ctx context.Context, req *rpc.SignInRequest) (*rpc.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	pair, err := s.auth.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, "signin", err)
	}

	return toTokenResponse(pair), nil
}

func (s *GRPCServer) Refresh(ctx context.Context, req *rpc.RefreshRequest) (*rpc.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	pair, err := s.auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, "refresh", err)
	}

	return toTokenResponse(pair), nil
}

func (s *GRPCServer) Me(ctx context.Context, _ *rpc.MeRequest) (*rpc.MeResponse, error) {
	claims, ok := claimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, common.ErrUnauthorized.Error())
	}

	resp := &rpc.MeResponse{AccountID: claims.AccountID(), Email: claims.Email}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return resp, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *rpc.PingRequest) (*rpc.PingResponse, error) {
	return &rpc.PingResponse{Status: "OK"}, nil
}

func toTokenResponse(p *models.TokenPair) *rpc.TokenResponse {
	return &rpc.TokenResponse{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
}

// toStatus maps auth outcomes to gRPC codes. Account-facing failures keep
// their message; anything unrecognised is logged and hidden behind Internal.
func (s *GRPCServer) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, common.ErrDuplicateCredential):
		return status.Error(codes.AlreadyExists, common.ErrDuplicateCredential.Error())
	case errors.Is(err, common.ErrInvalidCredential):
		return status.Error(codes.PermissionDenied, common.ErrInvalidCredential.Error())
	case errors.Is(err, common.ErrInvalidOrExpiredToken):
		return status.Error(codes.Unauthenticated, common.ErrInvalidOrExpiredToken.Error())
	case errors.Is(err, common.ErrUnauthorized):
		return status.Error(codes.Unauthenticated, common.ErrUnauthorized.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	s.logger.Error(ctx, op+" failed", logging.ErrorAttrs(err)...)
	return status.Error(codes.Internal, "internal error")
}
