package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/rpc"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// protectedMethods need a valid access token in the call metadata.
var protectedMethods = map[string]bool{
	rpc.MeMethod: true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !protectedMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	claims, err := s.auth.Authenticate(ctx, accessToken)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, common.ErrUnauthorized.Error())
	}

	return handler(context.WithValue(ctx, claimsKey, claims), req)
}

// claimsFromContext returns the claims stored by accessTokenInterceptor.
func claimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	return c, ok
}

func (s *GRPCServer) metricsInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	if s.metrics != nil {
		s.metrics.ObserveRPC(info.FullMethod, status.Code(err).String(), time.Since(start))
	}
	return resp, err
}
