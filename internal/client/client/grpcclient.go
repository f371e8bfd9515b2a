package client

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/rpc"
)

// Tokens is the pair last handed out by the server.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      rpc.AuthServiceClient

	mu     sync.Mutex
	tokens Tokens
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor attaches the current access token. When a call is
// rejected as unauthorized and a refresh token is known, the pair is
// refreshed once and the call retried.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	tokens := s.Tokens()

	err := invoker(withAccessToken(ctx, tokens.AccessToken), method, req, reply, cc, opts...)
	if err == nil || method == rpc.RefreshMethod {
		return err
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrUnauthorized.Error() {
		return err
	}
	if tokens.RefreshToken == "" {
		return err
	}

	if rerr := s.Refresh(ctx); rerr != nil {
		return err
	}

	return invoker(withAccessToken(ctx, s.Tokens().AccessToken), method, req, reply, cc, opts...)
}

// NewGRPCClient dials endpointURL lazily; no traffic happens until the
// first call.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = rpc.NewAuthServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

// Tokens returns a copy of the current token pair.
func (s *GRPCClient) Tokens() Tokens {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens
}

// SetTokens replaces the token pair, e.g. with one saved from an earlier run.
func (s *GRPCClient) SetTokens(t Tokens) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = t
}

func (s *GRPCClient) storeResponse(resp *rpc.TokenResponse) Tokens {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens.AccessToken = resp.AccessToken
	// An access-only refresh keeps the refresh token that is still live.
	if resp.RefreshToken != "" {
		s.tokens.RefreshToken = resp.RefreshToken
	}
	return s.tokens
}

func (s *GRPCClient) SignUp(ctx context.Context, email, password string) (Tokens, error) {
	resp, err := s.client.SignUp(ctx, &rpc.SignUpRequest{Email: email, Password: password})
	if err != nil {
		return Tokens{}, s.mapError(err)
	}
	return s.storeResponse(resp), nil
}

func (s *GRPCClient) SignIn(ctx context.Context, email, password string) (Tokens, error) {
	resp, err := s.client.SignIn(ctx, &rpc.SignInRequest{Email: email, Password: password})
	if err != nil {
		return Tokens{}, s.mapError(err)
	}
	return s.storeResponse(resp), nil
}

// Refresh exchanges the stored refresh token. The stored refresh token is
// replaced only when the server rotated it.
func (s *GRPCClient) Refresh(ctx context.Context) error {
	refreshToken := s.Tokens().RefreshToken
	if refreshToken == "" {
		return ErrNoSession
	}

	resp, err := s.client.Refresh(ctx, &rpc.RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return s.mapError(err)
	}
	s.storeResponse(resp)
	return nil
}

// Me returns the claims of the current access token as the server sees them.
func (s *GRPCClient) Me(ctx context.Context) (*rpc.MeResponse, error) {
	if s.Tokens().AccessToken == "" {
		return nil, ErrNoSession
	}

	resp, err := s.client.Me(ctx, &rpc.MeRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &rpc.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}
	switch st.Code() {
	case codes.AlreadyExists:
		return common.ErrDuplicateCredential
	case codes.PermissionDenied:
		return common.ErrInvalidCredential
	case codes.Unauthenticated:
		if st.Message() == common.ErrInvalidOrExpiredToken.Error() {
			return common.ErrInvalidOrExpiredToken
		}
		return ErrUnauthorized
	case codes.InvalidArgument:
		return fmt.Errorf("invalid request: %s", st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
