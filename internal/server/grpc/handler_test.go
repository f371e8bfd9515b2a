package grpc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/rpc"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type fakeAuth struct {
	pair   *models.TokenPair
	err    error
	claims *auth.Claims
	calls  int
}

func (f *fakeAuth) SignUp(context.Context, string, string) (*models.TokenPair, error) {
	f.calls++
	return f.pair, f.err
}

func (f *fakeAuth) SignIn(context.Context, string, string) (*models.TokenPair, error) {
	f.calls++
	return f.pair, f.err
}

func (f *fakeAuth) Refresh(context.Context, string) (*models.TokenPair, error) {
	f.calls++
	return f.pair, f.err
}

func (f *fakeAuth) Authenticate(context.Context, string) (*auth.Claims, error) {
	if f.claims == nil {
		return nil, common.ErrUnauthorized
	}
	return f.claims, nil
}

func newServer(a authService) *GRPCServer {
	return NewGRPCServer("127.0.0.1:0", logging.Nop{}, a, nil)
}

func TestHandlers_Success(t *testing.T) {
	pair := &models.TokenPair{AccessToken: "a", RefreshToken: "r"}
	s := newServer(&fakeAuth{pair: pair})
	ctx := context.Background()

	resp, err := s.SignUp(ctx, &rpc.SignUpRequest{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, &rpc.TokenResponse{AccessToken: "a", RefreshToken: "r"}, resp)

	resp, err = s.SignIn(ctx, &rpc.SignInRequest{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "r", resp.RefreshToken)

	resp, err = s.Refresh(ctx, &rpc.RefreshRequest{RefreshToken: "r"})
	require.NoError(t, err)
	assert.Equal(t, "a", resp.AccessToken)

	ping, err := s.Ping(ctx, &rpc.PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", ping.Status)
}

func TestHandlers_InvalidArgument(t *testing.T) {
	fa := &fakeAuth{}
	s := newServer(fa)
	ctx := context.Background()

	calls := []func() error{
		func() error { _, err := s.SignUp(ctx, &rpc.SignUpRequest{Email: "bad", Password: "pw"}); return err },
		func() error { _, err := s.SignUp(ctx, &rpc.SignUpRequest{Email: "a@x.com"}); return err },
		func() error { _, err := s.SignIn(ctx, &rpc.SignInRequest{Password: "pw"}); return err },
		func() error { _, err := s.Refresh(ctx, &rpc.RefreshRequest{}); return err },
	}
	for i, call := range calls {
		err := call()
		assert.Equal(t, codes.InvalidArgument, status.Code(err), "call %d", i)
	}
	assert.Zero(t, fa.calls, "service must not be reached with invalid input")
}

func TestHandlers_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    codes.Code
		message string
	}{
		{"duplicate", common.ErrDuplicateCredential, codes.AlreadyExists, "Credentials taken"},
		{"invalid credential", common.ErrInvalidCredential, codes.PermissionDenied, "Credentials incorrect"},
		{"invalid refresh", common.ErrInvalidOrExpiredToken, codes.Unauthenticated, "Invalid refresh token"},
		{"unauthorized", common.ErrUnauthorized, codes.Unauthenticated, "unauthorized"},
		{"canceled", context.Canceled, codes.Canceled, context.Canceled.Error()},
		{"infrastructure", errors.New("db password is hunter2"), codes.Internal, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newServer(&fakeAuth{err: tt.err})
			_, err := s.SignIn(context.Background(), &rpc.SignInRequest{Email: "a@x.com", Password: "pw"})

			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, st.Code())
			assert.Equal(t, tt.message, st.Message())
		})
	}
}

func TestMe(t *testing.T) {
	s := newServer(&fakeAuth{})

	_, err := s.Me(context.Background(), &rpc.MeRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	exp := time.Date(2026, 1, 1, 0, 15, 0, 0, time.UTC)
	claims := auth.NewClaims("acc-1", "a@x.com")
	claims.ExpiresAt = jwt.NewNumericDate(exp)
	ctx := context.WithValue(context.Background(), claimsKey, &claims)

	resp, err := s.Me(ctx, &rpc.MeRequest{})
	require.NoError(t, err)
	assert.Equal(t, "acc-1", resp.AccountID)
	assert.Equal(t, "a@x.com", resp.Email)
	assert.True(t, exp.Equal(resp.ExpiresAt))
}
