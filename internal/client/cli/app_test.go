package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/rpc"
)

func stubInputs(t *testing.T, email string, password string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return email, nil }
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(password), nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

type fakeAPI struct {
	email, password string
	signUpErr       error
	signInErr       error
	refreshErr      error
	refreshCalls    int
	meResp          *rpc.MeResponse
	meErr           error
	pingErr         error
	closed          bool
	hadDeadline     bool
	tokens          client.Tokens
}

func (f *fakeAPI) SignUp(ctx context.Context, email, password string) (client.Tokens, error) {
	f.email, f.password = email, password
	_, f.hadDeadline = ctx.Deadline()
	if f.signUpErr != nil {
		return client.Tokens{}, f.signUpErr
	}
	f.tokens = client.Tokens{AccessToken: "A", RefreshToken: "R"}
	return f.tokens, nil
}

func (f *fakeAPI) SignIn(ctx context.Context, email, password string) (client.Tokens, error) {
	f.email, f.password = email, password
	if f.signInErr != nil {
		return client.Tokens{}, f.signInErr
	}
	f.tokens = client.Tokens{AccessToken: "A", RefreshToken: "R"}
	return f.tokens, nil
}

func (f *fakeAPI) Refresh(ctx context.Context) error {
	f.refreshCalls++
	if f.refreshErr != nil {
		return f.refreshErr
	}
	f.tokens.AccessToken = "A2"
	return nil
}

func (f *fakeAPI) Me(ctx context.Context) (*rpc.MeResponse, error) {
	return f.meResp, f.meErr
}

func (f *fakeAPI) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeAPI) Tokens() client.Tokens     { return f.tokens }
func (f *fakeAPI) SetTokens(t client.Tokens) { f.tokens = t }
func (f *fakeAPI) Close() error              { f.closed = true; return nil }

func newTestApp(api *fakeAPI, input string) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &App{
		config: &config.Config{RequestTimeout: time.Second},
		api:    api,
		reader: bufio.NewReader(strings.NewReader(input)),
		out:    out,
	}, out
}

func TestRun_SignUp(t *testing.T) {
	stubInputs(t, "prompted@b.c", "pw")
	api := &fakeAPI{}
	app, out := newTestApp(api, "")

	require.NoError(t, app.Run(context.Background(), []string{"signup", "a@b.c"}))

	assert.Equal(t, "a@b.c", api.email)
	assert.Equal(t, "pw", api.password)
	assert.True(t, api.hadDeadline)
	assert.True(t, api.closed)
	assert.Equal(t, "access_token: A\nrefresh_token: R\n", out.String())
}

func TestRun_SignInPromptsForEmail(t *testing.T) {
	stubInputs(t, "prompted@b.c", "pw")
	api := &fakeAPI{}
	app, _ := newTestApp(api, "")

	require.NoError(t, app.Run(context.Background(), []string{"signin"}))
	assert.Equal(t, "prompted@b.c", api.email)
}

func TestRun_SignInError(t *testing.T) {
	stubInputs(t, "a@b.c", "bad")
	api := &fakeAPI{signInErr: common.ErrInvalidCredential}
	app, out := newTestApp(api, "")

	err := app.Run(context.Background(), []string{"signin"})
	require.ErrorIs(t, err, common.ErrInvalidCredential)
	assert.Empty(t, out.String())
}

func TestRun_PasswordPromptFails(t *testing.T) {
	orig := getPassword
	getPassword = func(io.Writer) ([]byte, error) { return nil, errors.New("no tty") }
	t.Cleanup(func() { getPassword = orig })

	api := &fakeAPI{}
	app, _ := newTestApp(api, "")
	require.ErrorContains(t, app.Run(context.Background(), []string{"signup", "a@b.c"}), "no tty")
	assert.Empty(t, api.email)
}

func TestRun_RefreshUsesGivenToken(t *testing.T) {
	api := &fakeAPI{}
	app, out := newTestApp(api, "")

	require.NoError(t, app.Run(context.Background(), []string{"refresh", "R9"}))
	assert.Equal(t, client.Tokens{AccessToken: "A2", RefreshToken: "R9"}, api.tokens)
	assert.Equal(t, "access_token: A2\nrefresh_token: R9\n", out.String())
}

func TestRun_RefreshRejected(t *testing.T) {
	api := &fakeAPI{refreshErr: common.ErrInvalidOrExpiredToken}
	app, _ := newTestApp(api, "")
	require.ErrorIs(t, app.Run(context.Background(), []string{"refresh", "R9"}), common.ErrInvalidOrExpiredToken)
}

func TestRun_Me(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	api := &fakeAPI{meResp: &rpc.MeResponse{AccountID: "id-1", Email: "a@b.c", ExpiresAt: exp}}
	app, out := newTestApp(api, "")

	require.NoError(t, app.Run(context.Background(), []string{"me", "A7"}))
	assert.Equal(t, "A7", api.tokens.AccessToken)
	assert.Equal(t, "account_id: id-1\nemail: a@b.c\nexpires_at: 2030-01-02T03:04:05Z\n", out.String())
}

func TestRun_Ping(t *testing.T) {
	app, out := newTestApp(&fakeAPI{}, "")
	require.NoError(t, app.Run(context.Background(), []string{"ping"}))
	assert.Equal(t, "OK\n", out.String())

	app, _ = newTestApp(&fakeAPI{pingErr: client.ErrUnavailable}, "")
	require.ErrorIs(t, app.Run(context.Background(), []string{"ping"}), client.ErrUnavailable)
}

func TestRun_UnknownCommand(t *testing.T) {
	app, _ := newTestApp(&fakeAPI{}, "")
	require.ErrorIs(t, app.Run(context.Background(), []string{"frobnicate"}), ErrUnknownCommand)
}

func TestWithTimeout_NoTimeoutConfigured(t *testing.T) {
	app := &App{config: &config.Config{}}
	ctx, cancel := app.withTimeout(context.Background())
	defer cancel()
	_, ok := ctx.Deadline()
	assert.False(t, ok)
}

func TestRoot_SessionFlow(t *testing.T) {
	stubInputs(t, "a@b.c", "pw")
	api := &fakeAPI{meResp: &rpc.MeResponse{AccountID: "id-1", Email: "a@b.c"}}
	app, out := newTestApp(api, "help\nsignin\nme\nbogus\nlogout\nexit\nping\n")

	require.NoError(t, app.Run(context.Background(), nil))

	s := out.String()
	assert.Contains(t, s, "Welcome to GophAuth CLI")
	assert.Contains(t, s, "Available commands:")
	assert.Contains(t, s, "gophauth (signed in)> ")
	assert.Contains(t, s, "account_id: id-1")
	assert.Contains(t, s, "error: unknown command: bogus")
	assert.Contains(t, s, "Signed out")
	assert.True(t, strings.HasSuffix(s, "Bye!\n"))
	assert.NotContains(t, s, "OK\n")
	assert.Empty(t, api.tokens)
	assert.True(t, api.closed)
}

func TestRoot_EOFEndsLoop(t *testing.T) {
	app, out := newTestApp(&fakeAPI{}, "ping")
	require.NoError(t, app.Run(context.Background(), nil))
	assert.Contains(t, out.String(), "OK\n")
}

func TestRoot_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	app, out := newTestApp(&fakeAPI{}, "ping\n")
	require.NoError(t, app.Root(ctx))
	assert.NotContains(t, out.String(), "OK")
}
