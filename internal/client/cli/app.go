package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
	"github.com/dmitrijs2005/gophauth/internal/rpc"
)

var ErrUnknownCommand = errors.New("unknown command")

// API is the part of client.GRPCClient the CLI drives.
type API interface {
	SignUp(ctx context.Context, email, password string) (client.Tokens, error)
	SignIn(ctx context.Context, email, password string) (client.Tokens, error)
	Refresh(ctx context.Context) error
	Me(ctx context.Context) (*rpc.MeResponse, error)
	Ping(ctx context.Context) error
	Tokens() client.Tokens
	SetTokens(client.Tokens)
	Close() error
}

type App struct {
	config *config.Config
	api    API
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	return &App{config: c, api: apiClient, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

// Run executes args as a single command, or starts the REPL when args is
// empty. The connection is closed on return.
func (a *App) Run(ctx context.Context, args []string) error {
	defer a.api.Close()

	if len(args) == 0 {
		return a.Root(ctx)
	}
	return a.exec(ctx, args)
}

// withTimeout bounds one server call by the configured request timeout.
func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}
