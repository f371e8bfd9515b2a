package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

const helpText = `Available commands:
  signup [email]          create an account and sign in
  signin [email]          sign in, replacing any previous session
  refresh [refresh_token] exchange the refresh token
  me [access_token]       show the claims of the access token
  ping                    check the server
  logout                  forget the tokens held by this client
  exit                    leave`

func (a *App) exec(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "help":
		fmt.Fprintln(a.out, helpText)
		return nil
	case "signup":
		return a.signUp(ctx, rest)
	case "signin":
		return a.signIn(ctx, rest)
	case "refresh":
		return a.refresh(ctx, rest)
	case "me":
		return a.me(ctx, rest)
	case "ping":
		return a.ping(ctx)
	case "logout":
		a.api.SetTokens(client.Tokens{})
		fmt.Fprintln(a.out, "Signed out")
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}

// credentials takes the email from args when given and prompts for the
// rest. The password never comes from args.
func (a *App) credentials(args []string) (string, string, error) {
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		var err error
		email, err = getSimpleText(a.reader, "Enter email", a.out)
		if err != nil {
			return "", "", err
		}
	}

	password, err := getPassword(a.out)
	if err != nil {
		return "", "", err
	}
	defer common.WipeByteArray(password)

	return email, string(password), nil
}

func (a *App) signUp(ctx context.Context, args []string) error {
	email, password, err := a.credentials(args)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	tokens, err := a.api.SignUp(ctx, email, password)
	if err != nil {
		return err
	}
	a.printTokens(tokens)
	return nil
}

func (a *App) signIn(ctx context.Context, args []string) error {
	email, password, err := a.credentials(args)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	tokens, err := a.api.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	a.printTokens(tokens)
	return nil
}

func (a *App) refresh(ctx context.Context, args []string) error {
	if len(args) > 0 {
		t := a.api.Tokens()
		t.RefreshToken = args[0]
		a.api.SetTokens(t)
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.api.Refresh(ctx); err != nil {
		return err
	}
	a.printTokens(a.api.Tokens())
	return nil
}

func (a *App) me(ctx context.Context, args []string) error {
	if len(args) > 0 {
		t := a.api.Tokens()
		t.AccessToken = args[0]
		a.api.SetTokens(t)
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	resp, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "account_id: %s\nemail: %s\nexpires_at: %s\n",
		resp.AccountID, resp.Email, resp.ExpiresAt.Format(time.RFC3339))
	return nil
}

func (a *App) ping(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.api.Ping(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "OK")
	return nil
}

func (a *App) printTokens(t client.Tokens) {
	fmt.Fprintf(a.out, "access_token: %s\n", t.AccessToken)
	if t.RefreshToken != "" {
		fmt.Fprintf(a.out, "refresh_token: %s\n", t.RefreshToken)
	}
}
