package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

func (a *App) prompt() string {
	if a.api.Tokens().AccessToken != "" {
		return "gophauth (signed in)> "
	}
	return "gophauth> "
}

// Root runs the REPL until exit, EOF on input or ctx cancellation.
// Command errors are printed and the loop goes on.
func (a *App) Root(ctx context.Context) error {
	fmt.Fprintln(a.out, "Welcome to GophAuth CLI (type 'help' for commands)")

	for {
		if ctx.Err() != nil {
			return nil
		}

		fmt.Fprint(a.out, a.prompt())
		line, err := a.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := err != nil

		parts := strings.Fields(line)
		if len(parts) > 0 {
			switch parts[0] {
			case "exit", "quit":
				fmt.Fprintln(a.out, "Bye!")
				return nil
			default:
				if err := a.exec(ctx, parts); err != nil {
					fmt.Fprintf(a.out, "error: %s\n", err)
				}
			}
		}

		if eof {
			fmt.Fprintln(a.out)
			return nil
		}
	}
}
