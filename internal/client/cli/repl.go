package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/gophticket/internal/client/services"
	"github.com/dmitrijs2005/gophticket/internal/common"
)

// execIface is the command surface the REPL dispatches to. *App satisfies
// it; tests use a stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Avatar(ctx context.Context, args []string) error
	Buy(ctx context.Context, args []string) error
	ShowTicket(ctx context.Context) error
	QR(ctx context.Context, args []string) error
	Invalidate(ctx context.Context) error
	Reset(ctx context.Context) error
	History(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: signup, login, reset, exit"
	helpLoggedIn  = "Available commands: buy [family|individual], ticket, qr [save <file>], invalidate, history, whoami, avatar <file|url>, logout, reset, exit"
)

// runREPL reads commands from reader until EOF or "exit"/"quit" and
// dispatches them to a. Ticket and account commands need a session.
// Handler errors are reported and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func(context.Context) string, reader *bufio.Reader, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}

		fmt.Fprintf(out, "gt %s> ", statusFn(ctx))
		line, err := readLine(reader)
		if err != nil {
			fmt.Fprintln(out)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				fmt.Fprintln(out, helpLoggedIn)
			} else {
				fmt.Fprintln(out, helpLoggedOut)
			}

		case "signup", "register":
			cmdErr = a.Signup(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "reset":
			cmdErr = a.Reset(ctx)

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		case "logout", "whoami", "avatar", "buy", "ticket", "qr", "invalidate", "history":
			if !a.isLoggedIn(ctx) {
				fmt.Fprintln(out, services.AuthMessage(common.ErrNoSession))
				break
			}
			cmdErr = dispatchSession(ctx, a, cmd, args)

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(out, "Error:", services.AuthMessage(cmdErr))
		}
	}
}

func dispatchSession(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "whoami":
		return a.WhoAmI(ctx)
	case "avatar":
		return a.Avatar(ctx, args)
	case "buy":
		return a.Buy(ctx, args)
	case "ticket":
		return a.ShowTicket(ctx)
	case "qr":
		return a.QR(ctx, args)
	case "invalidate":
		return a.Invalidate(ctx)
	case "history":
		return a.History(ctx)
	}
	return nil
}
