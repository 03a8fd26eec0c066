package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Signin(ctx context.Context) error
	Logout(ctx context.Context) error
	Users(ctx context.Context, args []string) error
	WhoAmI(ctx context.Context) error
}

// runREPL reads a line from reader, parses the first token as the command
// and dispatches to methods on a. The loop exits on EOF or when the user
// types "exit" or "quit".
//
//	Not signed in:
//	  - help              show available commands
//	  - register          create an account
//	  - signin | login    open a session
//	  - exit | quit       leave the program
//
//	Signed in:
//	  - help              show available commands
//	  - users [asc|desc]  list accounts
//	  - whoami            show the signed-in email
//	  - logout            end the session
//	  - exit | quit       leave the program
//
// Errors returned by command handlers are ignored here; handlers report
// them to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "gs %s> ", statusFn())
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: users [asc|desc], whoami, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: register, signin, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "signin", "login":
			_ = a.Signin(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "users":
			_ = a.Users(ctx, args)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}
