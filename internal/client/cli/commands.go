package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophsession/internal/client/client"
	"github.com/dmitrijs2005/gophsession/internal/common"
)

// report prints a failed command in a form fit for the terminal and
// returns err unchanged.
func (a *App) report(err error) error {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		fmt.Fprintln(a.out, "Error:", apiErr.Error())
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintln(a.out, "Server unavailable, try again later")
	case errors.Is(err, client.ErrNotSignedIn):
		fmt.Fprintln(a.out, "You are not signed in")
	case errors.Is(err, ErrPasswordMismatch), errors.Is(err, ErrEmptyInput):
		fmt.Fprintln(a.out, "Cancelled:", err.Error())
	default:
		fmt.Fprintln(a.out, "Error:", err.Error())
	}
	return err
}

// Register prompts for name, email and a confirmed password and creates
// an account.
func (a *App) Register(ctx context.Context) error {
	name, err := a.prompt.field("Name")
	if err != nil {
		return a.report(err)
	}
	email, err := a.prompt.field("Email")
	if err != nil {
		return a.report(err)
	}
	password, err := a.prompt.newPassword()
	if err != nil {
		return a.report(err)
	}
	defer common.WipeByteArray(password)

	u, err := a.authService.Register(ctx, name, email, password)
	if err != nil {
		return a.report(err)
	}

	fmt.Fprintf(a.out, "Registered %s (%s)\n", u.Email, u.ID)
	return nil
}

// Signin prompts for credentials and opens a session.
func (a *App) Signin(ctx context.Context) error {
	email, err := a.prompt.field("Email")
	if err != nil {
		return a.report(err)
	}
	password, err := a.prompt.password()
	if err != nil {
		return a.report(err)
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Signin(ctx, email, password); err != nil {
		return a.report(err)
	}

	a.email = email
	fmt.Fprintln(a.out, "Signed in")
	return nil
}

// Logout ends the session on the server.
func (a *App) Logout(ctx context.Context) error {
	msg, err := a.authService.Logout(ctx)
	if email, werr := a.authService.WhoAmI(ctx); werr == nil {
		a.email = email
	} else {
		a.email = ""
	}
	if err != nil {
		return a.report(err)
	}

	fmt.Fprintln(a.out, msg)
	return nil
}

// Users prints all accounts; args may hold "asc" or "desc".
func (a *App) Users(ctx context.Context, args []string) error {
	order := "asc"
	if len(args) > 0 {
		order = args[0]
	}

	list, err := a.authService.Users(ctx, order)
	if err != nil {
		return a.report(err)
	}

	for _, u := range list {
		fmt.Fprintf(a.out, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Created.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(a.out, "%d user(s)\n", len(list))
	return nil
}

// WhoAmI prints the locally signed-in email.
func (a *App) WhoAmI(ctx context.Context) error {
	email, err := a.authService.WhoAmI(ctx)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, email)
	return nil
}
