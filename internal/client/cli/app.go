package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophsession/internal/client/client"
	"github.com/dmitrijs2005/gophsession/internal/client/config"
	"github.com/dmitrijs2005/gophsession/internal/client/services"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	reader      *bufio.Reader
	prompt      *prompter
	out         io.Writer
	email       string
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	apiClient, err := newAPIClient(c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error initializing %s client: %w", c.Transport, err)
	}
	as := services.NewAuthService(apiClient, db)

	return newApp(c, as, os.Stdin, os.Stdout), nil
}

func newAPIClient(c *config.Config) (client.Client, error) {
	if c.Transport == config.TransportHTTP {
		return client.NewHTTPClient(c.ServerURL, c.RequestTimeout), nil
	}
	return client.NewGRPCClient(c.GRPCAddress, c.RequestTimeout)
}

func newApp(c *config.Config, as services.AuthService, in io.Reader, out io.Writer) *App {
	r := bufio.NewReader(in)
	return &App{config: c, authService: as, reader: r, prompt: newPrompter(r, out), out: out}
}

func (a *App) isLoggedIn() bool {
	return a.email != ""
}

func (a *App) status() string {
	if a.email == "" {
		return ""
	}
	return "(" + a.email + ") "
}

// Run restores the stored session, if any, and serves the REPL until EOF
// or exit.
func (a *App) Run(ctx context.Context) {
	defer a.authService.Close(ctx)

	if email, err := a.authService.WhoAmI(ctx); err == nil {
		a.email = email
	}

	fmt.Fprintln(a.out, "gophsession CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader, a.out)
}
