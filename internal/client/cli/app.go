package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/passvault/internal/client/api"
	"github.com/dmitrijs2005/passvault/internal/client/config"
	"github.com/dmitrijs2005/passvault/internal/client/session"
	"github.com/dmitrijs2005/passvault/internal/common"
)

var errNotLoggedIn = errors.New("not logged in, run `passvault login` first")

// App is the state shared by one command invocation.
type App struct {
	config  *config.Config
	api     *api.Client
	session *session.Store
	in      *bufio.Reader
	out     io.Writer
}

func newApp(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) (*App, error) {
	store, err := session.Open(ctx, cfg.DataDir, cfg.ServerURL)
	if err != nil {
		return nil, err
	}

	client := api.New(cfg.ServerURL, cfg.Timeout)
	token, err := store.Token(ctx)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if token != "" {
		client.SetToken(token)
	}

	return &App{
		config:  cfg,
		api:     client,
		session: store,
		in:      bufio.NewReader(in),
		out:     out,
	}, nil
}

func (a *App) Close() error {
	return a.session.Close()
}

// requireLogin fails fast when there is no saved token.
func (a *App) requireLogin(ctx context.Context) error {
	token, err := a.session.Token(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return errNotLoggedIn
	}
	return nil
}

// explain rewords errors a user can act on.
func explain(err error) error {
	if errors.Is(err, common.ErrorUnauthorized) {
		return fmt.Errorf("%w (run `passvault login` to sign in again)", err)
	}
	return err
}

// prompt returns value, or asks for it when empty.
func (a *App) prompt(value, question string) (string, error) {
	if value != "" {
		return value, nil
	}
	return getSimpleText(a.in, question, a.out)
}
