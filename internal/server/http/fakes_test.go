package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/dmitrijs2005/passvault/internal/server/services"
	"go.uber.org/zap"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

const goodToken = "good-token"

var alice = &models.User{
	ID:           7,
	UserName:     "alice",
	Email:        "alice@example.com",
	PasswordHash: "$2a$10$hash",
	SecretKey:    "sealed-key",
	TOTPSecret:   "sealed-totp",
}

type fakeUsers struct {
	UserService

	signup    func(services.SignupInput) (*models.User, error)
	login     func(services.LoginInput) (*services.TokenPair, error)
	update    func(int64, services.UserUpdate) (*models.User, error)
	enable    func(string) error
	uploadURL func(int64) (string, string, error)
}

func (f *fakeUsers) ResolveToken(_ context.Context, token string) (*models.User, error) {
	if token != goodToken {
		return nil, common.NewError(common.ErrorUnauthorized, msgNotAuthenticated)
	}
	return alice, nil
}

func (f *fakeUsers) Signup(_ context.Context, in services.SignupInput) (*models.User, error) {
	return f.signup(in)
}

func (f *fakeUsers) Login(_ context.Context, in services.LoginInput) (*services.TokenPair, error) {
	return f.login(in)
}

func (f *fakeUsers) Update(_ context.Context, _ *models.User, id int64, in services.UserUpdate) (*models.User, error) {
	return f.update(id, in)
}

func (f *fakeUsers) EnableTOTP(_ context.Context, _ *models.User, code string) error {
	return f.enable(code)
}

func (f *fakeUsers) AvatarUploadURL(_ context.Context, _ *models.User, id int64) (string, string, error) {
	return f.uploadURL(id)
}

type fakeVaults struct {
	VaultService

	create func(services.VaultInput) (*models.Vault, error)
	get    func(int64) (*models.Vault, error)
	list   func() ([]*models.Vault, error)
}

func (f *fakeVaults) Create(_ context.Context, _ *models.User, in services.VaultInput) (*models.Vault, error) {
	return f.create(in)
}

func (f *fakeVaults) Get(_ context.Context, _ *models.User, id int64) (*models.Vault, error) {
	return f.get(id)
}

func (f *fakeVaults) List(context.Context, *models.User) ([]*models.Vault, error) {
	return f.list()
}

type fakeAccounts struct {
	AccountService

	list func(int64) ([]*models.Account, error)
}

func (f *fakeAccounts) List(_ context.Context, _ *models.User, vaultID int64) ([]*models.Account, error) {
	return f.list(vaultID)
}

type fakeCards struct {
	CardService

	create func(services.CardInput) (*models.Card, error)
}

func (f *fakeCards) Create(_ context.Context, _ *models.User, in services.CardInput) (*models.Card, error) {
	return f.create(in)
}

type testEnv struct {
	users    *fakeUsers
	vaults   *fakeVaults
	accounts *fakeAccounts
	cards    *fakeCards
	router   http.Handler
}

func newTestEnv() *testEnv {
	e := &testEnv{
		users:    &fakeUsers{},
		vaults:   &fakeVaults{},
		accounts: &fakeAccounts{},
		cards:    &fakeCards{},
	}
	h := NewHandler(e.users, e.vaults, e.accounts, e.cards, nopLogger{})
	e.router = NewRouter(h, zap.NewNop())
	return e
}

// do sends a request through the router. A non-empty token is sent as a
// bearer credential.
func (e *testEnv) do(t *testing.T, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}
