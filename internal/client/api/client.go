// Package api is the CLI's HTTP client for the passvault server.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/go-resty/resty/v2"
)

// Error is a non-2xx reply. It unwraps to common.ErrorUnauthorized on 401
// and common.ErrorNotFound on 404.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("server replied %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("server replied %d: %s", e.Status, e.Detail)
}

func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusBadRequest:
		return common.ErrorValidation
	case http.StatusServiceUnavailable:
		return common.ErrorUnavailable
	default:
		return nil
	}
}

type Client struct {
	http *resty.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)
	return &Client{http: c}
}

// SetToken makes every later request carry the bearer token.
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx).SetError(&models.Problem{})
}

// check turns transport failures and non-2xx replies into errors.
func check(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if resp.IsSuccess() {
		return nil
	}
	e := &Error{Status: resp.StatusCode()}
	if p, ok := resp.Error().(*models.Problem); ok && p != nil {
		e.Detail = p.Detail
	}
	return e
}

func (c *Client) Signup(ctx context.Context, in models.Signup) (*models.User, error) {
	var out models.User
	err := check(c.request(ctx).SetBody(in).SetResult(&out).Post("/auth/signup"))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login posts the password form and returns the access token.
func (c *Client) Login(ctx context.Context, login, password, otp string) (string, error) {
	form := map[string]string{"username": login, "password": password}
	if otp != "" {
		form["otp"] = otp
	}

	var out models.Token
	err := check(c.request(ctx).SetFormData(form).SetResult(&out).Post("/auth/login"))
	if err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := check(c.request(ctx).SetResult(&out).Get("/users/me")); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Vaults(ctx context.Context) ([]models.Vault, error) {
	var out []models.Vault
	if err := check(c.request(ctx).SetResult(&out).Get("/vaults")); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateVault(ctx context.Context, in models.Vault) (*models.Vault, error) {
	var out models.Vault
	if err := check(c.request(ctx).SetBody(in).SetResult(&out).Post("/vaults")); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteVault(ctx context.Context, id int64) (*models.Vault, error) {
	var out models.Vault
	err := check(c.request(ctx).
		SetPathParam("id", strconv.FormatInt(id, 10)).
		SetResult(&out).
		Delete("/vaults/{id}"))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Accounts lists accounts; vaultID 0 lists all of them.
func (c *Client) Accounts(ctx context.Context, vaultID int64) ([]models.Account, error) {
	var out []models.Account
	req := c.request(ctx).SetResult(&out)
	if vaultID > 0 {
		req.SetQueryParam("vault_id", strconv.FormatInt(vaultID, 10))
	}
	if err := check(req.Get("/accounts")); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Account(ctx context.Context, id int64) (*models.Account, error) {
	var out models.Account
	err := check(c.request(ctx).
		SetPathParam("id", strconv.FormatInt(id, 10)).
		SetResult(&out).
		Get("/accounts/{id}"))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateAccount(ctx context.Context, in models.Account) (*models.Account, error) {
	var out models.Account
	if err := check(c.request(ctx).SetBody(in).SetResult(&out).Post("/accounts")); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AvatarUploadURL(ctx context.Context, userID int64) (*models.AvatarUpload, error) {
	var out models.AvatarUpload
	err := check(c.request(ctx).
		SetPathParam("id", strconv.FormatInt(userID, 10)).
		SetResult(&out).
		Post("/users/{id}/avatar"))
	if err != nil {
		return nil, err
	}
	return &out, nil
}
