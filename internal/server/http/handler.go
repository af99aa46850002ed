// Package http exposes the passvault services over a chi router: JSON in,
// JSON out, bearer-token authentication on everything but signup and login.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/dmitrijs2005/passvault/internal/server/services"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// UserService is the subset of services.UserService the handlers use.
type UserService interface {
	Signup(ctx context.Context, in services.SignupInput) (*models.User, error)
	Login(ctx context.Context, in services.LoginInput) (*services.TokenPair, error)
	ResolveToken(ctx context.Context, token string) (*models.User, error)
	Get(ctx context.Context, current *models.User, id int64) (*models.User, error)
	Update(ctx context.Context, current *models.User, id int64, in services.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, current *models.User, id int64) (*models.User, error)
	SetupTOTP(ctx context.Context, current *models.User) (*services.TOTPSetup, error)
	EnableTOTP(ctx context.Context, current *models.User, code string) error
	DisableTOTP(ctx context.Context, current *models.User, code string) error
	AvatarUploadURL(ctx context.Context, current *models.User, id int64) (string, string, error)
	AvatarDownloadURL(ctx context.Context, current *models.User, id int64) (string, error)
}

type VaultService interface {
	Create(ctx context.Context, current *models.User, in services.VaultInput) (*models.Vault, error)
	Get(ctx context.Context, current *models.User, id int64) (*models.Vault, error)
	List(ctx context.Context, current *models.User) ([]*models.Vault, error)
	Update(ctx context.Context, current *models.User, id int64, in services.VaultInput) (*models.Vault, error)
	Delete(ctx context.Context, current *models.User, id int64) (*models.Vault, error)
}

type AccountService interface {
	Create(ctx context.Context, current *models.User, in services.AccountInput) (*models.Account, error)
	Get(ctx context.Context, current *models.User, id int64) (*models.Account, error)
	List(ctx context.Context, current *models.User, vaultID int64) ([]*models.Account, error)
	Update(ctx context.Context, current *models.User, id int64, in services.AccountInput) (*models.Account, error)
	Delete(ctx context.Context, current *models.User, id int64) (*models.Account, error)
}

type CardService interface {
	Create(ctx context.Context, current *models.User, in services.CardInput) (*models.Card, error)
	Get(ctx context.Context, current *models.User, id int64) (*models.Card, error)
	List(ctx context.Context, current *models.User, vaultID int64) ([]*models.Card, error)
	Update(ctx context.Context, current *models.User, id int64, in services.CardInput) (*models.Card, error)
	Delete(ctx context.Context, current *models.User, id int64) (*models.Card, error)
}

// Handler holds the HTTP handlers and the middleware that need services.
type Handler struct {
	users    UserService
	vaults   VaultService
	accounts AccountService
	cards    CardService
	logger   logging.Logger
}

func NewHandler(us UserService, vs VaultService, as AccountService, cs CardService, l logging.Logger) *Handler {
	return &Handler{
		users:    us,
		vaults:   vs,
		accounts: as,
		cards:    cs,
		logger:   l.With("module", "http"),
	}
}

// Health answers liveness probes.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeJSON reads a JSON body into dst. Malformed bodies are validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return common.NewError(common.ErrorValidation, "request body is empty")
		}
		return common.NewError(common.ErrorValidation, "malformed JSON body")
	}
	return nil
}

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, common.NewError(common.ErrorValidation, "id: must be a positive integer")
	}
	return id, nil
}

// queryVaultID parses the optional vault_id filter; absent means 0.
func queryVaultID(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("vault_id")
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, common.NewError(common.ErrorValidation, "vault_id: must be a positive integer")
	}
	return id, nil
}
