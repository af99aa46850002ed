package http

import (
	"net/http"

	"github.com/dmitrijs2005/passvault/internal/server/http/validate"
	"github.com/dmitrijs2005/passvault/internal/server/services"
)

func (h *Handler) accountInput(w http.ResponseWriter, r *http.Request) (services.AccountInput, error) {
	var req AccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return services.AccountInput{}, err
	}

	var v validate.Validator
	v.Length("name", req.Name, 1, validate.NameMax)
	v.MaxLength("username", req.UserName, validate.UserNameMax)
	v.OptionalEmail("email", req.Email)
	v.Length("password", req.Password, 1, validate.SecretMax)
	v.MaxLength("description", req.Description, validate.DescriptionMax)
	v.MaxLength("page_url", req.PageURL, validate.URLMax)
	v.MaxLength("icon_type", req.IconType, validate.IconTypeMax)
	v.Positive("vault_id", req.VaultID)
	v.NonNegative("user_id", req.UserID)
	if err := v.Err(); err != nil {
		return services.AccountInput{}, err
	}

	return services.AccountInput{
		Name:        req.Name,
		UserName:    req.UserName,
		Email:       req.Email,
		Password:    req.Password,
		Description: req.Description,
		PageURL:     req.PageURL,
		IconType:    req.IconType,
		VaultID:     req.VaultID,
		UserID:      req.UserID,
	}, nil
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	in, err := h.accountInput(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	account, err := h.accounts.Create(r.Context(), UserFromContext(r.Context()), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newAccountResponse(account))
}

// ListAccounts supports an optional ?vault_id= filter.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	vaultID, err := queryVaultID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	list, err := h.accounts.List(r.Context(), UserFromContext(r.Context()), vaultID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(list, newAccountResponse))
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	account, err := h.accounts.Get(r.Context(), UserFromContext(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAccountResponse(account))
}

func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	in, err := h.accountInput(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	account, err := h.accounts.Update(r.Context(), UserFromContext(r.Context()), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAccountResponse(account))
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	account, err := h.accounts.Delete(r.Context(), UserFromContext(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAccountResponse(account))
}
