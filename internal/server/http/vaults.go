package http

import (
	"net/http"

	"github.com/dmitrijs2005/passvault/internal/server/http/validate"
	"github.com/dmitrijs2005/passvault/internal/server/services"
)

func (h *Handler) vaultInput(w http.ResponseWriter, r *http.Request) (services.VaultInput, error) {
	var req VaultRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return services.VaultInput{}, err
	}

	var v validate.Validator
	v.Length("name", req.Name, 1, validate.NameMax)
	v.MaxLength("description", req.Description, validate.DescriptionMax)
	v.MaxLength("icon_type", req.IconType, validate.IconTypeMax)
	v.NonNegative("user_id", req.UserID)
	if err := v.Err(); err != nil {
		return services.VaultInput{}, err
	}

	return services.VaultInput{
		Name:        req.Name,
		Description: req.Description,
		IconType:    req.IconType,
		UserID:      req.UserID,
	}, nil
}

func (h *Handler) CreateVault(w http.ResponseWriter, r *http.Request) {
	in, err := h.vaultInput(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	vault, err := h.vaults.Create(r.Context(), UserFromContext(r.Context()), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newVaultResponse(vault))
}

func (h *Handler) ListVaults(w http.ResponseWriter, r *http.Request) {
	list, err := h.vaults.List(r.Context(), UserFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(list, newVaultResponse))
}

func (h *Handler) GetVault(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	vault, err := h.vaults.Get(r.Context(), UserFromContext(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newVaultResponse(vault))
}

func (h *Handler) UpdateVault(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	in, err := h.vaultInput(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	vault, err := h.vaults.Update(r.Context(), UserFromContext(r.Context()), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newVaultResponse(vault))
}

func (h *Handler) DeleteVault(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	vault, err := h.vaults.Delete(r.Context(), UserFromContext(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newVaultResponse(vault))
}
