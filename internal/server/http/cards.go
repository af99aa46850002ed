package http

import (
	"net/http"

	"github.com/dmitrijs2005/passvault/internal/server/http/validate"
	"github.com/dmitrijs2005/passvault/internal/server/services"
)

func (h *Handler) cardInput(w http.ResponseWriter, r *http.Request) (services.CardInput, error) {
	var req CardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return services.CardInput{}, err
	}

	var v validate.Validator
	v.Length("name", req.Name, 1, validate.NameMax)
	v.Length("number", req.Number, 1, validate.CardFieldMax)
	v.Length("type", req.Type, 1, validate.CardFieldMax)
	v.Length("bank", req.Bank, 1, validate.CardFieldMax)
	v.Length("ccv", req.CCV, validate.CCVMin, validate.ShortFieldMax)
	v.Length("expiration", req.Expiration, 1, validate.ShortFieldMax)
	v.Length("pin", req.PIN, 1, validate.ShortFieldMax)
	v.MaxLength("description", req.Description, validate.DescriptionMax)
	v.Positive("vault_id", req.VaultID)
	v.NonNegative("user_id", req.UserID)
	if err := v.Err(); err != nil {
		return services.CardInput{}, err
	}

	return services.CardInput{
		Name:        req.Name,
		Number:      req.Number,
		Type:        req.Type,
		Bank:        req.Bank,
		CCV:         req.CCV,
		Expiration:  req.Expiration,
		PIN:         req.PIN,
		Description: req.Description,
		VaultID:     req.VaultID,
		UserID:      req.UserID,
	}, nil
}

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	in, err := h.cardInput(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	card, err := h.cards.Create(r.Context(), UserFromContext(r.Context()), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newCardResponse(card))
}

func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	vaultID, err := queryVaultID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	list, err := h.cards.List(r.Context(), UserFromContext(r.Context()), vaultID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(list, newCardResponse))
}

func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	card, err := h.cards.Get(r.Context(), UserFromContext(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCardResponse(card))
}

func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	in, err := h.cardInput(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	card, err := h.cards.Update(r.Context(), UserFromContext(r.Context()), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCardResponse(card))
}

func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	card, err := h.cards.Delete(r.Context(), UserFromContext(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCardResponse(card))
}
