package http

import (
	"net/http"

	"github.com/dmitrijs2005/passvault/internal/server/http/validate"
	"github.com/dmitrijs2005/passvault/internal/server/services"
)

// Me returns the current user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newUserResponse(UserFromContext(r.Context())))
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	u, err := h.users.Get(r.Context(), UserFromContext(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(u))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req UserUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	var v validate.Validator
	v.Length("username", req.UserName, 1, validate.UserNameMax)
	v.Email("email", req.Email)
	if req.Password != "" {
		v.Length("password", req.Password, validate.LoginPasswordMin, validate.LoginPasswordMax)
	}
	v.MaxLength("profile_url", req.ProfileURL, validate.URLMax)
	if err := v.Err(); err != nil {
		h.writeError(w, r, err)
		return
	}

	u, err := h.users.Update(r.Context(), UserFromContext(r.Context()), id, services.UserUpdate{
		UserName:   req.UserName,
		Email:      req.Email,
		Password:   req.Password,
		ProfileURL: req.ProfileURL,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(u))
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	u, err := h.users.Delete(r.Context(), UserFromContext(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(u))
}

// UploadAvatar hands out a presigned PUT URL for a new profile picture.
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	uploadURL, profileURL, err := h.users.AvatarUploadURL(r.Context(), UserFromContext(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AvatarUploadResponse{UploadURL: uploadURL, ProfileURL: profileURL})
}

// GetAvatar hands out a presigned GET URL for the stored profile picture.
func (h *Handler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	url, err := h.users.AvatarDownloadURL(r.Context(), UserFromContext(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AvatarResponse{URL: url})
}
