package http

import (
	"context"
	"mime"
	"net/http"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/server/http/validate"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/dmitrijs2005/passvault/internal/server/services"
)

// Signup registers a user and replies 201 with the new profile.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	var v validate.Validator
	v.Length("username", req.UserName, 1, validate.UserNameMax)
	v.Email("email", req.Email)
	v.Length("password", req.Password, validate.LoginPasswordMin, validate.LoginPasswordMax)
	v.MaxLength("profile_url", req.ProfileURL, validate.URLMax)
	if err := v.Err(); err != nil {
		h.writeError(w, r, err)
		return
	}

	u, err := h.users.Signup(r.Context(), services.SignupInput{
		UserName:   req.UserName,
		Email:      req.Email,
		Password:   req.Password,
		ProfileURL: req.ProfileURL,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newUserResponse(u))
}

// Login accepts either a JSON body or an OAuth2-style password form
// (username, password, otp) and returns a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := parseLogin(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var v validate.Validator
	v.Length("username", req.identifier(), 1, validate.EmailMax)
	v.Length("password", req.Password, 1, validate.LoginPasswordMax)
	if err := v.Err(); err != nil {
		h.writeError(w, r, err)
		return
	}

	pair, err := h.users.Login(r.Context(), services.LoginInput{
		Login:    req.identifier(),
		Password: req.Password,
		OTP:      req.OTP,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: pair.AccessToken, TokenType: pair.TokenType})
}

func parseLogin(w http.ResponseWriter, r *http.Request) (LoginRequest, error) {
	var req LoginRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return req, common.NewError(common.ErrorValidation, "malformed form body")
		}
		req.UserName = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
		req.OTP = r.PostForm.Get("otp")
		return req, nil
	default:
		err := decodeJSON(w, r, &req)
		return req, err
	}
}

// SetupTOTP starts two-factor enrolment for the current user.
func (h *Handler) SetupTOTP(w http.ResponseWriter, r *http.Request) {
	setup, err := h.users.SetupTOTP(r.Context(), UserFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TOTPSetupResponse{Secret: setup.Secret, URL: setup.URL})
}

// EnableTOTP confirms enrolment with a code from the authenticator.
func (h *Handler) EnableTOTP(w http.ResponseWriter, r *http.Request) {
	h.switchTOTP(w, r, h.users.EnableTOTP)
}

// DisableTOTP turns the second factor off.
func (h *Handler) DisableTOTP(w http.ResponseWriter, r *http.Request) {
	h.switchTOTP(w, r, h.users.DisableTOTP)
}

func (h *Handler) switchTOTP(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, current *models.User, code string) error) {
	var req CodeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	var v validate.Validator
	v.Length("code", req.Code, 6, 8)
	if err := v.Err(); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := fn(r.Context(), UserFromContext(r.Context()), req.Code); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
