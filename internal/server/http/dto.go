package http

import "github.com/dmitrijs2005/passvault/internal/server/models"

// SignupRequest is the body of POST /auth/signup.
type SignupRequest struct {
	UserName   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	ProfileURL string `json:"profile_url"`
}

// LoginRequest is the JSON body of POST /auth/login. Any of Login, UserName
// or Email may carry the identifier.
type LoginRequest struct {
	Login    string `json:"login"`
	UserName string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	OTP      string `json:"otp"`
}

func (r LoginRequest) identifier() string {
	for _, v := range []string{r.Login, r.UserName, r.Email} {
		if v != "" {
			return v
		}
	}
	return ""
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserUpdateRequest is the body of PUT /users/{id}. An empty password keeps
// the current one.
type UserUpdateRequest struct {
	UserName   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	ProfileURL string `json:"profile_url"`
}

// UserResponse never carries the password hash, secret key or TOTP secret.
type UserResponse struct {
	ID          int64  `json:"id"`
	UserName    string `json:"username"`
	Email       string `json:"email"`
	ProfileURL  string `json:"profile_url"`
	TOTPEnabled bool   `json:"totp_enabled"`
}

func newUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		UserName:    u.UserName,
		Email:       u.Email,
		ProfileURL:  u.ProfileURL,
		TOTPEnabled: u.TOTPEnabled,
	}
}

type TOTPSetupResponse struct {
	Secret string `json:"secret"`
	URL    string `json:"otpauth_url"`
}

type CodeRequest struct {
	Code string `json:"code"`
}

type AvatarUploadResponse struct {
	UploadURL  string `json:"upload_url"`
	ProfileURL string `json:"profile_url"`
}

type AvatarResponse struct {
	URL string `json:"url"`
}

type VaultRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IconType    string `json:"icon_type"`
	UserID      int64  `json:"user_id"`
}

type VaultResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IconType    string `json:"icon_type"`
	UserID      int64  `json:"user_id"`
}

func newVaultResponse(v *models.Vault) VaultResponse {
	return VaultResponse{
		ID:          v.ID,
		Name:        v.Name,
		Description: v.Description,
		IconType:    v.IconType,
		UserID:      v.UserID,
	}
}

type AccountRequest struct {
	Name        string `json:"name"`
	UserName    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Description string `json:"description"`
	PageURL     string `json:"page_url"`
	IconType    string `json:"icon_type"`
	VaultID     int64  `json:"vault_id"`
	UserID      int64  `json:"user_id"`
}

// AccountResponse carries the decoded password; it is only ever sent to
// the account's owner.
type AccountResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	UserName    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Description string `json:"description"`
	PageURL     string `json:"page_url"`
	IconType    string `json:"icon_type"`
	VaultID     int64  `json:"vault_id"`
	UserID      int64  `json:"user_id"`
}

func newAccountResponse(a *models.Account) AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		Name:        a.Name,
		UserName:    a.UserName,
		Email:       a.Email,
		Password:    a.Password,
		Description: a.Description,
		PageURL:     a.PageURL,
		IconType:    a.IconType,
		VaultID:     a.VaultID,
		UserID:      a.UserID,
	}
}

type CardRequest struct {
	Name        string `json:"name"`
	Number      string `json:"number"`
	Type        string `json:"type"`
	Bank        string `json:"bank"`
	CCV         string `json:"ccv"`
	Expiration  string `json:"expiration"`
	PIN         string `json:"pin"`
	Description string `json:"description"`
	VaultID     int64  `json:"vault_id"`
	UserID      int64  `json:"user_id"`
}

type CardResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Number      string `json:"number"`
	Type        string `json:"type"`
	Bank        string `json:"bank"`
	CCV         string `json:"ccv"`
	Expiration  string `json:"expiration"`
	PIN         string `json:"pin"`
	Description string `json:"description"`
	VaultID     int64  `json:"vault_id"`
	UserID      int64  `json:"user_id"`
}

func newCardResponse(c *models.Card) CardResponse {
	return CardResponse{
		ID:          c.ID,
		Name:        c.Name,
		Number:      c.Number,
		Type:        c.Type,
		Bank:        c.Bank,
		CCV:         c.CCV,
		Expiration:  c.Expiration,
		PIN:         c.PIN,
		Description: c.Description,
		VaultID:     c.VaultID,
		UserID:      c.UserID,
	}
}

// mapSlice converts a result set; a nil or empty input yields an empty,
// non-nil slice so lists always encode as [].
func mapSlice[T, R any](in []T, f func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
