// Package models holds the wire shapes the CLI exchanges with the server.
package models

import "time"

type User struct {
	ID          int64  `json:"id"`
	UserName    string `json:"username"`
	Email       string `json:"email"`
	ProfileURL  string `json:"profile_url"`
	TOTPEnabled bool   `json:"totp_enabled"`
}

type Signup struct {
	UserName string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Vault struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IconType    string `json:"icon_type"`
	UserID      int64  `json:"user_id,omitempty"`
}

type Account struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	UserName    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Description string `json:"description"`
	PageURL     string `json:"page_url"`
	IconType    string `json:"icon_type"`
	VaultID     int64  `json:"vault_id"`
	UserID      int64  `json:"user_id,omitempty"`
}

type AvatarUpload struct {
	UploadURL  string `json:"upload_url"`
	ProfileURL string `json:"profile_url"`
}

// Problem is the server's error body.
type Problem struct {
	Error  string `json:"error"`
	Code   int    `json:"code"`
	Detail string `json:"detail"`
}

// Session is a saved login on one server. It never leaves the local store.
type Session struct {
	Server  string
	Login   string
	Token   string
	SavedAt time.Time
}
