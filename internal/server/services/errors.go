package services

import (
	"errors"

	"github.com/dmitrijs2005/passvault/internal/common"
)

// Messages returned to API callers.
const (
	msgEmailTaken       = "Email already registered."
	msgUserNameTaken    = "Username already registered."
	msgBadCredentials   = "Incorrect email or password"
	msgBadOTP           = "Invalid one-time code"
	msgNotAuthenticated = "Could not validate credentials"
	msgUserNotFound     = "User not found"
	msgOwnerNotFound    = "User not found."
	msgVaultNotFound    = "Vault not found."
	msgVaultTaken       = "Vault name already exists."
	msgAccountNotFound  = "Account not found."
	msgAccountTaken     = "Account name already exists."
	msgCardNotFound     = "Card not found."
	msgCardTaken        = "Card name already exists."
	msgAvatarNotFound   = "Profile picture not found."
	msgStorageDisabled  = "Profile picture storage is not configured."
	msgTOTPNotSetUp     = "Two-factor authentication is not set up."
	msgTOTPEnabled      = "Two-factor authentication is already enabled."
	msgTOTPDisabled     = "Two-factor authentication is not enabled."
)

// translate maps repository sentinel errors onto the user-visible error for
// the entity at hand; other errors pass through unchanged.
func translate(err error, notFound, taken string) error {
	var e *common.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &e):
		return err
	case errors.Is(err, common.ErrorNotFound):
		return common.NewError(common.ErrorNotFound, notFound)
	case errors.Is(err, common.ErrorAlreadyExists):
		return common.NewError(common.ErrorAlreadyExists, taken)
	default:
		return err
	}
}
