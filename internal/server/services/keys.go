package services

import (
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/cryptox"
	"github.com/dmitrijs2005/passvault/internal/server/models"
)

// Keyring seals per-user secret keys under the server master key and opens
// them again when a user's stored secrets have to be encoded or decoded.
type Keyring struct {
	master []byte
}

func NewKeyring(master []byte) *Keyring {
	return &Keyring{master: master}
}

// NewUserKey generates a secret key for a new user and returns it sealed,
// ready to be persisted.
func (k *Keyring) NewUserKey() (string, error) {
	key, err := cryptox.GenerateSecretKey()
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(key)
	return cryptox.Encode(key, k.master)
}

// UserKey opens u's sealed secret key. The caller should wipe it when done.
func (k *Keyring) UserKey(u *models.User) ([]byte, error) {
	key, err := cryptox.Decode(u.SecretKey, k.master)
	if err != nil {
		return nil, fmt.Errorf("user %d secret key: %w", u.ID, err)
	}
	return key, nil
}
