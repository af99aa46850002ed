package models

// Account is a stored third-party site login. Password holds codec
// ciphertext in storage and plaintext only on the way out to its owner.
type Account struct {
	ID          int64
	Name        string
	UserName    string
	Email       string
	Password    string
	Description string
	PageURL     string
	IconType    string
	VaultID     int64
	UserID      int64
}
