package models

// Card is a stored payment card. Number, CCV and PIN are encoded like
// account passwords.
type Card struct {
	ID          int64
	Name        string
	Number      string
	Type        string
	Bank        string
	CCV         string
	Expiration  string
	PIN         string
	Description string
	VaultID     int64
	UserID      int64
}
