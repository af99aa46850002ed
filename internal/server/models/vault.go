package models

// Vault groups stored secrets. Name is unique per owning user.
type Vault struct {
	ID          int64
	Name        string
	Description string
	IconType    string
	UserID      int64
}
