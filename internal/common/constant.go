// Package common contains shared constants and sentinel errors used across
// passvault components.
package common

const (
	// AuthorizationHeaderName carries the bearer access token.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme is the only accepted authorization scheme.
	BearerScheme = "Bearer"

	// TokenType is reported to clients alongside an access token.
	TokenType = "bearer"
)
