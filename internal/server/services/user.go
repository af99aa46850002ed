// Package services contains server-side business logic. Every operation runs
// inside a single transaction and receives the authenticated user explicitly.
// This file implements UserService: signup, login, token resolution, profile
// management, two-factor authentication and profile pictures.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/cryptox"
	"github.com/dmitrijs2005/passvault/internal/dbx"
	"github.com/dmitrijs2005/passvault/internal/server/auth"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/users"
	"github.com/pquerna/otp/totp"
)

// usernameConstraint is the name PostgreSQL gives the users.username UNIQUE
// constraint.
const usernameConstraint = "users_username_key"

// TokenPair is what a successful login yields.
type TokenPair struct {
	AccessToken string
	TokenType   string
}

// SignupInput is a validated signup request.
type SignupInput struct {
	UserName   string
	Email      string
	Password   string
	ProfileURL string
}

// LoginInput is a login attempt. Login may be an email or a username; OTP
// is required only once two-factor authentication is enabled.
type LoginInput struct {
	Login    string
	Password string
	OTP      string
}

// UserUpdate replaces a user's profile. An empty Password keeps the current one.
type UserUpdate struct {
	UserName   string
	Email      string
	Password   string
	ProfileURL string
}

// TOTPSetup carries a freshly generated authenticator secret.
type TOTPSetup struct {
	Secret string
	URL    string
}

// AvatarStorage presigns profile picture transfers.
type AvatarStorage interface {
	PresignPut(ctx context.Context, userID int64) (key, url string, err error)
	PresignGet(ctx context.Context, key string) (string, error)
	ObjectURL(key string) string
	KeyFromURL(u string) (string, bool)
}

// UserService implements account-holder operations.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *cryptox.PasswordHasher
	keys        *Keyring
	tokens      *auth.TokenManager
	storage     AvatarStorage
	totpIssuer  string
	dummyDigest string
}

// NewUserService wires a UserService. storage may be nil, in which case the
// profile picture operations report common.ErrorUnavailable.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher *cryptox.PasswordHasher,
	keys *Keyring, tokens *auth.TokenManager, storage AvatarStorage, totpIssuer string) (*UserService, error) {
	// Compared against when the login does not exist so both paths cost one bcrypt run.
	seed, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, err
	}
	dummy, err := hasher.Hash(seed)
	if err != nil {
		return nil, err
	}
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		keys:        keys,
		tokens:      tokens,
		storage:     storage,
		totpIssuer:  totpIssuer,
		dummyDigest: dummy,
	}, nil
}

// Signup registers a new user: the password is hashed and a fresh secret
// key is generated and sealed.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	var created *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		if err := ensureUnique(ctx, repo, in.Email, msgEmailTaken, 0); err != nil {
			return err
		}
		if err := ensureUnique(ctx, repo, in.UserName, msgUserNameTaken, 0); err != nil {
			return err
		}

		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		secret, err := s.keys.NewUserKey()
		if err != nil {
			return fmt.Errorf("secret key: %w", err)
		}

		created, err = repo.Create(ctx, &models.User{
			UserName:     in.UserName,
			Email:        in.Email,
			PasswordHash: hash,
			SecretKey:    secret,
			ProfileURL:   in.ProfileURL,
		})
		return translateUserWrite(err)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Login checks credentials (and the one-time code when two-factor
// authentication is on) and issues an access token.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*TokenPair, error) {
	var user *models.User
	err := dbx.WithTx(ctx, s.db, dbx.ReadOnly, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		user, err = s.repomanager.Users(tx).GetByLogin(ctx, in.Login)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(in.Password, s.dummyDigest)
			return nil, common.NewError(common.ErrorUnauthorized, msgBadCredentials)
		}
		return nil, err
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return nil, common.NewError(common.ErrorUnauthorized, msgBadCredentials)
	}

	if user.TOTPEnabled {
		ok, err := s.checkOTP(user, in.OTP)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, common.NewError(common.ErrorUnauthorized, msgBadOTP)
		}
	}

	token, err := s.tokens.Issue(user.ID, 0)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &TokenPair{AccessToken: token, TokenType: common.TokenType}, nil
}

// ResolveToken returns the user a bearer token belongs to. Every way a token
// can fail to identify an existing user yields the same unauthorized error.
func (s *UserService) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	id, err := s.tokens.Verify(token)
	if err != nil {
		return nil, common.NewError(common.ErrorUnauthorized, msgNotAuthenticated)
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, dbx.ReadOnly, func(ctx context.Context, tx dbx.DBTX) error {
		user, err = s.repomanager.Users(tx).GetByID(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorUnauthorized, msgNotAuthenticated)
		}
		return nil, err
	}
	return user, nil
}

// Get returns the user with id, which must be the current user.
func (s *UserService) Get(ctx context.Context, current *models.User, id int64) (*models.User, error) {
	if id != current.ID {
		return nil, common.NewError(common.ErrorNotFound, msgUserNotFound)
	}

	var user *models.User
	err := dbx.WithTx(ctx, s.db, dbx.ReadOnly, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		user, err = s.repomanager.Users(tx).GetByID(ctx, id)
		return translate(err, msgUserNotFound, "")
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Update replaces the current user's profile, re-checking email and
// username uniqueness when they change.
func (s *UserService) Update(ctx context.Context, current *models.User, id int64, in UserUpdate) (*models.User, error) {
	if id != current.ID {
		return nil, common.NewError(common.ErrorNotFound, msgUserNotFound)
	}

	var updated *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetByID(ctx, id)
		if err != nil {
			return translate(err, msgUserNotFound, "")
		}

		if in.Email != user.Email {
			if err := ensureUnique(ctx, repo, in.Email, msgEmailTaken, user.ID); err != nil {
				return err
			}
		}
		if in.UserName != user.UserName {
			if err := ensureUnique(ctx, repo, in.UserName, msgUserNameTaken, user.ID); err != nil {
				return err
			}
		}

		user.UserName = in.UserName
		user.Email = in.Email
		user.ProfileURL = in.ProfileURL
		if in.Password != "" {
			user.PasswordHash, err = s.hasher.Hash(in.Password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
		}

		updated, err = repo.Update(ctx, user)
		return translateUserWrite(err)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the current user; vaults, accounts and cards go with it.
func (s *UserService) Delete(ctx context.Context, current *models.User, id int64) (*models.User, error) {
	if id != current.ID {
		return nil, common.NewError(common.ErrorNotFound, msgUserNotFound)
	}

	var deleted *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		deleted, err = s.repomanager.Users(tx).Delete(ctx, id)
		return translate(err, msgUserNotFound, "")
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// SetupTOTP generates a new authenticator secret for the current user and
// stores it sealed with the user's secret key. It stays inactive until
// EnableTOTP confirms a code.
func (s *UserService) SetupTOTP(ctx context.Context, current *models.User) (*TOTPSetup, error) {
	if current.TOTPEnabled {
		return nil, common.NewError(common.ErrorValidation, msgTOTPEnabled)
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.totpIssuer,
		AccountName: current.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("generate totp: %w", err)
	}

	userKey, err := s.keys.UserKey(current)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(userKey)

	sealed, err := cryptox.EncodeString(key.Secret(), userKey)
	if err != nil {
		return nil, err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return translate(s.repomanager.Users(tx).UpdateTOTP(ctx, current.ID, sealed, false), msgUserNotFound, "")
	})
	if err != nil {
		return nil, err
	}
	return &TOTPSetup{Secret: key.Secret(), URL: key.URL()}, nil
}

// EnableTOTP turns on two-factor authentication once code matches the secret
// from SetupTOTP.
func (s *UserService) EnableTOTP(ctx context.Context, current *models.User, code string) error {
	if current.TOTPEnabled {
		return common.NewError(common.ErrorValidation, msgTOTPEnabled)
	}
	if current.TOTPSecret == "" {
		return common.NewError(common.ErrorValidation, msgTOTPNotSetUp)
	}
	return s.switchTOTP(ctx, current, code, current.TOTPSecret, true)
}

// DisableTOTP turns two-factor authentication off; it takes a valid code so
// a stolen access token alone cannot strip the second factor.
func (s *UserService) DisableTOTP(ctx context.Context, current *models.User, code string) error {
	if !current.TOTPEnabled {
		return common.NewError(common.ErrorValidation, msgTOTPDisabled)
	}
	return s.switchTOTP(ctx, current, code, "", false)
}

func (s *UserService) switchTOTP(ctx context.Context, current *models.User, code, secret string, enabled bool) error {
	ok, err := s.checkOTP(current, code)
	if err != nil {
		return err
	}
	if !ok {
		return common.NewError(common.ErrorUnauthorized, msgBadOTP)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return translate(s.repomanager.Users(tx).UpdateTOTP(ctx, current.ID, secret, enabled), msgUserNotFound, "")
	})
}

// AvatarUploadURL presigns an upload for a new profile picture and points
// the user's profile_url at it.
func (s *UserService) AvatarUploadURL(ctx context.Context, current *models.User, id int64) (uploadURL, profileURL string, err error) {
	if s.storage == nil {
		return "", "", common.NewError(common.ErrorUnavailable, msgStorageDisabled)
	}
	if id != current.ID {
		return "", "", common.NewError(common.ErrorNotFound, msgUserNotFound)
	}

	key, uploadURL, err := s.storage.PresignPut(ctx, id)
	if err != nil {
		return "", "", fmt.Errorf("presign upload: %w", err)
	}
	profileURL = s.storage.ObjectURL(key)

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return translate(s.repomanager.Users(tx).UpdateProfileURL(ctx, id, profileURL), msgUserNotFound, "")
	})
	if err != nil {
		return "", "", err
	}
	return uploadURL, profileURL, nil
}

// AvatarDownloadURL presigns a download of the user's stored profile picture.
func (s *UserService) AvatarDownloadURL(ctx context.Context, current *models.User, id int64) (string, error) {
	if s.storage == nil {
		return "", common.NewError(common.ErrorUnavailable, msgStorageDisabled)
	}
	user, err := s.Get(ctx, current, id)
	if err != nil {
		return "", err
	}
	key, ok := s.storage.KeyFromURL(user.ProfileURL)
	if !ok {
		return "", common.NewError(common.ErrorNotFound, msgAvatarNotFound)
	}
	url, err := s.storage.PresignGet(ctx, key)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return url, nil
}

// ensureUnique fails with an already-exists error carrying msg when value is
// the email or the username of any user other than self. Login accepts
// either, so both columns share one namespace.
func ensureUnique(ctx context.Context, repo users.Repository, value, msg string, self int64) error {
	for _, lookup := range []func(context.Context, string) (*models.User, error){repo.GetByEmail, repo.GetByUserName} {
		u, err := lookup(ctx, value)
		switch {
		case errors.Is(err, common.ErrorNotFound):
		case err != nil:
			return err
		case u.ID != self:
			return common.NewError(common.ErrorAlreadyExists, msg)
		}
	}
	return nil
}

// translateUserWrite reports a unique violation that slipped past
// ensureUnique (a concurrent signup) against the column that collided.
func translateUserWrite(err error) error {
	if errors.Is(err, common.ErrorAlreadyExists) && dbx.ConstraintName(err) == usernameConstraint {
		return common.NewError(common.ErrorAlreadyExists, msgUserNameTaken)
	}
	return translate(err, msgUserNotFound, msgEmailTaken)
}

func (s *UserService) checkOTP(user *models.User, code string) (bool, error) {
	if code == "" || user.TOTPSecret == "" {
		return false, nil
	}
	userKey, err := s.keys.UserKey(user)
	if err != nil {
		return false, err
	}
	defer common.WipeByteArray(userKey)

	secret, err := cryptox.DecodeString(user.TOTPSecret, userKey)
	if err != nil {
		return false, err
	}
	return totp.Validate(code, secret), nil
}
