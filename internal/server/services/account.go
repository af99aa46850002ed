package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/dbx"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/repomanager"
)

// AccountInput is a validated account create or update request. Password is
// plaintext; it is encoded before it reaches the repository.
type AccountInput struct {
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

// AccountService manages stored site logins. Returned accounts always carry
// the decoded password.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	keys        *Keyring
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, keys *Keyring) *AccountService {
	return &AccountService{db: db, repomanager: m, keys: keys}
}

func (s *AccountService) Create(ctx context.Context, current *models.User, in AccountInput) (*models.Account, error) {
	if err := checkOwner(current, in.UserID); err != nil {
		return nil, err
	}

	key, err := s.keys.UserKey(current)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	account := &models.Account{
		Name:        in.Name,
		UserName:    in.UserName,
		Email:       in.Email,
		Password:    in.Password,
		Description: in.Description,
		PageURL:     in.PageURL,
		IconType:    in.IconType,
		VaultID:     in.VaultID,
		UserID:      current.ID,
	}
	if err := sealFields(key, &account.Password); err != nil {
		return nil, err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		if err := ensureVault(ctx, s.repomanager, tx, in.VaultID, current.ID); err != nil {
			return err
		}
		if err := ensureFree(func() error {
			_, err := repo.GetByName(ctx, in.Name, current.ID)
			return err
		}, msgAccountTaken); err != nil {
			return err
		}

		var err error
		account, err = repo.Create(ctx, account)
		return translate(err, msgAccountNotFound, msgAccountTaken)
	})
	if err != nil {
		return nil, err
	}

	account.Password = in.Password
	return account, nil
}

func (s *AccountService) Get(ctx context.Context, current *models.User, id int64) (*models.Account, error) {
	var account *models.Account
	err := dbx.WithTx(ctx, s.db, dbx.ReadOnly, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		account, err = s.repomanager.Accounts(tx).GetByID(ctx, id, current.ID)
		return translate(err, msgAccountNotFound, "")
	})
	if err != nil {
		return nil, err
	}
	if err := s.open(current, account); err != nil {
		return nil, err
	}
	return account, nil
}

// List returns the current user's accounts, optionally narrowed to one
// vault (vaultID 0 means all).
func (s *AccountService) List(ctx context.Context, current *models.User, vaultID int64) ([]*models.Account, error) {
	var list []*models.Account
	err := dbx.WithTx(ctx, s.db, dbx.ReadOnly, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		list, err = s.repomanager.Accounts(tx).List(ctx, current.ID, vaultID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := s.open(current, list...); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *AccountService) Update(ctx context.Context, current *models.User, id int64, in AccountInput) (*models.Account, error) {
	if err := checkOwner(current, in.UserID); err != nil {
		return nil, err
	}

	key, err := s.keys.UserKey(current)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	sealed := in.Password
	if err := sealFields(key, &sealed); err != nil {
		return nil, err
	}

	var updated *models.Account
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		account, err := repo.GetByID(ctx, id, current.ID)
		if err != nil {
			return translate(err, msgAccountNotFound, "")
		}

		if in.VaultID != account.VaultID {
			if err := ensureVault(ctx, s.repomanager, tx, in.VaultID, current.ID); err != nil {
				return err
			}
		}
		if in.Name != account.Name {
			if err := ensureFree(func() error {
				_, err := repo.GetByName(ctx, in.Name, current.ID)
				return err
			}, msgAccountTaken); err != nil {
				return err
			}
		}

		account.Name = in.Name
		account.UserName = in.UserName
		account.Email = in.Email
		account.Password = sealed
		account.Description = in.Description
		account.PageURL = in.PageURL
		account.IconType = in.IconType
		account.VaultID = in.VaultID

		updated, err = repo.Update(ctx, account)
		return translate(err, msgAccountNotFound, msgAccountTaken)
	})
	if err != nil {
		return nil, err
	}

	updated.Password = in.Password
	return updated, nil
}

func (s *AccountService) Delete(ctx context.Context, current *models.User, id int64) (*models.Account, error) {
	var deleted *models.Account
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		deleted, err = s.repomanager.Accounts(tx).Delete(ctx, id, current.ID)
		return translate(err, msgAccountNotFound, "")
	})
	if err != nil {
		return nil, err
	}
	if err := s.open(current, deleted); err != nil {
		return nil, err
	}
	return deleted, nil
}

func (s *AccountService) open(current *models.User, accounts ...*models.Account) error {
	if len(accounts) == 0 {
		return nil
	}
	key, err := s.keys.UserKey(current)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(key)

	for _, a := range accounts {
		if err := openFields(key, &a.Password); err != nil {
			return err
		}
	}
	return nil
}
