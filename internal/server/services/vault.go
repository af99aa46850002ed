package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/dbx"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/repomanager"
)

// VaultInput is a validated vault create or update request. UserID is
// optional; when set it must name the current user.
type VaultInput struct {
	Name        string
	Description string
	IconType    string
	UserID      int64
}

// VaultService manages the current user's vaults.
type VaultService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewVaultService(db *sql.DB, m repomanager.RepositoryManager) *VaultService {
	return &VaultService{db: db, repomanager: m}
}

func (s *VaultService) Create(ctx context.Context, current *models.User, in VaultInput) (*models.Vault, error) {
	if err := checkOwner(current, in.UserID); err != nil {
		return nil, err
	}

	var created *models.Vault
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Vaults(tx)

		if err := ensureFree(func() error {
			_, err := repo.GetByName(ctx, in.Name, current.ID)
			return err
		}, msgVaultTaken); err != nil {
			return err
		}

		var err error
		created, err = repo.Create(ctx, &models.Vault{
			Name:        in.Name,
			Description: in.Description,
			IconType:    in.IconType,
			UserID:      current.ID,
		})
		return translate(err, msgVaultNotFound, msgVaultTaken)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *VaultService) Get(ctx context.Context, current *models.User, id int64) (*models.Vault, error) {
	var vault *models.Vault
	err := dbx.WithTx(ctx, s.db, dbx.ReadOnly, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		vault, err = s.repomanager.Vaults(tx).GetByID(ctx, id, current.ID)
		return translate(err, msgVaultNotFound, "")
	})
	if err != nil {
		return nil, err
	}
	return vault, nil
}

// List returns every vault of the current user; none is an empty slice.
func (s *VaultService) List(ctx context.Context, current *models.User) ([]*models.Vault, error) {
	var list []*models.Vault
	err := dbx.WithTx(ctx, s.db, dbx.ReadOnly, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		list, err = s.repomanager.Vaults(tx).List(ctx, current.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (s *VaultService) Update(ctx context.Context, current *models.User, id int64, in VaultInput) (*models.Vault, error) {
	if err := checkOwner(current, in.UserID); err != nil {
		return nil, err
	}

	var updated *models.Vault
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Vaults(tx)

		vault, err := repo.GetByID(ctx, id, current.ID)
		if err != nil {
			return translate(err, msgVaultNotFound, "")
		}

		if in.Name != vault.Name {
			if err := ensureFree(func() error {
				_, err := repo.GetByName(ctx, in.Name, current.ID)
				return err
			}, msgVaultTaken); err != nil {
				return err
			}
		}

		vault.Name = in.Name
		vault.Description = in.Description
		vault.IconType = in.IconType

		updated, err = repo.Update(ctx, vault)
		return translate(err, msgVaultNotFound, msgVaultTaken)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a vault together with the accounts and cards stored in it.
func (s *VaultService) Delete(ctx context.Context, current *models.User, id int64) (*models.Vault, error) {
	var deleted *models.Vault
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		deleted, err = s.repomanager.Vaults(tx).Delete(ctx, id, current.ID)
		return translate(err, msgVaultNotFound, "")
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// checkOwner rejects payloads that name another user as owner.
func checkOwner(current *models.User, userID int64) error {
	if userID != 0 && userID != current.ID {
		return common.NewError(common.ErrorNotFound, msgOwnerNotFound)
	}
	return nil
}

// ensureFree turns a successful name lookup into an already-exists error.
func ensureFree(lookup func() error, msg string) error {
	err := lookup()
	switch {
	case err == nil:
		return common.NewError(common.ErrorAlreadyExists, msg)
	case errors.Is(err, common.ErrorNotFound):
		return nil
	default:
		return err
	}
}

// ensureVault checks that vaultID exists and belongs to userID.
func ensureVault(ctx context.Context, m repomanager.RepositoryManager, tx dbx.DBTX, vaultID, userID int64) error {
	_, err := m.Vaults(tx).GetByID(ctx, vaultID, userID)
	return translate(err, msgVaultNotFound, "")
}
