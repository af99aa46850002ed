package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/dbx"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/repomanager"
)

// CardInput is a validated card create or update request with plaintext
// Number, CCV and PIN.
type CardInput struct {
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

// CardService manages stored payment cards. Number, CCV and PIN are encoded
// at rest and decoded on the way out.
type CardService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	keys        *Keyring
}

func NewCardService(db *sql.DB, m repomanager.RepositoryManager, keys *Keyring) *CardService {
	return &CardService{db: db, repomanager: m, keys: keys}
}

func (s *CardService) Create(ctx context.Context, current *models.User, in CardInput) (*models.Card, error) {
	if err := checkOwner(current, in.UserID); err != nil {
		return nil, err
	}

	key, err := s.keys.UserKey(current)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	card := &models.Card{
		Name:        in.Name,
		Number:      in.Number,
		Type:        in.Type,
		Bank:        in.Bank,
		CCV:         in.CCV,
		Expiration:  in.Expiration,
		PIN:         in.PIN,
		Description: in.Description,
		VaultID:     in.VaultID,
		UserID:      current.ID,
	}
	if err := sealFields(key, &card.Number, &card.CCV, &card.PIN); err != nil {
		return nil, err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Cards(tx)

		if err := ensureVault(ctx, s.repomanager, tx, in.VaultID, current.ID); err != nil {
			return err
		}
		if err := ensureFree(func() error {
			_, err := repo.GetByName(ctx, in.Name, current.ID)
			return err
		}, msgCardTaken); err != nil {
			return err
		}

		var err error
		card, err = repo.Create(ctx, card)
		return translate(err, msgCardNotFound, msgCardTaken)
	})
	if err != nil {
		return nil, err
	}

	card.Number, card.CCV, card.PIN = in.Number, in.CCV, in.PIN
	return card, nil
}

func (s *CardService) Get(ctx context.Context, current *models.User, id int64) (*models.Card, error) {
	var card *models.Card
	err := dbx.WithTx(ctx, s.db, dbx.ReadOnly, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		card, err = s.repomanager.Cards(tx).GetByID(ctx, id, current.ID)
		return translate(err, msgCardNotFound, "")
	})
	if err != nil {
		return nil, err
	}
	if err := s.open(current, card); err != nil {
		return nil, err
	}
	return card, nil
}

// List returns the current user's cards; vaultID 0 means all vaults.
func (s *CardService) List(ctx context.Context, current *models.User, vaultID int64) ([]*models.Card, error) {
	var list []*models.Card
	err := dbx.WithTx(ctx, s.db, dbx.ReadOnly, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		list, err = s.repomanager.Cards(tx).List(ctx, current.ID, vaultID)
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

func (s *CardService) Update(ctx context.Context, current *models.User, id int64, in CardInput) (*models.Card, error) {
	if err := checkOwner(current, in.UserID); err != nil {
		return nil, err
	}

	key, err := s.keys.UserKey(current)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	number, ccv, pin := in.Number, in.CCV, in.PIN
	if err := sealFields(key, &number, &ccv, &pin); err != nil {
		return nil, err
	}

	var updated *models.Card
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Cards(tx)

		card, err := repo.GetByID(ctx, id, current.ID)
		if err != nil {
			return translate(err, msgCardNotFound, "")
		}

		if in.VaultID != card.VaultID {
			if err := ensureVault(ctx, s.repomanager, tx, in.VaultID, current.ID); err != nil {
				return err
			}
		}
		if in.Name != card.Name {
			if err := ensureFree(func() error {
				_, err := repo.GetByName(ctx, in.Name, current.ID)
				return err
			}, msgCardTaken); err != nil {
				return err
			}
		}

		card.Name = in.Name
		card.Number = number
		card.Type = in.Type
		card.Bank = in.Bank
		card.CCV = ccv
		card.Expiration = in.Expiration
		card.PIN = pin
		card.Description = in.Description
		card.VaultID = in.VaultID

		updated, err = repo.Update(ctx, card)
		return translate(err, msgCardNotFound, msgCardTaken)
	})
	if err != nil {
		return nil, err
	}

	updated.Number, updated.CCV, updated.PIN = in.Number, in.CCV, in.PIN
	return updated, nil
}

func (s *CardService) Delete(ctx context.Context, current *models.User, id int64) (*models.Card, error) {
	var deleted *models.Card
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		deleted, err = s.repomanager.Cards(tx).Delete(ctx, id, current.ID)
		return translate(err, msgCardNotFound, "")
	})
	if err != nil {
		return nil, err
	}
	if err := s.open(current, deleted); err != nil {
		return nil, err
	}
	return deleted, nil
}

func (s *CardService) open(current *models.User, cards ...*models.Card) error {
	if len(cards) == 0 {
		return nil
	}
	key, err := s.keys.UserKey(current)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(key)

	for _, c := range cards {
		if err := openFields(key, &c.Number, &c.CCV, &c.PIN); err != nil {
			return err
		}
	}
	return nil
}
