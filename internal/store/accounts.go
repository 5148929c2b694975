package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cemetery_api/internal/apperrors"
	"cemetery_api/internal/models"
)

// AccountRepository adds credential lookup to account CRUD.
type AccountRepository interface {
	Repository[models.Account]
	// FindByUsername returns the account or apperrors.ErrNotFound.
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
}

// GormAccountStore implements AccountRepository using GORM.
type GormAccountStore struct {
	*GormRepository[models.Account]
}

// NewAccounts stores login accounts. Deleting an account revokes its token.
func NewAccounts(db *gorm.DB) *GormAccountStore {
	return &GormAccountStore{&GormRepository[models.Account]{DB: db, schema: schema[models.Account]{
		table:  "accounts",
		search: []string{"accounts.username", "accounts.email", "accounts.first_name", "accounts.last_name"},
		ordering: map[string]string{
			"id":         "accounts.id",
			"username":   "accounts.username",
			"dateJoined": "accounts.date_joined", "date_joined": "accounts.date_joined",
		},
		defaults:  []string{"accounts.id"},
		immutable: []string{"date_joined"},
		check: func(tx *gorm.DB, a *models.Account) error {
			var n int64
			if err := tx.Model(&models.Account{}).Where("username = ? AND id <> ?", a.Username, a.ID).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return apperrors.NewValidation("username", "A user with that username already exists.")
			}
			return nil
		},
		cascade: func(tx *gorm.DB, id uint) error {
			return tx.Where("account_id = ?", id).Delete(&models.Token{}).Error
		},
	}}}
}

func (s *GormAccountStore) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	var a models.Account
	if err := s.DB.WithContext(ctx).Where("username = ?", username).Take(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

// TokenStore persists one bearer token per account.
type TokenStore interface {
	// GetOrCreate returns the account's token, calling issue only when the
	// account has none yet.
	GetOrCreate(ctx context.Context, accountID uint, issue func() (string, error)) (*models.Token, error)
	// Lookup returns the token with its account, or apperrors.ErrNotFound.
	Lookup(ctx context.Context, key string) (*models.Token, error)
}

// GormTokenStore implements TokenStore using GORM.
type GormTokenStore struct{ DB *gorm.DB }

// GetOrCreate returns the account's token, calling issue only when none
// exists yet.
func (s *GormTokenStore) GetOrCreate(ctx context.Context, accountID uint, issue func() (string, error)) (*models.Token, error) {
	var tok models.Token
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("account_id = ?", accountID).Take(&tok).Error
		if err == nil || !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		key, err := issue()
		if err != nil {
			return err
		}
		fresh := models.Token{Key: key, AccountID: accountID, CreatedAt: time.Now().UTC()}
		// A concurrent first login may have inserted already; keep theirs.
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Omit(clause.Associations).Create(&fresh).Error; err != nil {
			return err
		}
		return tx.Where("account_id = ?", accountID).Take(&tok).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &tok, nil
}

func (s *GormTokenStore) Lookup(ctx context.Context, key string) (*models.Token, error) {
	var tok models.Token
	if err := s.DB.WithContext(ctx).Preload("Account").Where("key = ?", key).Take(&tok).Error; err != nil {
		return nil, translate(err)
	}
	return &tok, nil
}
