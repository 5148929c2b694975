// Package mocks holds testify doubles for the store and event interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"cemetery_api/internal/events"
	"cemetery_api/internal/models"
	"cemetery_api/internal/store"
)

// Repository is a mock store.Repository for any entity.
type Repository[M any] struct {
	mock.Mock
}

func (r *Repository[M]) Create(ctx context.Context, m *M) error {
	return r.Called(ctx, m).Error(0)
}

func (r *Repository[M]) Get(ctx context.Context, id uint) (*M, error) {
	args := r.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*M), args.Error(1)
	}
	return nil, args.Error(1)
}

func (r *Repository[M]) List(ctx context.Context, q store.Query) ([]M, error) {
	args := r.Called(ctx, q)
	if v := args.Get(0); v != nil {
		return v.([]M), args.Error(1)
	}
	return nil, args.Error(1)
}

func (r *Repository[M]) Update(ctx context.Context, m *M) error {
	return r.Called(ctx, m).Error(0)
}

func (r *Repository[M]) Delete(ctx context.Context, id uint) error {
	return r.Called(ctx, id).Error(0)
}

// AccountRepository is a mock store.AccountRepository.
type AccountRepository struct {
	Repository[models.Account]
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	args := r.Called(ctx, username)
	if v := args.Get(0); v != nil {
		return v.(*models.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

// TokenStore is a mock store.TokenStore. GetOrCreate calls issue when the
// expectation returns a nil token, mirroring a first login.
type TokenStore struct {
	mock.Mock
}

func (s *TokenStore) GetOrCreate(ctx context.Context, accountID uint, issue func() (string, error)) (*models.Token, error) {
	args := s.Called(ctx, accountID)
	if v := args.Get(0); v != nil {
		return v.(*models.Token), args.Error(1)
	}
	if err := args.Error(1); err != nil {
		return nil, err
	}
	key, err := issue()
	if err != nil {
		return nil, err
	}
	return &models.Token{Key: key, AccountID: accountID}, nil
}

func (s *TokenStore) Lookup(ctx context.Context, key string) (*models.Token, error) {
	args := s.Called(ctx, key)
	if v := args.Get(0); v != nil {
		return v.(*models.Token), args.Error(1)
	}
	return nil, args.Error(1)
}

// Publisher is a mock events.Publisher.
type Publisher struct {
	mock.Mock
}

func (p *Publisher) Publish(ctx context.Context, e events.Event) error {
	return p.Called(ctx, e).Error(0)
}

func (p *Publisher) Close() error {
	return p.Called().Error(0)
}
