// Package sqlstore implements storage.Repository on top of GORM so the
// expense collection can live in SQLite or PostgreSQL.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"expensetracker/internal/models"
	"expensetracker/internal/storage"
)

// Store is a GORM-backed storage.Repository. IDs come from the table's
// autoincrement sequence, which never hands out a deleted ID again.
type Store struct {
	mu      sync.Mutex
	db      *gorm.DB
	closeFn func() error
}

var _ storage.Repository = (*Store)(nil)

// New wraps db. closeFn, if non-nil, is called by Close.
func New(db *gorm.DB, closeFn func() error) *Store {
	return &Store{db: db, closeFn: closeFn}
}

// List implements storage.Repository.
func (s *Store) List(ctx context.Context) ([]models.Expense, error) {
	expenses := []models.Expense{}
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&expenses).Error; err != nil {
		return nil, unavailable("list expenses", err)
	}
	return expenses, nil
}

// Append implements storage.Repository.
func (s *Store) Append(ctx context.Context, e models.Expense) (models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = 0
	if err := s.db.WithContext(ctx).Create(&e).Error; err != nil {
		return models.Expense{}, unavailable("create expense", err)
	}
	return e, nil
}

// Update implements storage.Repository.
func (s *Store) Update(ctx context.Context, id int64, patch models.ExpensePatch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var expense models.Expense
		if err := tx.First(&expense, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		found = true

		if patch.IsEmpty() {
			return nil
		}
		patch.Apply(&expense)
		return tx.Save(&expense).Error
	})
	if err != nil {
		return false, unavailable("update expense", err)
	}
	return found, nil
}

// Delete implements storage.Repository.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Expense{})
	if result.Error != nil {
		return false, unavailable("delete expense", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Close implements storage.Repository.
func (s *Store) Close() error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", storage.ErrStorageUnavailable, op, err)
}
