package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/alsetso/alsetmaps-backend/internal/database"
	"github.com/alsetso/alsetmaps-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreditService is the ledger behind credit-gated features. Every balance
// change is a single-statement atomic UPDATE paired with an append-only
// transaction row, committed together; concurrent debits that would take
// the balance below zero simply affect zero rows and fail cleanly.
type CreditService struct {
	db *database.DB
}

func NewCreditService(db *database.DB) *CreditService {
	return &CreditService{db: db}
}

// EnsureAccount creates the zero-balance account for a user if missing
func (s *CreditService) EnsureAccount(ctx context.Context, userID uint) (*models.CreditAccount, error) {
	var account models.CreditAccount
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&account).Error
	if err == nil {
		return &account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	account = models.CreditAccount{UserID: userID}
	if createErr := s.db.WithContext(ctx).Create(&account).Error; createErr != nil {
		// Concurrent creation: the unique index on user_id won, re-read
		if readErr := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&account).Error; readErr != nil {
			return nil, createErr
		}
	}
	return &account, nil
}

// Consume debits amount from the user's balance. The guard lives in the
// UPDATE itself: `balance = balance - ? WHERE balance >= ?`, so two
// concurrent debits can never drive the balance negative; the loser sees
// zero rows affected and gets ErrInsufficientCredits.
func (s *CreditService) Consume(ctx context.Context, userID uint, amount int64, reference string) (*models.CreditAccount, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	account, err := s.EnsureAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CreditAccount{}).
			Where("id = ? AND balance >= ?", account.ID, amount).
			Updates(map[string]interface{}{"balance": gorm.Expr("balance - ?", amount)})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientCredits
		}

		return tx.Create(&models.CreditTransaction{
			TxID:      uuid.NewString(),
			AccountID: account.ID,
			Amount:    -amount,
			Kind:      models.CreditTxConsume,
			Reference: reference,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).First(account, account.ID).Error; err != nil {
		return nil, err
	}
	return account, nil
}

// Add credits the user's balance. Mirrors Consume without the floor check.
func (s *CreditService) Add(ctx context.Context, userID uint, amount int64, reference string) (*models.CreditAccount, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	account, err := s.EnsureAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CreditAccount{}).
			Where("id = ?", account.ID).
			Updates(map[string]interface{}{"balance": gorm.Expr("balance + ?", amount)})
		if res.Error != nil {
			return res.Error
		}

		return tx.Create(&models.CreditTransaction{
			TxID:      uuid.NewString(),
			AccountID: account.ID,
			Amount:    amount,
			Kind:      models.CreditTxAdd,
			Reference: reference,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).First(account, account.ID).Error; err != nil {
		return nil, err
	}
	return account, nil
}

// Balance returns the user's current balance
func (s *CreditService) Balance(ctx context.Context, userID uint) (int64, error) {
	account, err := s.EnsureAccount(ctx, userID)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

// History returns the user's ledger entries, newest first
func (s *CreditService) History(ctx context.Context, userID uint, limit int) ([]models.CreditTransaction, error) {
	account, err := s.EnsureAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	var txs []models.CreditTransaction
	err = s.db.WithContext(ctx).
		Where("account_id = ?", account.ID).
		Order("created_at DESC").
		Limit(limit).
		Find(&txs).Error
	return txs, err
}
