package models

import (
	"time"
)

// CreditAccount holds the spendable balance for one user. The balance is
// only ever changed through single-statement atomic updates so concurrent
// debits can never drive it below zero.
// DB: credit_accounts
type CreditAccount struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"column:user_id;not null;uniqueIndex:credit_accounts_user_id_key" json:"user_id"`
	Balance   int64     `gorm:"column:balance;not null;default:0" json:"balance"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (CreditAccount) TableName() string {
	return "credit_accounts"
}

// Transaction kinds
const (
	CreditTxConsume = "consume"
	CreditTxAdd     = "add"
)

// CreditTransaction is the append-only ledger entry behind every balance
// change. Amount is positive for adds, negative for consumes.
// DB: credit_transactions
type CreditTransaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TxID      string    `gorm:"column:tx_id;size:36;not null;uniqueIndex:credit_transactions_tx_id_key" json:"tx_id"`
	AccountID uint      `gorm:"column:account_id;not null;index:idx_credit_tx_account" json:"account_id"`
	Amount    int64     `gorm:"column:amount;not null" json:"amount"`
	Kind      string    `gorm:"column:kind;size:20;not null" json:"kind"`
	Reference string    `gorm:"column:reference;size:255" json:"reference,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	// Relations
	Account CreditAccount `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}

func (CreditTransaction) TableName() string {
	return "credit_transactions"
}
