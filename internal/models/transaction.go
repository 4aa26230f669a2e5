package models

import "time"

// Transaction types.
const (
	TxDeposit    = "deposit"
	TxWithdrawal = "withdrawal"
	TxReward     = "reward"
	TxRefund     = "refund"
	TxFee        = "fee"
)

// Transaction statuses. pending may move to processing, completed, rejected
// or cancelled; completed, rejected and cancelled are terminal.
const (
	TxStatusPending    = "pending"
	TxStatusProcessing = "processing"
	TxStatusCompleted  = "completed"
	TxStatusRejected   = "rejected"
	TxStatusCancelled  = "cancelled"
)

// Transaction is the ledger/state record of a withdrawal request. The
// requested amount plus fee is debited from the balance when the record is
// created; cancellation or rejection credits it back in full.
type Transaction struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	UserID uint   `json:"userId" gorm:"index:idx_tx_user_created;not null"`
	Type   string `json:"type" gorm:"size:32;not null"`
	// Amount is the requested withdrawal amount, fee excluded.
	Amount int64 `json:"amount" gorm:"not null"`
	// Fee is recorded separately from Amount so a refund can restore both.
	Fee             int64  `json:"fee" gorm:"not null;default:0"`
	Status          string `json:"status" gorm:"size:32;not null;default:'pending';index"`
	Method          string `json:"method" gorm:"size:64"`
	WalletAddress   string `json:"walletAddress" gorm:"size:256"`
	TransactionHash string `json:"transactionHash" gorm:"size:128"`
	Description     string `json:"description" gorm:"size:255"`
	AdminNotes      string `json:"adminNotes" gorm:"size:1024"`
	// ProcessedByID is the admin user who settled the withdrawal.
	ProcessedByID *uint      `json:"processedBy,omitempty"`
	ProcessedAt   *time.Time `json:"processedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt" gorm:"index:idx_tx_user_created"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// IsTerminal reports whether the transaction reached a final status and
// must not be mutated further.
func (t *Transaction) IsTerminal() bool {
	switch t.Status {
	case TxStatusCompleted, TxStatusRejected, TxStatusCancelled:
		return true
	}
	return false
}
