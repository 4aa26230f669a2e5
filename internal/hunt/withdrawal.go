package hunt

import (
	"fmt"
	"time"

	"github.com/onehunt/onehuntbot/internal/models"
)

const defaultWithdrawalMethod = "crypto"

// RequestWithdrawal places a withdrawal request. The amount plus fee is
// debited immediately: funds are held, not merely reserved. The pending
// Transaction records amount and fee separately so the hold can be released
// in full on cancellation or rejection.
func (h *Hunt) RequestWithdrawal(userID uint, amount int64, walletAddress, method string) (*models.WithdrawalResult, error) {
	if amount < h.economy.MinWithdrawal {
		return nil, models.ErrBelowMinimum
	}
	if walletAddress == "" {
		return nil, models.ErrMissingAddress
	}

	if _, err := h.repo.GetUserByID(userID); err != nil {
		return nil, err
	}

	fee := amount * h.economy.WithdrawalFeePercent / 100
	if err := h.debit(userID, amount+fee); err != nil {
		return nil, err
	}

	if method == "" {
		method = defaultWithdrawalMethod
	}

	tx := &models.Transaction{
		UserID:        userID,
		Type:          models.TxWithdrawal,
		Amount:        amount,
		Fee:           fee,
		Status:        models.TxStatusPending,
		Method:        method,
		WalletAddress: walletAddress,
		Description:   fmt.Sprintf("Withdrawal request: %d coins", amount),
	}
	if err := h.repo.CreateTransaction(tx); err != nil {
		// The hold stays in place; the request itself failed.
		return nil, err
	}

	user, err := h.repo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	return &models.WithdrawalResult{Transaction: tx, NewBalance: user.Balance}, nil
}

// WithdrawalStatus returns one of the caller's withdrawal transactions.
func (h *Hunt) WithdrawalStatus(userID, txID uint) (*models.Transaction, error) {
	return h.repo.GetUserWithdrawal(txID, userID)
}

// CancelWithdrawal lets the owner cancel a still-pending withdrawal. The
// held amount plus fee is credited back in full.
func (h *Hunt) CancelWithdrawal(userID, txID uint) (*models.WithdrawalResult, error) {
	tx, err := h.repo.GetUserWithdrawal(txID, userID)
	if err != nil {
		return nil, err
	}
	if tx.Status != models.TxStatusPending {
		return nil, models.ErrNotFound
	}

	tx.Status = models.TxStatusCancelled
	won, err := h.repo.TransitionWithdrawal(tx, models.TxStatusPending)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, models.ErrNotFound
	}

	refundAmount := tx.Amount + tx.Fee
	if err := h.refund(userID, refundAmount); err != nil {
		return nil, err
	}

	user, err := h.repo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	return &models.WithdrawalResult{
		Transaction:  tx,
		RefundAmount: refundAmount,
		NewBalance:   user.Balance,
	}, nil
}

// ProcessWithdrawal settles a pending withdrawal on behalf of an admin.
// Rejection refunds the full hold; completion keeps the fee and adds the
// amount to the user's total withdrawn.
func (h *Hunt) ProcessWithdrawal(adminID, txID uint, status, txHash, adminNotes string) (*models.Transaction, error) {
	admin, err := h.repo.GetUserByID(adminID)
	if err != nil {
		return nil, err
	}
	if !admin.IsAdmin {
		return nil, models.ErrUnauthorized
	}

	switch status {
	case models.TxStatusProcessing, models.TxStatusCompleted, models.TxStatusRejected:
	default:
		return nil, models.ErrInvalidStatus
	}

	tx, err := h.repo.GetTransactionByID(txID)
	if err != nil {
		return nil, err
	}
	if tx.Type != models.TxWithdrawal {
		return nil, models.ErrNotFound
	}
	if tx.Status != models.TxStatusPending {
		return nil, models.ErrNotPending
	}

	now := time.Now().UTC()
	tx.Status = status
	tx.TransactionHash = txHash
	tx.AdminNotes = adminNotes
	tx.ProcessedByID = &adminID
	tx.ProcessedAt = &now

	won, err := h.repo.TransitionWithdrawal(tx, models.TxStatusPending)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, models.ErrNotPending
	}

	switch status {
	case models.TxStatusRejected:
		if err := h.refund(tx.UserID, tx.Amount+tx.Fee); err != nil {
			return nil, err
		}
	case models.TxStatusCompleted:
		if err := h.repo.IncrementTotalWithdrawn(tx.UserID, tx.Amount); err != nil {
			return nil, err
		}
		// The fee stays debited and is not accounted as revenue anywhere;
		// log it so the books can be reconciled externally.
		h.logger.Infow("Withdrawal completed", "transaction", tx.ID, "amount", tx.Amount, "feeRetained", tx.Fee)
	}

	return tx, nil
}

// TransactionHistory lists a user's transactions, newest first, optionally
// filtered by type.
func (h *Hunt) TransactionHistory(userID uint, txType string, page, limit int) ([]*models.Transaction, *models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	txs, total, err := h.repo.ListTransactions(userID, txType, page, limit)
	if err != nil {
		return nil, nil, err
	}

	return txs, &models.Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: (total + int64(limit) - 1) / int64(limit),
	}, nil
}
