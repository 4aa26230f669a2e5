package models

import "errors"

// Domain errors surfaced to the HTTP layer as client-visible failures.
var (
	// ErrNotFound is returned when an account, task or transaction is absent.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyClaimed is returned on a second daily reward claim the same day.
	ErrAlreadyClaimed = errors.New("daily reward already claimed today")
	// ErrInsufficientBalance is returned when a debit exceeds the balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrBelowMinimum is returned for withdrawals under the configured minimum.
	ErrBelowMinimum = errors.New("withdrawal amount below minimum")
	// ErrMissingAddress is returned for withdrawals without a wallet address.
	ErrMissingAddress = errors.New("wallet address is required")
	// ErrNotPending is returned when settling a withdrawal that already reached
	// a terminal status.
	ErrNotPending = errors.New("transaction is not pending")
	// ErrUnauthorized is returned when a non-admin calls an admin operation.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidStatus is returned for unknown settlement statuses.
	ErrInvalidStatus = errors.New("invalid transaction status")
	// ErrAlreadyReferred is returned when a user applies a second referral code.
	ErrAlreadyReferred = errors.New("referral code already used")
	// ErrSelfReferral is returned when a user applies their own referral code.
	ErrSelfReferral = errors.New("cannot use your own referral code")
	// ErrTaskAlreadyCompleted is returned for a repeated single-shot task.
	ErrTaskAlreadyCompleted = errors.New("task already completed")
	// ErrTaskUnavailable is returned for inactive, scheduled-out or exhausted tasks.
	ErrTaskUnavailable = errors.New("task is not available")
)
