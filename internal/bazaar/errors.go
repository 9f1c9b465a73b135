package bazaar

import (
	apperrors "github.com/PinoyQ8/trust-bazaar/internal/platform/errors"
)

var (
	// ErrUnauthorized indicates the caller did not authorize the call or is
	// not permitted to act on the referenced entity.
	ErrUnauthorized = apperrors.New(apperrors.CodeUnauthorized, "caller is not authorized")
	// ErrNotFound indicates a referenced escrow, wallet, or transaction is absent.
	ErrNotFound = apperrors.New(apperrors.CodeNotFound, "entity not found")
	// ErrInvalidPrincipal indicates an empty principal identifier.
	ErrInvalidPrincipal = apperrors.New(apperrors.CodeInvalidArgument, "principal is required")
	// ErrInsufficientBalance indicates a burn or debit exceeds available funds.
	ErrInsufficientBalance = apperrors.New(apperrors.CodeInsufficientBalance, "balance is insufficient")
	// ErrInvalidThreshold indicates a wallet threshold outside 1..len(owners).
	ErrInvalidThreshold = apperrors.New(apperrors.CodeInvalidThreshold, "threshold must be between 1 and the owner count")
	// ErrAlreadyExecuted indicates a wallet transaction reached its terminal state.
	ErrAlreadyExecuted = apperrors.New(apperrors.CodeAlreadyExecuted, "transaction is already executed")
	// ErrAlreadyVoted indicates a repeat vote on the same proposal.
	ErrAlreadyVoted = apperrors.New(apperrors.CodeAlreadyVoted, "principal already voted on this proposal")
	// ErrNoWeight indicates a voter with zero BZR balance.
	ErrNoWeight = apperrors.New(apperrors.CodeNoWeight, "voter has no balance weight")
	// ErrNoParticipants indicates a lottery draw over an empty pool.
	ErrNoParticipants = apperrors.New(apperrors.CodeNoParticipants, "lottery pool is empty")
	// ErrBondLocked indicates a withdraw before the bond lock expired.
	ErrBondLocked = apperrors.New(apperrors.CodeBondLocked, "bond is still locked")
	// ErrMaintenanceActive indicates the global circuit breaker is set.
	ErrMaintenanceActive = apperrors.New(apperrors.CodeMaintenanceActive, "maintenance mode is active")
)
