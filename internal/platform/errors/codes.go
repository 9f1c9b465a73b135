// Package errors provides structured error handling for the bazaar core.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// CodeUnauthorized indicates the caller did not authorize the operation.
	CodeUnauthorized Code = "UNAUTHORIZED"

	// CodeNotFound indicates a referenced entity is absent.
	CodeNotFound Code = "NOT_FOUND"

	// CodeInvalidArgument indicates validation of an input failed.
	CodeInvalidArgument Code = "INVALID_ARGUMENT"

	// Ledger errors
	CodeInsufficientBalance Code = "INSUFFICIENT_BALANCE"

	// Multisig errors
	CodeInvalidThreshold Code = "INVALID_THRESHOLD"
	CodeAlreadyExecuted  Code = "ALREADY_EXECUTED"

	// Governance errors
	CodeAlreadyVoted Code = "ALREADY_VOTED"
	CodeNoWeight     Code = "NO_WEIGHT"

	// Lottery errors
	CodeNoParticipants Code = "NO_PARTICIPANTS"

	// Bond errors
	CodeBondLocked Code = "BOND_LOCKED"

	// Admin errors
	CodeMaintenanceActive Code = "MAINTENANCE_ACTIVE"
)
