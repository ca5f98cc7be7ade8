// Package simerr defines the error taxonomy shared by every core package.
// Errors are sentinel values so callers can match with errors.Is; nothing
// in this module panics to signal an expected failure mode.
package simerr

import "errors"

var (
	// ErrInvalidArgument covers contract violations: empty pick sequences,
	// mismatched item/weight lengths, out-of-range clock sets, duplicate
	// system registration names.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound covers absent lookups that callers chose to upgrade from
	// a bare zero-value/ok-false result into an error (requireX wrappers).
	ErrNotFound = errors.New("not found")

	// ErrBranchLimitReached is returned when creating a branch would
	// exceed MAX_BRANCHES.
	ErrBranchLimitReached = errors.New("branch limit reached")

	// ErrEngineFault wraps a system panic recovered during Engine.Run.
	// The clock is not advanced past the tick that faulted.
	ErrEngineFault = errors.New("engine fault")

	// ErrSerialization covers an unknown component kind on restore, or a
	// malformed save record.
	ErrSerialization = errors.New("serialization error")
)
