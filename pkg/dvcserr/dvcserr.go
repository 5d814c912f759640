// Package dvcserr defines the small set of domain-level error kinds shared
// across the engine (spec section 7). They are sentinel values, not a type
// hierarchy: callers compare with errors.Is after any amount of %w
// wrapping added by the package that first detected the condition.
package dvcserr

import "errors"

var (
	// ErrNotFound: a repository, branch, revision, or file does not exist
	// where expected.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists: init over an existing repository; add of an
	// unchanged already-staged file; branch creation over an existing
	// branch.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput: contradictory arguments, or an operation invoked in
	// a state that makes it meaningless (empty staging set at commit
	// time, a path outside the repository on add).
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidData: an internal invariant breach — identical content
	// but differing fingerprint, or a missing snapshot for a recorded
	// fingerprint.
	ErrInvalidData = errors.New("invalid data")

	// ErrDiverged: a non-fast-forward push or pull attempted without
	// --force. Sync further classifies this as peer-ahead or
	// histories-diverged in the error text.
	ErrDiverged = errors.New("diverged")
)
