package domain

import "errors"

// Sentinel errors shared across the core. Services wrap them with
// fmt.Errorf("%w: detail") where a more specific message helps; the API
// layer matches with errors.Is to pick the HTTP status.
var (
	// ErrInvalidArgument covers blank or too-short fields and mismatched
	// password confirmation.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDuplicateAccount is returned when a registration loses the
	// uniqueness check for its account name.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrInvalidCredentials is the single undifferentiated login failure.
	// It deliberately does not reveal whether the account or the password
	// was wrong.
	ErrInvalidCredentials = errors.New("account or password incorrect")

	// ErrNotAuthenticated means no valid session could be resolved.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNoPermission means the caller is authenticated but its role does
	// not satisfy the operation's requirement.
	ErrNoPermission = errors.New("no permission")

	// ErrUserNotFound is returned when a referenced user id has no record.
	ErrUserNotFound = errors.New("user not found")

	// ErrSystemFailure signals an unexpected persistence-layer failure.
	// It is fatal for the operation and never retried.
	ErrSystemFailure = errors.New("internal system error")
)
