package inventory

import "errors"

// Lifecycle failures. Every error returned by Install, Update and Remove
// matches exactly one of these with errors.Is.
var (
	ErrCloneFailed        = errors.New("clone failed")
	ErrPullFailed         = errors.New("pull failed")
	ErrRemoveFailed       = errors.New("remove failed")
	ErrPersistWriteFailed = errors.New("writing plugin list failed")

	ErrNotInstalled     = errors.New("plugin is not installed")
	ErrAlreadyInstalled = errors.New("plugin is already installed")
	ErrUnknownPlugin    = errors.New("plugin is not available in this category")
	ErrAggregateView    = errors.New("cannot install from the All view")
)
