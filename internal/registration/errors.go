package registration

import (
	"errors"
	"fmt"
)

var (
	// ErrAnchorNotFound means the registration file structure was not recognized
	ErrAnchorNotFound = errors.New("anchor not found")

	// ErrIO wraps read and write failures on the registration file
	ErrIO = errors.New("registration file I/O failed")

	// ErrInvalidResult means the patched text failed the dialect's validation
	ErrInvalidResult = errors.New("patched registration file is not valid")
)

// AnchorError reports which landmark could not be located
type AnchorError struct {
	Path   string
	Anchor string
}

// Error implements the error interface
func (e *AnchorError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s not found", e.Path, e.Anchor)
	}
	return e.Anchor + " not found"
}

// Unwrap lets errors.Is match ErrAnchorNotFound
func (e *AnchorError) Unwrap() error {
	return ErrAnchorNotFound
}
