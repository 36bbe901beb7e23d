package memory

import "errors"

var (
	ErrEmptyText    = errors.New("memory text is empty")
	ErrMissingOwner = errors.New("memory owner is required")
)

// ValidateAdd checks the input shared by every backend.
func ValidateAdd(in AddInput) error {
	if in.OwnerID == "" {
		return ErrMissingOwner
	}
	if in.Text == "" {
		return ErrEmptyText
	}
	return nil
}
