package services

import "fmt"

// ValidationError reports the first field of a write payload that failed a
// required/range check. Nothing is written when it is returned.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value for field %q", e.Field)
}

// DuplicateSKUError reports that a create or update would collide with the
// SKU of another product.
type DuplicateSKUError struct {
	SKU string
}

func (e *DuplicateSKUError) Error() string {
	return fmt.Sprintf("SKU %q already exists", e.SKU)
}

// NotFoundError reports that the targeted product id does not exist.
type NotFoundError struct {
	ID uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product with ID %d not found", e.ID)
}

// StorageError wraps an unexpected failure from the underlying store. It is
// transient from the caller's point of view; the service never retries.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage unavailable: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
