package service

import (
	"errors"
	"fmt"
)

var ErrWrongPassword = errors.New("wrong email or password")

// CategoryNotEmptyError blocks deactivating a category that still has
// active products. The count ends up in the user-facing message.
type CategoryNotEmptyError struct {
	Count int64
}

func (e *CategoryNotEmptyError) Error() string {
	return fmt.Sprintf("category has %d active product(s)", e.Count)
}
