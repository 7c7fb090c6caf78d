package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSaleCreateFailed = errors.New("sale creation failed")
	ErrSaleNotFound     = errors.New("sale not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrEmailExists      = errors.New("email already exists")
)

// ValidationError reports the first invalid field of a request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
}
