package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyProcessed = errors.New("already processed")
)

// ValidationError rejects a request before any store call.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// InsufficientBalanceError carries the balance that blocked the debit so the
// caller can render it.
type InsufficientBalanceError struct {
	Balance   decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: available %s, requested %s",
		e.Balance.StringFixed(2), e.Requested.StringFixed(2))
}

// IsInsufficientBalance reports whether err is an InsufficientBalanceError.
func IsInsufficientBalance(err error) bool {
	var ib *InsufficientBalanceError
	return errors.As(err, &ib)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
