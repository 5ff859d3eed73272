package custom_err

import "errors"

var (
	// Directory errors
	ErrUserNotFound    = errors.New("user not found")
	ErrAccountNotFound = errors.New("account not found")
	ErrCardNotFound    = errors.New("card not found")
	ErrAccountNotEmpty = errors.New("account balance is not zero")

	// Money movement errors
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrConversionUnsupported = errors.New("currency conversion unsupported")
	ErrCardFrozen            = errors.New("card is frozen")
	ErrNotSavingsAccount     = errors.New("not a savings account")
	ErrUnsupportedReport     = errors.New("report not supported for savings account")

	// Split payment errors
	ErrInvalidParticipant = errors.New("account is not a split payment participant")
	ErrShareCountMismatch = errors.New("custom amounts do not match participant count")

	// Validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidCurrency = errors.New("invalid currency")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrUnknownCommand  = errors.New("unknown command")
)
