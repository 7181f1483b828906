package ledger

import "errors"

// Errors returned by ledger operations. They are always wrapped with some
// context, use errors.Is to match them.
var (
	// ErrNotFound is returned when a referenced account, transaction,
	// category, subcategory, currency or snapshot does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateCurrencyCode is returned when adding a currency whose code is already registered.
	ErrDuplicateCurrencyCode = errors.New("duplicate currency code")
	// ErrCannotDeleteMainCurrency is returned when deleting the main currency.
	ErrCannotDeleteMainCurrency = errors.New("cannot delete the main currency")
	// ErrInvalidTarget is returned when moving transactions to a missing or identical account.
	ErrInvalidTarget = errors.New("invalid target account")
	// ErrInvalidDocument is returned when an imported document cannot be parsed or validated.
	ErrInvalidDocument = errors.New("invalid document")
	// ErrUnknownCurrency is returned when a currency code is not registered.
	ErrUnknownCurrency = errors.New("unknown currency")
	// ErrInvalid is returned when an entity fails validation.
	ErrInvalid = errors.New("invalid")
	// ErrStrategyRequired is returned when an account still has transactions
	// and the caller did not choose between deleting and moving them.
	ErrStrategyRequired = errors.New("deletion strategy required")
)
