package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountType classifies accounts. It carries no behavior.
type AccountType string

// Account types.
const (
	Checking   AccountType = "checking"
	Cash       AccountType = "cash"
	Credit     AccountType = "credit"
	Investment AccountType = "investment"
	Crypto     AccountType = "crypto"
	Wallet     AccountType = "wallet"
	Loan       AccountType = "loan"
	Savings    AccountType = "savings"
	Business   AccountType = "business"
	Other      AccountType = "other"
)

// AccountTypes lists every valid account type.
var AccountTypes = []AccountType{Checking, Cash, Credit, Investment, Crypto, Wallet, Loan, Savings, Business, Other}

// ParseAccountType parses an account type, case insensitively.
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range AccountTypes {
		if v == t {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown account type %q: %w", s, ErrInvalid)
}

// Account is a place where money is held.
//
// Balance is a running total: it is moved by the paid transactions that
// reference the account, and is never recomputed from scratch.
// OpeningBalance is the balance the account was created with, shifted by
// manual balance edits. It is maintained by the ledger.
type Account struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Type           AccountType     `json:"type"`
	Balance        decimal.Decimal `json:"balance"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Currency       string          `json:"currency"`
	Color          string          `json:"color,omitempty"`
	Icon           string          `json:"icon,omitempty"`
}

// Money returns the account balance in the account currency.
func (a Account) Money() Money { return M(a.Balance, a.Currency) }

// validate checks the account fields and applies quick fixes.
func (a Account) validate(currencies *CurrencyTable) (Account, error) {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return a, fmt.Errorf("account name is missing: %w", ErrInvalid)
	}
	if a.Type == "" {
		a.Type = Other
	}
	if _, err := ParseAccountType(string(a.Type)); err != nil {
		return a, err
	}
	a.Currency = strings.ToUpper(a.Currency)
	if a.Currency == "" {
		a.Currency = currencies.Main().Code
	}
	if !currencies.Has(a.Currency) {
		return a, fmt.Errorf("account %q currency %q: %w", a.Name, a.Currency, ErrUnknownCurrency)
	}
	return a, nil
}
