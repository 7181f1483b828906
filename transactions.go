package ledger

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of a transaction.
type TransactionType string

const (
	Income   TransactionType = "income"
	Expense  TransactionType = "expense"
	Transfer TransactionType = "transfer"
)

// ParseTransactionType parses "income", "expense" or "transfer".
func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(strings.ToLower(strings.TrimSpace(s))); t {
	case Income, Expense, Transfer:
		return t, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q: %w", s, ErrInvalid)
	}
}

// RecurringUnit is the period unit of a recurring transaction.
type RecurringUnit string

const (
	Daily   RecurringUnit = "day"
	Weekly  RecurringUnit = "week"
	Monthly RecurringUnit = "month"
	Yearly  RecurringUnit = "year"
)

// ParseRecurringUnit parses a recurring unit.
func ParseRecurringUnit(s string) (RecurringUnit, error) {
	switch u := RecurringUnit(strings.ToLower(strings.TrimSpace(s))); u {
	case Daily, Weekly, Monthly, Yearly:
		return u, nil
	default:
		return "", fmt.Errorf("unknown recurring unit %q: %w", s, ErrInvalid)
	}
}

// Transaction moves money into, out of, or between accounts.
//
// Only paid transactions affect account balances. The recurring fields are
// descriptive: no instance is ever generated from them.
type Transaction struct {
	ID             string          // ID is assigned by the ledger.
	Type           TransactionType // Type is income, expense or transfer.
	Amount         decimal.Decimal // Amount is strictly positive.
	Currency       string          // Currency defaults to the account currency.
	AccountID      string          // AccountID is the account debited (expense, transfer) or credited (income).
	ToAccountID    string          // ToAccountID is the credited account of a transfer.
	Category       string          // Category is a category name, for income and expense.
	Subcategory    string          // Subcategory is a subcategory name within Category.
	Date           time.Time       // Date defaults to now.
	IsPaid         bool            // IsPaid governs the balance effect.
	IsRecurring    bool
	RecurringUnit  RecurringUnit
	RecurringValue int
	Receipt        string // Receipt is an opaque reference to a receipt image.
	Note           string
}

// Money returns the transaction amount in its currency.
func (t Transaction) Money() Money { return M(t.Amount, t.Currency) }

// effect is a signed change applied to an account balance.
type effect struct {
	account string
	delta   decimal.Decimal
}

// effects returns the balance changes of t, none if it is not paid.
func (t Transaction) effects() []effect {
	if !t.IsPaid {
		return nil
	}
	switch t.Type {
	case Income:
		return []effect{{t.AccountID, t.Amount}}
	case Expense:
		return []effect{{t.AccountID, t.Amount.Neg()}}
	case Transfer:
		// face value on both legs, whatever the account currencies.
		return []effect{{t.AccountID, t.Amount.Neg()}, {t.ToAccountID, t.Amount}}
	}
	return nil
}

// References reports whether t uses the account on either leg.
func (t Transaction) References(accountID string) bool {
	return t.AccountID == accountID || t.ToAccountID == accountID
}

// validate checks t against the state and applies quick fixes: fields that do
// not belong to the type are cleared, the currency and date get defaults.
// prev is the stored version when t is an update, it allows keeping a
// category name that no longer exists.
func (t Transaction) validate(s *State, prev *Transaction) (Transaction, error) {
	var err error
	if t.Type, err = ParseTransactionType(string(t.Type)); err != nil {
		return t, err
	}
	if !t.Amount.IsPositive() {
		return t, fmt.Errorf("transaction amount must be positive, got %s: %w", t.Amount, ErrInvalid)
	}
	account, ok := s.Account(t.AccountID)
	if !ok {
		return t, fmt.Errorf("transaction account %q: %w", t.AccountID, ErrNotFound)
	}

	if t.Type == Transfer {
		t.Category, t.Subcategory = "", ""
		if t.ToAccountID == "" {
			return t, fmt.Errorf("transfer destination account is missing: %w", ErrInvalid)
		}
		if t.ToAccountID == t.AccountID {
			return t, fmt.Errorf("transfer from account %q to itself: %w", t.AccountID, ErrInvalid)
		}
		if _, ok := s.Account(t.ToAccountID); !ok {
			return t, fmt.Errorf("transfer destination account %q: %w", t.ToAccountID, ErrNotFound)
		}
	} else {
		t.ToAccountID = ""
		if err := t.validateCategory(s, prev); err != nil {
			return t, err
		}
	}

	t.Currency = strings.ToUpper(t.Currency)
	if t.Currency == "" {
		t.Currency = account.Currency
	}
	if !s.currencies.Has(t.Currency) {
		return t, fmt.Errorf("transaction currency %q: %w", t.Currency, ErrUnknownCurrency)
	}
	if t.Date.IsZero() {
		t.Date = s.now()
		if prev != nil {
			t.Date = prev.Date
		}
	}

	if t.IsRecurring {
		if t.RecurringUnit, err = ParseRecurringUnit(string(t.RecurringUnit)); err != nil {
			return t, err
		}
		if t.RecurringValue <= 0 {
			return t, fmt.Errorf("recurring value must be positive, got %d: %w", t.RecurringValue, ErrInvalid)
		}
	} else {
		t.RecurringUnit, t.RecurringValue = "", 0
	}
	return t, nil
}

func (t Transaction) validateCategory(s *State, prev *Transaction) error {
	if t.Category == "" {
		if t.Subcategory != "" {
			return fmt.Errorf("subcategory %q without category: %w", t.Subcategory, ErrInvalid)
		}
		return nil
	}
	unchanged := prev != nil && prev.Category == t.Category
	cat, ok := s.CategoryByName(t.Category, CategoryType(t.Type))
	if !ok {
		if unchanged && (t.Subcategory == "" || prev.Subcategory == t.Subcategory) {
			// a dangling name left by a deleted or renamed category.
			return nil
		}
		return fmt.Errorf("%s category %q: %w", t.Type, t.Category, ErrNotFound)
	}
	if t.Subcategory == "" {
		return nil
	}
	if _, ok := cat.Subcategory(t.Subcategory); !ok {
		if unchanged && prev.Subcategory == t.Subcategory {
			return nil
		}
		return fmt.Errorf("subcategory %q of %q: %w", t.Subcategory, t.Category, ErrNotFound)
	}
	return nil
}

// MarshalJSON writes the transaction with a stable field order, omitting
// fields that do not apply.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("type", t.Type)
	w.Append("amount", t.Amount)
	w.Append("currency", t.Currency)
	w.Append("accountId", t.AccountID)
	w.Optional("toAccountId", t.ToAccountID)
	w.Optional("category", t.Category)
	w.Optional("subcategory", t.Subcategory)
	w.Append("date", t.Date.Format(time.RFC3339Nano))
	w.Append("isPaid", t.IsPaid)
	if t.IsRecurring {
		w.Append("isRecurring", true)
		w.Append("recurringUnit", t.RecurringUnit)
		w.Append("recurringValue", t.RecurringValue)
	}
	w.Optional("receipt", t.Receipt)
	w.Optional("note", t.Note)
	return w.MarshalJSON()
}

// UnmarshalJSON reads the format written by MarshalJSON.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var j struct {
		ID             string          `json:"id"`
		Type           TransactionType `json:"type"`
		Amount         decimal.Decimal `json:"amount"`
		Currency       string          `json:"currency"`
		AccountID      string          `json:"accountId"`
		ToAccountID    string          `json:"toAccountId"`
		Category       string          `json:"category"`
		Subcategory    string          `json:"subcategory"`
		Date           time.Time       `json:"date"`
		IsPaid         bool            `json:"isPaid"`
		IsRecurring    bool            `json:"isRecurring"`
		RecurringUnit  RecurringUnit   `json:"recurringUnit"`
		RecurringValue int             `json:"recurringValue"`
		Receipt        string          `json:"receipt"`
		Note           string          `json:"note"`
	}
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*t = Transaction(j)
	return nil
}
