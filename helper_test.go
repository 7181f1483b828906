package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// D is a helper for tests to create decimals from constants.
func D(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// USD is a helper for tests to create dollars from constants.
func USD(v float64) Money { return M(v, "USD") }

// EUR is a helper for tests to create euros from constants.
func EUR(v float64) Money { return M(v, "EUR") }

// fixedClock returns a clock that ticks one second at each call.
func fixedClock() func() time.Time {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

// mustAccount adds an account or fails the test.
func mustAccount(t *testing.T, l *Ledger, name, currency string) Account {
	t.Helper()
	a, err := l.AddAccount(Account{Name: name, Type: Checking, Currency: currency})
	if err != nil {
		t.Fatalf("AddAccount(%q) failed: %v", name, err)
	}
	return a
}

// mustTx adds a transaction or fails the test.
func mustTx(t *testing.T, l *Ledger, tx Transaction) Transaction {
	t.Helper()
	out, err := l.AddTransaction(tx)
	if err != nil {
		t.Fatalf("AddTransaction(%+v) failed: %v", tx, err)
	}
	return out
}

// balance returns the running balance of an account, or fails the test.
func balance(t *testing.T, l *Ledger, id string) decimal.Decimal {
	t.Helper()
	a, ok := l.Account(id)
	if !ok {
		t.Fatalf("account %q not found", id)
	}
	return a.Balance
}

// assertBalance fails the test if the account balance is not want.
func assertBalance(t *testing.T, l *Ledger, id, want string) {
	t.Helper()
	if got := balance(t, l, id); !got.Equal(D(want)) {
		t.Errorf("balance of %q = %s, want %s", id, got, want)
	}
}

// newTestLedger returns a ledger with USD (main), EUR at 0.9 and a fixed clock.
func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l := NewLedger(WithClock(fixedClock()))
	if _, err := l.AddCurrency(Currency{Code: "EUR", Name: "Euro", Rate: D("0.9")}); err != nil {
		t.Fatalf("AddCurrency(EUR) failed: %v", err)
	}
	l.ClearHistory()
	return l
}
