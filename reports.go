package ledger

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance is an account balance with its value in the main currency.
type AccountBalance struct {
	Account   Account
	Converted Money
	Estimated bool // Estimated is true when the account currency is no longer registered.
}

// NetWorth is the sum of all account balances in the main currency.
type NetWorth struct {
	Total    Money
	Accounts []AccountBalance
}

// NetWorth converts every account balance into the main currency and sums
// them. Balances in unregistered currencies are read as main currency amounts.
func (s *State) NetWorth() NetWorth {
	main := s.currencies.Main().Code
	nw := NetWorth{Total: M(0, main)}
	for _, a := range s.accounts {
		conv, ok := s.currencies.ConvertOrMain(a.Money(), main)
		nw.Accounts = append(nw.Accounts, AccountBalance{Account: a, Converted: conv, Estimated: !ok})
		nw.Total = nw.Total.Add(conv)
	}
	return nw
}

// CategoryTotal is the sum of paid transactions of a category.
type CategoryTotal struct {
	Type     TransactionType
	Category string // empty for uncategorized transactions
	Count    int
	Total    Money
}

// Summary sums paid income and expense over a period, in the main currency.
// Transfers are left out.
type Summary struct {
	From, To   time.Time
	Income     Money
	Expense    Money
	Categories []CategoryTotal
}

// Net returns income minus expense.
func (s Summary) Net() Money { return s.Income.Sub(s.Expense) }

// Summary computes the income and expense of paid transactions dated in [from, to).
func (s *State) Summary(from, to time.Time) Summary {
	main := s.currencies.Main().Code
	sum := Summary{From: from, To: to, Income: M(0, main), Expense: M(0, main)}
	type key struct {
		typ TransactionType
		cat string
	}
	totals := make(map[key]*CategoryTotal)
	for tx := range s.Transactions(Paid(true), Between(from, to)) {
		if tx.Type == Transfer {
			continue
		}
		conv, _ := s.currencies.ConvertOrMain(tx.Money(), main)
		if tx.Type == Income {
			sum.Income = sum.Income.Add(conv)
		} else {
			sum.Expense = sum.Expense.Add(conv)
		}
		k := key{tx.Type, tx.Category}
		t, ok := totals[k]
		if !ok {
			t = &CategoryTotal{Type: tx.Type, Category: tx.Category, Total: M(0, main)}
			totals[k] = t
		}
		t.Count++
		t.Total = t.Total.Add(conv)
	}
	for _, t := range totals {
		sum.Categories = append(sum.Categories, *t)
	}
	// income first, then the biggest totals.
	slices.SortFunc(sum.Categories, func(a, b CategoryTotal) int {
		if a.Type != b.Type {
			return cmp.Compare(a.Type, b.Type) * -1
		}
		if c := b.Total.value.Cmp(a.Total.value); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return sum
}

// BalanceMismatch reports an account whose running balance differs from its
// recomputed balance.
type BalanceMismatch struct {
	Account  Account
	Computed decimal.Decimal
}

// Difference returns the running balance minus the computed one.
func (m BalanceMismatch) Difference() decimal.Decimal { return m.Account.Balance.Sub(m.Computed) }

// CheckBalances compares each running balance with the balance recomputed
// from the opening balance and paid transactions. Moving transactions between
// accounts, or deleting an account with transfers, legitimately creates
// mismatches.
func (s *State) CheckBalances() []BalanceMismatch {
	var out []BalanceMismatch
	for _, a := range s.accounts {
		computed, _ := s.ComputedBalance(a.ID)
		if !computed.Equal(a.Balance) {
			out = append(out, BalanceMismatch{Account: a, Computed: computed})
		}
	}
	return out
}
