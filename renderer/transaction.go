package renderer

import (
	"fmt"
	"strings"

	"github.com/jelsonhosly/ledger"
)

// transactionRow is a transaction with its account names resolved.
type transactionRow struct {
	ledger.Transaction
	Account   string
	ToAccount string
}

// accountName returns the account name, or its short id when it is gone.
func accountName(s *ledger.State, id string) string {
	if a, ok := s.Account(id); ok {
		return a.Name
	}
	return short(id)
}

// Transaction renders a transaction to a one line sentence.
func Transaction(s *ledger.State, tx ledger.Transaction) string {
	var b strings.Builder
	switch tx.Type {
	case ledger.Income:
		fmt.Fprintf(&b, "Income of %s into %s", tx.Money(), accountName(s, tx.AccountID))
	case ledger.Expense:
		fmt.Fprintf(&b, "Expense of %s from %s", tx.Money(), accountName(s, tx.AccountID))
	case ledger.Transfer:
		fmt.Fprintf(&b, "Transfer of %s from %s to %s", tx.Money(), accountName(s, tx.AccountID), accountName(s, tx.ToAccountID))
	default:
		return string(tx.Type)
	}
	if tx.Category != "" {
		fmt.Fprintf(&b, " (%s", tx.Category)
		if tx.Subcategory != "" {
			fmt.Fprintf(&b, " / %s", tx.Subcategory)
		}
		b.WriteString(")")
	}
	fmt.Fprintf(&b, " on %s", date(tx.Date))
	if !tx.IsPaid {
		b.WriteString(", not paid")
	}
	return b.String()
}

// Transactions renders transactions as a table, in the given order.
func Transactions(s *ledger.State, txs []ledger.Transaction) string {
	rows := make([]transactionRow, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, transactionRow{
			Transaction: tx,
			Account:     accountName(s, tx.AccountID),
			ToAccount:   accountName(s, tx.ToAccountID),
		})
	}
	partials := map[string]string{"transaction_row": "transaction_row.md"}
	return renderTemplate("transactions", "transactions.md", partials, rows)
}
