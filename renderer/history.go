package renderer

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jelsonhosly/ledger"
	md "github.com/nao1215/markdown"
)

// History renders the snapshot log, oldest first, with a marker on the
// snapshot matching the live state.
func History(h *ledger.History) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	if h.Len() == 0 {
		doc.PlainText("History is empty.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignRight,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
		},
		Header: []string{"#", "ID", "When", "Change", ""},
		Rows:   [][]string{},
	}
	for i, s := range h.Snapshots() {
		marker := ""
		if i == h.Cursor() {
			marker = md.Bold("current")
		}
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(i),
			short(s.ID),
			s.Timestamp.Format(time.DateTime),
			cell(s.Description()),
			marker,
		})
	}
	doc.Table(table)

	footer := fmt.Sprintf("%d snapshots", h.Len())
	if h.Limit() > 0 {
		footer += fmt.Sprintf(", keeping at most %d", h.Limit())
	}
	doc.PlainText(footer + ".")
	return doc.String()
}

// BalanceCheck renders the accounts whose running balance does not match
// their transactions.
func BalanceCheck(mismatches []ledger.BalanceMismatch) string {
	var buf bytes.Buffer
	ConditionalBlock(&buf, func(w io.Writer) bool {
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
			},
			Header: []string{"Account", "Balance", "Computed", "Difference"},
			Rows:   [][]string{},
		}
		for _, m := range mismatches {
			cur := m.Account.Currency
			table.Rows = append(table.Rows, []string{
				cell(m.Account.Name),
				m.Account.Money().String(),
				ledger.M(m.Computed, cur).String(),
				ledger.M(m.Difference(), cur).SignedString(),
			})
		}
		if err := md.NewMarkdown(w).Table(table).Build(); err != nil {
			return false
		}
		return len(mismatches) > 0
	})
	if len(mismatches) == 0 {
		buf.WriteString("All account balances match their transactions.\n")
	}
	return buf.String()
}

// DeletionPlan renders the consequences of deleting an account.
func DeletionPlan(p ledger.DeletionPlan) string {
	if !p.RequiresStrategy() {
		return fmt.Sprintf("Account %q has no transactions and can be deleted.\n", p.Account.Name)
	}
	return fmt.Sprintf("Account %q is used by %d transactions. Choose to delete them (-mode delete) or to move them to another account (-mode move -to <account>).\n", p.Account.Name, p.References)
}
