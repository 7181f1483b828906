package renderer

import (
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jelsonhosly/ledger"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// parseTables returns the text of every table cell found in a markdown
// document, as tables of rows of cells. The header is the first row.
func parseTables(t *testing.T, doc string) [][][]string {
	t.Helper()
	src := []byte(doc)
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	root := md.Parser().Parse(text.NewReader(src))

	var tables [][][]string
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case extast.KindTable:
			tables = append(tables, nil)
		case extast.KindTableHeader, extast.KindTableRow:
			var row []string
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				row = append(row, cellText(c, src))
			}
			tables[len(tables)-1] = append(tables[len(tables)-1], row)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return tables
}

// cellText concatenates the text nodes below n.
func cellText(n ast.Node, src []byte) string {
	var b strings.Builder
	ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := c.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(src))
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// column returns the cells of the named column, header excluded.
func column(t *testing.T, table [][]string, name string) []string {
	t.Helper()
	i := slices.Index(table[0], name)
	if i < 0 {
		t.Fatalf("no column %q in %v", name, table[0])
	}
	var out []string
	for _, row := range table[1:] {
		out = append(out, row[i])
	}
	return out
}

func D(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// sample builds a small ledger: USD main, EUR, two accounts, a few transactions.
func sample(t *testing.T) *ledger.Ledger {
	t.Helper()
	l := ledger.NewLedger()
	must := func(_ any, err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(l.AddCurrency(ledger.Currency{Code: "EUR", Name: "Euro", Rate: D("0.5")}))
	a, err := l.AddAccount(ledger.Account{Name: "Checking", Type: ledger.Checking, Balance: D("100")})
	must(a, err)
	b, err := l.AddAccount(ledger.Account{Name: "Livret", Type: ledger.Savings, Currency: "EUR", Balance: D("50")})
	must(b, err)
	must(l.AddCategory(ledger.Category{Name: "Food", Type: ledger.ExpenseCategory, Subcategories: []ledger.Subcategory{{Name: "Bakery"}, {Name: "Market"}}}))
	must(l.AddCategory(ledger.Category{Name: "Salary", Type: ledger.IncomeCategory}))
	day := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	must(l.AddTransaction(ledger.Transaction{Type: ledger.Expense, Amount: D("12"), AccountID: a.ID, Category: "Food", Subcategory: "Bakery", Date: day, IsPaid: true, Note: "croissants"}))
	must(l.AddTransaction(ledger.Transaction{Type: ledger.Income, Amount: D("2000"), AccountID: a.ID, Category: "Salary", Date: day, IsPaid: true}))
	must(l.AddTransaction(ledger.Transaction{Type: ledger.Transfer, Amount: D("10"), AccountID: a.ID, ToAccountID: b.ID, Date: day}))
	return l
}

func TestAccounts(t *testing.T) {
	l := sample(t)
	nw := l.State().NetWorth()
	tables := parseTables(t, Accounts(nw))
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}
	want := []string{"Checking", "Livret", "Net worth"}
	if diff := cmp.Diff(want, column(t, tables[0], "Account")); diff != "" {
		t.Errorf("account names (-want +got):\n%s", diff)
	}
	values := column(t, tables[0], "USD")
	if got, want := values[len(values)-1], nw.Total.String(); got != want {
		t.Errorf("net worth cell = %q, want %q", got, want)
	}
}

func TestTransactions(t *testing.T) {
	l := sample(t)
	txs := slices.Collect(l.Transactions())
	tables := parseTables(t, Transactions(l.State(), txs))
	if len(tables) != 1 || len(tables[0]) != len(txs)+1 {
		t.Fatalf("got tables %v, want one with %d rows", tables, len(txs))
	}
	if diff := cmp.Diff([]string{"yes", "yes", "no"}, column(t, tables[0], "Paid")); diff != "" {
		t.Errorf("paid column (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Food / Bakery", "Salary", ""}, column(t, tables[0], "Category")); diff != "" {
		t.Errorf("category column (-want +got):\n%s", diff)
	}
	if got := column(t, tables[0], "Account")[2]; got != "Checking → Livret" {
		t.Errorf("transfer account cell = %q", got)
	}
	if got := column(t, tables[0], "Date")[0]; got != "2025-04-02" {
		t.Errorf("date cell = %q", got)
	}
}

func TestTransaction(t *testing.T) {
	l := sample(t)
	txs := slices.Collect(l.Transactions())
	testCases := []struct {
		tx   ledger.Transaction
		want []string
	}{
		{txs[0], []string{"Expense", "from Checking", "(Food / Bakery)", "2025-04-02"}},
		{txs[2], []string{"Transfer", "from Checking to Livret", "not paid"}},
	}
	for _, tc := range testCases {
		got := Transaction(l.State(), tc.tx)
		for _, w := range tc.want {
			if !strings.Contains(got, w) {
				t.Errorf("Transaction() = %q, missing %q", got, w)
			}
		}
	}
}

func TestCategoriesAndCurrencies(t *testing.T) {
	l := sample(t)

	cats := parseTables(t, Categories(slices.Collect(l.Categories())))
	if diff := cmp.Diff([]string{"Bakery, Market", ""}, column(t, cats[0], "Subcategories")); diff != "" {
		t.Errorf("subcategories (-want +got):\n%s", diff)
	}

	curs := parseTables(t, Currencies(slices.Collect(l.Currencies())))
	if diff := cmp.Diff([]string{"USD", "EUR"}, column(t, curs[0], "Code")); diff != "" {
		t.Errorf("codes (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"yes", ""}, column(t, curs[0], "Main")); diff != "" {
		t.Errorf("main column (-want +got):\n%s", diff)
	}
}

func TestSummary(t *testing.T) {
	l := sample(t)
	s := l.State().Summary(time.Time{}, time.Time{})
	tables := parseTables(t, Summary(s))
	if len(tables) != 2 {
		t.Fatalf("got %d tables, want totals and categories", len(tables))
	}
	if diff := cmp.Diff([]string{"Salary", "Food"}, column(t, tables[1], "Category")); diff != "" {
		t.Errorf("categories (-want +got):\n%s", diff)
	}

	empty := ledger.NewLedger().State().Summary(time.Time{}, time.Time{})
	if n := len(parseTables(t, Summary(empty))); n != 1 {
		t.Errorf("empty summary has %d tables, want 1", n)
	}
}

func TestHistory(t *testing.T) {
	l := sample(t)
	if got := History(ledger.NewLedger().History()); !strings.Contains(got, "empty") {
		t.Errorf("History() of a new ledger = %q", got)
	}

	l.Undo()
	out := History(l.History())
	if !strings.Contains(out, fmt.Sprintf("%d snapshots", l.History().Len())) {
		t.Errorf("History() has no snapshot count:\n%s", out)
	}
	tables := parseTables(t, out)
	rows := tables[0][1:]
	if len(rows) != l.History().Len() {
		t.Fatalf("got %d rows, want %d", len(rows), l.History().Len())
	}
	markers := column(t, tables[0], "")
	want := make([]string, len(rows))
	want[l.History().Cursor()] = "current"
	if diff := cmp.Diff(want, markers); diff != "" {
		t.Errorf("cursor marker (-want +got):\n%s", diff)
	}
	if got := column(t, tables[0], "Change")[0]; got != "initial state" {
		t.Errorf("first change = %q, want the initial state", got)
	}
}

func TestBalanceCheck(t *testing.T) {
	if got := BalanceCheck(nil); len(parseTables(t, got)) != 0 || !strings.Contains(got, "match") {
		t.Errorf("BalanceCheck(nil) = %q", got)
	}
	m := ledger.BalanceMismatch{Account: ledger.Account{Name: "A", Currency: "USD", Balance: D("10")}, Computed: D("4")}
	tables := parseTables(t, BalanceCheck([]ledger.BalanceMismatch{m}))
	if len(tables) != 1 || len(tables[0]) != 2 {
		t.Fatalf("got tables %v", tables)
	}
	if got, want := column(t, tables[0], "Difference")[0], ledger.M(6, "USD").SignedString(); got != want {
		t.Errorf("difference = %q, want %q", got, want)
	}
}

func TestCell(t *testing.T) {
	if got, want := cell("a|b\nc"), `a\|b c`; got != want {
		t.Errorf("cell() = %q, want %q", got, want)
	}
}
