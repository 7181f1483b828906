package ledger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// sampleLedger returns a ledger with a bit of everything.
func sampleLedger(t *testing.T) *Ledger {
	t.Helper()
	l := newTestLedger(t)
	a, err := l.AddAccount(Account{Name: "Main", Type: Checking, Balance: D("1200.50"), Color: "#00ff00"})
	if err != nil {
		t.Fatal(err)
	}
	b := mustAccount(t, l, "Savings", "EUR")
	salary, err := l.AddCategory(Category{Name: "Salary", Type: IncomeCategory})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.AddCategory(Category{Name: "Food", Type: ExpenseCategory, Icon: "cart", Subcategories: []Subcategory{{Name: "Restaurant"}}}); err != nil {
		t.Fatal(err)
	}
	mustTx(t, l, Transaction{Type: Income, Amount: D("3000"), AccountID: a.ID, Category: salary.Name, IsPaid: true, IsRecurring: true, RecurringUnit: Monthly, RecurringValue: 1, Note: "March"})
	mustTx(t, l, Transaction{Type: Expense, Amount: D("42.10"), AccountID: a.ID, Category: "Food", Subcategory: "Restaurant", Receipt: "r-1.jpg"})
	mustTx(t, l, Transaction{Type: Transfer, Amount: D("500"), AccountID: a.ID, ToAccountID: b.ID, IsPaid: true, Date: time.Date(2025, 2, 3, 4, 5, 6, 789, time.UTC)})
	return l
}

func TestDocument_RoundTrip(t *testing.T) {
	l := sampleLedger(t)
	want := l.ExportData()

	var buf bytes.Buffer
	if err := l.Export(&buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	fresh := NewLedger(WithClock(fixedClock()))
	if err := fresh.Import(&buf); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if diff := diffState(want, fresh.ExportData()); diff != "" {
		t.Errorf("imported state (-want +got):\n%s", diff)
	}
	if fresh.MainCurrency().Code != "USD" {
		t.Errorf("main currency = %s, want USD", fresh.MainCurrency().Code)
	}

	// one snapshot, undoable.
	cur, _ := fresh.History().Current()
	if cur.Action != ActionImport || fresh.History().Len() != 2 {
		t.Errorf("import recorded %q with %d snapshots, want one import", cur.Action, fresh.History().Len())
	}
	fresh.Undo()
	if n, _, _, tx := fresh.State().Len(); n != 0 || tx != 0 {
		t.Errorf("Undo of the import left %d accounts and %d transactions", n, tx)
	}
}

func TestDocument_EmptyLedgerRoundTrip(t *testing.T) {
	l := NewLedger()
	var buf bytes.Buffer
	if err := l.Export(&buf); err != nil {
		t.Fatal(err)
	}
	other := NewLedger()
	if err := other.Import(&buf); err != nil {
		t.Fatalf("Import of an empty ledger failed: %v", err)
	}
	if diff := diffState(l.ExportData(), other.ExportData()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestDocument_KeepsDanglingReferences(t *testing.T) {
	l := sampleLedger(t)
	for c := range l.Categories() {
		if c.Name == "Food" {
			if err := l.DeleteCategory(c.ID); err != nil {
				t.Fatal(err)
			}
		}
	}
	var buf bytes.Buffer
	if err := l.Export(&buf); err != nil {
		t.Fatal(err)
	}
	if err := NewLedger().Import(&buf); err != nil {
		t.Errorf("Import with a dangling category name failed: %v", err)
	}
}

func TestDocument_InvalidImportLeavesStateUnchanged(t *testing.T) {
	l := sampleLedger(t)
	valid := l.ExportData()

	testCases := []struct {
		name   string
		mutate func(d *Document)
	}{
		{"no main currency", func(d *Document) { d.Currencies[0].IsMain = false }},
		{"two main currencies", func(d *Document) { d.Currencies[1].IsMain = true }},
		{"duplicate currency", func(d *Document) { d.Currencies = append(d.Currencies, d.Currencies[1]) }},
		{"zero rate", func(d *Document) { d.Currencies[1].Rate = D("0") }},
		{"account without id", func(d *Document) { d.Accounts[0].ID = "" }},
		{"duplicate account", func(d *Document) { d.Accounts[1].ID = d.Accounts[0].ID }},
		{"unknown account type", func(d *Document) { d.Accounts[0].Type = "piggy" }},
		{"transaction on unknown account", func(d *Document) { d.Transactions[0].AccountID = "nope" }},
		{"transfer to itself", func(d *Document) { d.Transactions[2].ToAccountID = d.Transactions[2].AccountID }},
		{"negative amount", func(d *Document) { d.Transactions[1].Amount = D("-1") }},
		{"transaction without date", func(d *Document) { d.Transactions[1].Date = time.Time{} }},
		{"category without name", func(d *Document) { d.Categories[0].Name = "" }},
		{"future version", func(d *Document) { d.Version = DocumentVersion + 1 }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc := l.ExportData()
			tc.mutate(&doc)
			n := l.History().Len()
			err := l.ImportData(doc)
			if !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("ImportData error = %v, want ErrInvalidDocument", err)
			}
			if diff := diffState(valid, l.ExportData()); diff != "" {
				t.Errorf("state changed (-want +got):\n%s", diff)
			}
			if l.History().Len() != n {
				t.Errorf("a rejected import recorded a snapshot")
			}
		})
	}
}

func TestDocument_ValidateReportsEveryProblem(t *testing.T) {
	doc := sampleLedger(t).ExportData()
	doc.Accounts[0].Name = ""
	doc.Transactions[0].Amount = D("0")
	err := doc.Validate()
	if err == nil {
		t.Fatal("Validate() = nil")
	}
	for _, want := range []string{"has no name", "amount must be positive"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() = %q, missing %q", err, want)
		}
	}
}

func TestDecodeDocument_Malformed(t *testing.T) {
	for _, in := range []string{"", "{", `{"accounts": 3}`, "[]"} {
		if _, err := DecodeDocument(strings.NewReader(in)); !errors.Is(err, ErrInvalidDocument) {
			t.Errorf("DecodeDocument(%q) error = %v, want ErrInvalidDocument", in, err)
		}
	}
}

func TestTransaction_JSON(t *testing.T) {
	tx := Transaction{
		ID:        "t1",
		Type:      Expense,
		Amount:    D("12.30"),
		Currency:  "USD",
		AccountID: "a1",
		Category:  "Food",
		Date:      time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		IsPaid:    true,
	}
	got, err := tx.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id":"t1","type":"expense","amount":"12.3","currency":"USD","accountId":"a1","category":"Food","date":"2025-01-02T03:04:05Z","isPaid":true}`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("MarshalJSON (-want +got):\n%s", diff)
	}

	var back Transaction
	if err := back.UnmarshalJSON(got); err != nil {
		t.Fatalf("UnmarshalJSON failed: %v", err)
	}
	if diff := cmp.Diff(tx, back); diff != "" {
		t.Errorf("UnmarshalJSON (-want +got):\n%s", diff)
	}
}

func TestDocument_ImportAssignsSubcategoryIDs(t *testing.T) {
	doc := newTestLedger(t).ExportData()
	doc.Categories = append(doc.Categories, Category{
		ID:            "food",
		Name:          " Food ",
		Type:          ExpenseCategory,
		Subcategories: []Subcategory{{Name: "Restaurant"}, {Name: " Groceries "}},
	})

	l := NewLedger(WithClock(fixedClock()))
	if err := l.ImportData(doc); err != nil {
		t.Fatalf("ImportData failed: %v", err)
	}
	food, ok := l.Category("food")
	if !ok {
		t.Fatal("imported category not found")
	}
	if food.Name != "Food" {
		t.Errorf("category name = %q, want it trimmed", food.Name)
	}
	if len(food.Subcategories) != 2 {
		t.Fatalf("got %d subcategories, want 2", len(food.Subcategories))
	}
	first, second := food.Subcategories[0], food.Subcategories[1]
	if first.ID == "" || second.ID == "" || first.ID == second.ID {
		t.Fatalf("subcategory ids = %q, %q, want distinct ids", first.ID, second.ID)
	}
	if second.Name != "Groceries" {
		t.Errorf("subcategory name = %q, want it trimmed", second.Name)
	}

	if _, err := l.UpdateSubcategory(food.ID, Subcategory{ID: second.ID, Name: "Market"}); err != nil {
		t.Fatalf("UpdateSubcategory failed: %v", err)
	}
	food, _ = l.Category("food")
	if food.Subcategories[0].Name != "Restaurant" || food.Subcategories[1].Name != "Market" {
		t.Errorf("subcategories after update = %+v", food.Subcategories)
	}
}
