package ledger

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// diffState compares the exported content of two ledgers.
func diffState(want, got Document) string {
	return cmp.Diff(want, got, cmpopts.EquateEmpty())
}

// populate runs a small session of mutations of every kind.
func populate(t *testing.T, l *Ledger) []func() error {
	t.Helper()
	var a, b Account
	var food Category
	var tx Transaction
	return []func() error{
		func() (err error) { a, err = l.AddAccount(Account{Name: "A", Balance: D("10")}); return },
		func() (err error) { b, err = l.AddAccount(Account{Name: "B", Currency: "EUR"}); return },
		func() (err error) { food, err = l.AddCategory(Category{Name: "Food", Type: ExpenseCategory}); return },
		func() (err error) {
			tx, err = l.AddTransaction(Transaction{Type: Expense, Amount: D("4"), AccountID: a.ID, Category: food.Name, IsPaid: true})
			return
		},
		func() (err error) {
			_, err = l.AddTransaction(Transaction{Type: Transfer, Amount: D("3"), AccountID: a.ID, ToAccountID: b.ID, IsPaid: true})
			return
		},
		func() (err error) { _, err = l.ToggleTransactionPaidStatus(tx.ID); return },
		func() (err error) { _, err = l.AddCurrency(Currency{Code: "GBP", Rate: D("0.8")}); return },
		func() error { return l.SetMainCurrency("EUR") },
		func() (err error) { _, err = l.AddSubcategory(food.ID, Subcategory{Name: "Snacks"}); return },
		func() error { return l.DeleteAccount(b.ID, DeleteTransactions, "") },
	}
}

func TestHistory_OneSnapshotPerMutation(t *testing.T) {
	l := newTestLedger(t)
	if l.History().Len() != 0 || l.CanUndo() || l.CanRedo() {
		t.Fatalf("new history is not empty: len=%d", l.History().Len())
	}
	for i, op := range populate(t, l) {
		if err := op(); err != nil {
			t.Fatalf("operation %d failed: %v", i, err)
		}
		// the initial state, then one snapshot per mutation.
		if got, want := l.History().Len(), i+2; got != want {
			t.Errorf("after operation %d history has %d snapshots, want %d", i, got, want)
		}
		if l.History().Cursor() != l.History().Len()-1 {
			t.Errorf("after operation %d cursor = %d, want the last snapshot", i, l.History().Cursor())
		}
	}
	for i, s := range l.History().Snapshots() {
		if (i == 0) != (s.Action == ActionInit) {
			t.Errorf("snapshot %d action = %q", i, s.Action)
		}
	}
}

func TestHistory_FailedMutationRecordsNothing(t *testing.T) {
	l := newTestLedger(t)
	mustAccount(t, l, "A", "USD")
	before := l.ExportData()
	n := l.History().Len()

	if _, err := l.AddAccount(Account{Name: ""}); err == nil {
		t.Fatal("AddAccount without name succeeded")
	}
	if err := l.DeleteCurrency("USD"); !errors.Is(err, ErrCannotDeleteMainCurrency) {
		t.Fatalf("DeleteCurrency(main) error = %v", err)
	}
	if l.History().Len() != n {
		t.Errorf("history grew from %d to %d on failures", n, l.History().Len())
	}
	if diff := diffState(before, l.ExportData()); diff != "" {
		t.Errorf("state changed on failures (-want +got):\n%s", diff)
	}
}

func TestHistory_UndoRedoAreInverse(t *testing.T) {
	l := newTestLedger(t)
	states := []Document{l.ExportData()}
	for i, op := range populate(t, l) {
		if err := op(); err != nil {
			t.Fatalf("operation %d failed: %v", i, err)
		}
		states = append(states, l.ExportData())
	}

	// walk back to the initial state.
	for i := len(states) - 2; i >= 0; i-- {
		if !l.Undo() {
			t.Fatalf("Undo to state %d returned false", i)
		}
		if diff := diffState(states[i], l.ExportData()); diff != "" {
			t.Fatalf("after Undo to state %d (-want +got):\n%s", i, diff)
		}
	}
	if l.Undo() {
		t.Errorf("Undo at the initial state returned true")
	}

	// and forward again.
	for i := 1; i < len(states); i++ {
		if !l.Redo() {
			t.Fatalf("Redo to state %d returned false", i)
		}
		if diff := diffState(states[i], l.ExportData()); diff != "" {
			t.Fatalf("after Redo to state %d (-want +got):\n%s", i, diff)
		}
	}
	if l.Redo() {
		t.Errorf("Redo at the newest state returned true")
	}

	// undo then redo is the identity anywhere in the log.
	l.Undo()
	l.Undo()
	mid := l.ExportData()
	l.Undo()
	l.Redo()
	if diff := diffState(mid, l.ExportData()); diff != "" {
		t.Errorf("Undo then Redo changed the state (-want +got):\n%s", diff)
	}
	l.Redo()
	l.Undo()
	if diff := diffState(mid, l.ExportData()); diff != "" {
		t.Errorf("Redo then Undo changed the state (-want +got):\n%s", diff)
	}
}

func TestHistory_MutationAfterUndoDropsRedo(t *testing.T) {
	l := newTestLedger(t)
	mustAccount(t, l, "A", "USD")
	mustAccount(t, l, "B", "USD")
	l.Undo()
	if !l.CanRedo() {
		t.Fatal("CanRedo() = false after Undo")
	}
	mustAccount(t, l, "C", "USD")
	if l.CanRedo() {
		t.Errorf("CanRedo() = true after a new mutation")
	}
	var names []string
	for a := range l.Accounts() {
		names = append(names, a.Name)
	}
	if diff := cmp.Diff([]string{"A", "C"}, names); diff != "" {
		t.Errorf("accounts (-want +got):\n%s", diff)
	}
	if got := l.History().Len(); got != 3 {
		t.Errorf("history has %d snapshots, want 3", got)
	}
}

func TestHistory_RestoreToSnapshot(t *testing.T) {
	l := newTestLedger(t)
	var ids []string
	var states []Document
	for i, op := range populate(t, l) {
		if err := op(); err != nil {
			t.Fatalf("operation %d failed: %v", i, err)
		}
		cur, _ := l.History().Current()
		ids = append(ids, cur.ID)
		states = append(states, l.ExportData())
	}
	n := l.History().Len()

	if err := l.RestoreToSnapshot(ids[3]); err != nil {
		t.Fatalf("RestoreToSnapshot failed: %v", err)
	}
	if diff := diffState(states[3], l.ExportData()); diff != "" {
		t.Errorf("restored state (-want +got):\n%s", diff)
	}
	if l.History().Len() != n {
		t.Errorf("restore changed the history length from %d to %d", n, l.History().Len())
	}
	if !l.CanRedo() || !l.CanUndo() {
		t.Errorf("CanUndo=%v CanRedo=%v after restoring the middle of the log", l.CanUndo(), l.CanRedo())
	}
	l.Redo()
	if diff := diffState(states[4], l.ExportData()); diff != "" {
		t.Errorf("Redo after restore (-want +got):\n%s", diff)
	}

	if err := l.RestoreToSnapshot("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("RestoreToSnapshot(nope) error = %v, want ErrNotFound", err)
	}
	if diff := diffState(states[4], l.ExportData()); diff != "" {
		t.Errorf("failed restore changed the state (-want +got):\n%s", diff)
	}
}

func TestHistory_ClearHistory(t *testing.T) {
	l := newTestLedger(t)
	mustAccount(t, l, "A", "USD")
	mustAccount(t, l, "B", "USD")
	want := l.ExportData()

	l.ClearHistory()
	if l.History().Len() != 0 || l.CanUndo() || l.CanRedo() {
		t.Errorf("history not empty after ClearHistory: len=%d", l.History().Len())
	}
	if diff := diffState(want, l.ExportData()); diff != "" {
		t.Errorf("ClearHistory changed the state (-want +got):\n%s", diff)
	}

	mustAccount(t, l, "C", "USD")
	if !l.Undo() {
		t.Fatal("Undo after ClearHistory and a mutation returned false")
	}
	if diff := diffState(want, l.ExportData()); diff != "" {
		t.Errorf("Undo went past the cleared point (-want +got):\n%s", diff)
	}
}

func TestHistory_RetentionLimit(t *testing.T) {
	l := NewLedger(WithClock(fixedClock()), WithHistoryLimit(5))
	for i := 0; i < 12; i++ {
		mustAccount(t, l, string(rune('A'+i)), "USD")
	}
	if got := l.History().Len(); got != 5 {
		t.Fatalf("history has %d snapshots, want 5", got)
	}
	undos := 0
	for l.Undo() {
		undos++
	}
	if undos != 4 {
		t.Errorf("undid %d times, want 4", undos)
	}
	n := 0
	for range l.Accounts() {
		n++
	}
	if n != 8 {
		t.Errorf("oldest reachable state has %d accounts, want 8", n)
	}
}

func TestHistory_SnapshotsAreIsolated(t *testing.T) {
	l := newTestLedger(t)
	a := mustAccount(t, l, "A", "USD")
	cur, _ := l.History().Current()
	mustTx(t, l, Transaction{Type: Income, Amount: D("5"), AccountID: a.ID, IsPaid: true})

	old, ok := cur.State().Account(a.ID)
	if !ok {
		t.Fatal("account missing from the older snapshot")
	}
	if !old.Balance.IsZero() {
		t.Errorf("a later mutation changed an older snapshot: balance %s", old.Balance)
	}
}

func TestSnapshot_Description(t *testing.T) {
	testCases := []struct {
		snap Snapshot
		want string
	}{
		{Snapshot{Action: ActionInit, Entity: EntityData}, "initial state"},
		{Snapshot{Action: ActionCreate, Entity: EntityAccount, Name: "Wallet"}, "create account Wallet"},
		{Snapshot{Action: ActionDelete, Entity: EntityCurrency}, "delete currency"},
	}
	for _, tc := range testCases {
		if got := tc.snap.Description(); got != tc.want {
			t.Errorf("Description() = %q, want %q", got, tc.want)
		}
	}
}
