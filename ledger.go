package ledger

import (
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Ledger is the handle on a user's accounts, categories, currencies and
// transactions. Every mutation goes through its methods, and each successful
// one records exactly one history snapshot.
//
// A Ledger is not safe for concurrent use.
type Ledger struct {
	state   *State
	history *History
	log     zerolog.Logger
	clock   func() time.Time
}

// Option configures a Ledger.
type Option func(*config)

type config struct {
	main         Currency
	logger       zerolog.Logger
	historyLimit int
	clock        func() time.Time
}

// WithLogger sets the logger. Ledgers are silent by default.
func WithLogger(l zerolog.Logger) Option { return func(c *config) { c.logger = l } }

// WithHistoryLimit bounds the number of snapshots kept, n <= 0 keeps them all.
func WithHistoryLimit(n int) Option { return func(c *config) { c.historyLimit = n } }

// WithMainCurrency sets the main currency of a new ledger (USD by default).
func WithMainCurrency(cur Currency) Option { return func(c *config) { c.main = cur } }

// WithClock replaces time.Now for timestamps and default transaction dates.
func WithClock(now func() time.Time) Option { return func(c *config) { c.clock = now } }

func newConfig(opts []Option) config {
	c := config{
		main:         NewCurrency("USD", decimal.NewFromInt(1)),
		logger:       zerolog.Nop(),
		historyLimit: DefaultHistoryLimit,
		clock:        time.Now,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// NewLedger creates an empty ledger with a single, main, currency and an
// empty history.
func NewLedger(opts ...Option) *Ledger {
	c := newConfig(opts)
	return &Ledger{
		state:   newState(c.main, c.clock),
		history: newHistory(c.historyLimit),
		log:     c.logger,
		clock:   c.clock,
	}
}

// mutate runs fn on a copy of the live state. On success the copy becomes the
// live state and is recorded in the history; on failure nothing changes.
func (l *Ledger) mutate(action ActionType, entity EntityType, fn func(s *State) (name string, err error)) error {
	next := l.state.clone()
	name, err := fn(next)
	if err != nil {
		l.log.Debug().Err(err).Str("action", string(action)).Str("entity", string(entity)).Msg("rejected")
		return err
	}
	prev := l.state
	l.state = next
	snap := l.history.record(prev, Snapshot{
		ID:        uuid.NewString(),
		Timestamp: l.clock(),
		Action:    action,
		Entity:    entity,
		Name:      name,
		state:     next,
	})
	l.log.Debug().Str("snapshot", snap.ID).Str("action", string(action)).Str("entity", string(entity)).Str("name", name).Msg("record")
	return nil
}

// State returns the live state. It is a read only view: it is never modified,
// a later mutation installs a new State.
func (l *Ledger) State() *State { return l.state }

// History returns the snapshot log.
func (l *Ledger) History() *History { return l.history }

// Accounts.

// Account returns the account with id.
func (l *Ledger) Account(id string) (Account, bool) { return l.state.Account(id) }

// Accounts iterates over accounts in creation order.
func (l *Ledger) Accounts() iter.Seq[Account] { return l.state.Accounts() }

// AddAccount creates an account with a new id. Its balance is the opening balance.
func (l *Ledger) AddAccount(a Account) (Account, error) {
	var out Account
	err := l.mutate(ActionCreate, EntityAccount, func(s *State) (string, error) {
		var err error
		out, err = s.addAccount(a)
		return out.Name, err
	})
	return out, err
}

// UpdateAccount replaces the account with a.ID. The currency cannot change.
func (l *Ledger) UpdateAccount(a Account) (Account, error) {
	var out Account
	err := l.mutate(ActionUpdate, EntityAccount, func(s *State) (string, error) {
		var err error
		out, err = s.updateAccount(a)
		return out.Name, err
	})
	return out, err
}

// PlanAccountDeletion tells whether deleting the account requires choosing
// between DeleteTransactions and MoveTransactions.
func (l *Ledger) PlanAccountDeletion(id string) (DeletionPlan, error) {
	return l.state.PlanAccountDeletion(id)
}

// DeleteAccount deletes an account; mode decides the fate of its
// transactions, target is the destination account for MoveTransactions.
func (l *Ledger) DeleteAccount(id string, mode DeletionMode, target string) error {
	return l.mutate(ActionDelete, EntityAccount, func(s *State) (string, error) {
		a, n, err := s.deleteAccount(id, mode, target)
		if err != nil {
			return "", err
		}
		l.log.Debug().Str("account", a.ID).Stringer("mode", mode).Int("transactions", n).Msg("delete-account")
		return a.Name, nil
	})
}

// Transactions.

// Transaction returns the transaction with id.
func (l *Ledger) Transaction(id string) (Transaction, bool) { return l.state.Transaction(id) }

// Transactions iterates over transactions accepted by all filters.
func (l *Ledger) Transactions(filters ...Filter) iter.Seq[Transaction] {
	return l.state.Transactions(filters...)
}

// AddTransaction records a new transaction and applies its balance effect if
// it is paid.
func (l *Ledger) AddTransaction(tx Transaction) (Transaction, error) {
	var out Transaction
	err := l.mutate(ActionCreate, EntityTransaction, func(s *State) (string, error) {
		var err error
		out, err = s.addTransaction(tx)
		return transactionLabel(out), err
	})
	return out, err
}

// UpdateTransaction replaces the transaction with tx.ID, reversing the old
// balance effect before applying the new one.
func (l *Ledger) UpdateTransaction(tx Transaction) (Transaction, error) {
	var out Transaction
	err := l.mutate(ActionUpdate, EntityTransaction, func(s *State) (string, error) {
		var err error
		out, err = s.updateTransaction(tx)
		return transactionLabel(out), err
	})
	return out, err
}

// DeleteTransaction removes a transaction and reverses its balance effect.
func (l *Ledger) DeleteTransaction(id string) error {
	return l.mutate(ActionDelete, EntityTransaction, func(s *State) (string, error) {
		tx, err := s.deleteTransaction(id)
		return transactionLabel(tx), err
	})
}

// ToggleTransactionPaidStatus flips the paid status of a transaction and
// applies or reverses its balance effect.
func (l *Ledger) ToggleTransactionPaidStatus(id string) (Transaction, error) {
	var out Transaction
	err := l.mutate(ActionUpdate, EntityTransaction, func(s *State) (string, error) {
		var err error
		out, err = s.toggleTransactionPaidStatus(id)
		return transactionLabel(out), err
	})
	return out, err
}

func transactionLabel(tx Transaction) string {
	if tx.ID == "" {
		return ""
	}
	label := fmt.Sprintf("%s %s", tx.Type, tx.Money())
	if tx.Category != "" {
		label += " " + tx.Category
	}
	return label
}

// Categories.

// Category returns the category with id.
func (l *Ledger) Category(id string) (Category, bool) { return l.state.Category(id) }

// Categories iterates over categories in creation order.
func (l *Ledger) Categories() iter.Seq[Category] { return l.state.Categories() }

// AddCategory creates a category. Missing subcategory ids are assigned.
func (l *Ledger) AddCategory(c Category) (Category, error) {
	var out Category
	err := l.mutate(ActionCreate, EntityCategory, func(s *State) (string, error) {
		var err error
		out, err = s.addCategory(c)
		return out.Name, err
	})
	return out, err
}

// UpdateCategory replaces the category with c.ID. Transactions keep the old
// name if the category is renamed.
func (l *Ledger) UpdateCategory(c Category) (Category, error) {
	var out Category
	err := l.mutate(ActionUpdate, EntityCategory, func(s *State) (string, error) {
		var err error
		out, err = s.updateCategory(c)
		return out.Name, err
	})
	return out, err
}

// DeleteCategory removes a category. Transactions keep its name.
func (l *Ledger) DeleteCategory(id string) error {
	return l.mutate(ActionDelete, EntityCategory, func(s *State) (string, error) {
		c, err := s.deleteCategory(id)
		return c.Name, err
	})
}

// AddSubcategory appends a subcategory with a new id to a category.
func (l *Ledger) AddSubcategory(categoryID string, sub Subcategory) (Subcategory, error) {
	var out Subcategory
	err := l.mutate(ActionUpdate, EntityCategory, func(s *State) (string, error) {
		var err error
		out, err = s.addSubcategory(categoryID, sub)
		return out.Name, err
	})
	return out, err
}

// UpdateSubcategory replaces the subcategory with sub.ID in a category.
func (l *Ledger) UpdateSubcategory(categoryID string, sub Subcategory) (Subcategory, error) {
	var out Subcategory
	err := l.mutate(ActionUpdate, EntityCategory, func(s *State) (string, error) {
		var err error
		out, err = s.updateSubcategory(categoryID, sub)
		return out.Name, err
	})
	return out, err
}

// DeleteSubcategory removes a subcategory from a category.
func (l *Ledger) DeleteSubcategory(categoryID, subID string) error {
	return l.mutate(ActionUpdate, EntityCategory, func(s *State) (string, error) {
		sub, err := s.deleteSubcategory(categoryID, subID)
		return sub.Name, err
	})
}

// Currencies.

// Currencies iterates over registered currencies.
func (l *Ledger) Currencies() iter.Seq[Currency] { return l.state.currencies.All() }

// Currency returns the currency registered under code.
func (l *Ledger) Currency(code string) (Currency, bool) { return l.state.currencies.Currency(code) }

// MainCurrency returns the main currency.
func (l *Ledger) MainCurrency() Currency { return l.state.currencies.Main() }

// ExchangeRate returns the factor converting amounts in 'from' into 'to'.
func (l *Ledger) ExchangeRate(from, to string) (decimal.Decimal, error) {
	return l.state.currencies.ExchangeRate(from, to)
}

// Convert converts m into the 'to' currency.
func (l *Ledger) Convert(m Money, to string) (Money, error) {
	return l.state.currencies.Convert(m, to)
}

// AddCurrency registers a currency.
func (l *Ledger) AddCurrency(c Currency) (Currency, error) {
	var out Currency
	err := l.mutate(ActionCreate, EntityCurrency, func(s *State) (string, error) {
		var err error
		out, err = s.currencies.Add(c)
		return out.Code, err
	})
	return out, err
}

// UpdateCurrency changes the name, symbol or rate of a currency.
func (l *Ledger) UpdateCurrency(c Currency) (Currency, error) {
	var out Currency
	err := l.mutate(ActionUpdate, EntityCurrency, func(s *State) (string, error) {
		var err error
		out, err = s.currencies.Update(c)
		return out.Code, err
	})
	return out, err
}

// DeleteCurrency unregisters a currency. Accounts and transactions keep the
// code, conversions from it fail afterward.
func (l *Ledger) DeleteCurrency(code string) error {
	return l.mutate(ActionDelete, EntityCurrency, func(s *State) (string, error) {
		c, err := s.currencies.Delete(code)
		return c.Code, err
	})
}

// SetMainCurrency makes code the main currency.
func (l *Ledger) SetMainCurrency(code string) error {
	return l.mutate(ActionUpdate, EntityCurrency, func(s *State) (string, error) {
		c, err := s.currencies.SetMain(code)
		return c.Code, err
	})
}

// History.

// CanUndo reports whether Undo would change the state.
func (l *Ledger) CanUndo() bool { return l.history.CanUndo() }

// CanRedo reports whether Redo would change the state.
func (l *Ledger) CanRedo() bool { return l.history.CanRedo() }

// Undo restores the state preceding the current snapshot. It returns false
// and does nothing at the oldest snapshot.
func (l *Ledger) Undo() bool {
	snap, ok := l.history.undo()
	if !ok {
		return false
	}
	l.state = snap.state
	l.log.Info().Str("snapshot", snap.ID).Int("cursor", l.history.cursor).Msg("undo")
	return true
}

// Redo restores the state following the current snapshot. It returns false
// and does nothing at the newest snapshot.
func (l *Ledger) Redo() bool {
	snap, ok := l.history.redo()
	if !ok {
		return false
	}
	l.state = snap.state
	l.log.Info().Str("snapshot", snap.ID).Int("cursor", l.history.cursor).Msg("redo")
	return true
}

// RestoreToSnapshot makes the state of any snapshot the live state.
func (l *Ledger) RestoreToSnapshot(id string) error {
	snap, err := l.history.restore(id)
	if err != nil {
		return err
	}
	l.state = snap.state
	l.log.Info().Str("snapshot", snap.ID).Int("cursor", l.history.cursor).Msg("restore")
	return nil
}

// ClearHistory forgets every snapshot. The live state is kept.
func (l *Ledger) ClearHistory() {
	n := l.history.Len()
	l.history.clear()
	l.log.Info().Int("dropped", n).Msg("clear-history")
}
