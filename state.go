package ledger

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// State is the content of a ledger: accounts, categories, currencies and
// transactions.
//
// A State handed out by a Ledger is never modified afterward: every mutation
// works on a clone that replaces the live state once it succeeded. This is what
// lets history snapshots share states with the ledger.
type State struct {
	accounts     []Account
	categories   []Category
	currencies   *CurrencyTable
	transactions []Transaction
	clock        func() time.Time
}

// newState creates an empty state whose only currency is main.
func newState(main Currency, clock func() time.Time) *State {
	return &State{
		accounts:     make([]Account, 0),
		categories:   make([]Category, 0),
		currencies:   newCurrencyTable(main),
		transactions: make([]Transaction, 0),
		clock:        clock,
	}
}

func (s *State) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock()
}

// clone returns a deep copy of s.
func (s *State) clone() *State {
	c := &State{
		accounts:     slices.Clone(s.accounts),
		categories:   make([]Category, len(s.categories)),
		currencies:   s.currencies.clone(),
		transactions: slices.Clone(s.transactions),
		clock:        s.clock,
	}
	for i, cat := range s.categories {
		c.categories[i] = cat.clone()
	}
	return c
}

// Read access.

// Account returns the account with id.
func (s *State) Account(id string) (Account, bool) {
	i := s.accountIndex(id)
	if i < 0 {
		return Account{}, false
	}
	return s.accounts[i], true
}

// Accounts iterates over accounts in creation order.
func (s *State) Accounts() iter.Seq[Account] { return slices.Values(s.accounts) }

// Category returns the category with id.
func (s *State) Category(id string) (Category, bool) {
	i := s.categoryIndex(id)
	if i < 0 {
		return Category{}, false
	}
	return s.categories[i].clone(), true
}

// CategoryByName returns the first category with this name and type.
func (s *State) CategoryByName(name string, typ CategoryType) (Category, bool) {
	for _, c := range s.categories {
		if c.Name == name && c.Type == typ {
			return c.clone(), true
		}
	}
	return Category{}, false
}

// Categories iterates over categories in creation order.
func (s *State) Categories() iter.Seq[Category] {
	return func(yield func(Category) bool) {
		for _, c := range s.categories {
			if !yield(c.clone()) {
				return
			}
		}
	}
}

// Currencies returns a copy of the currency table.
func (s *State) Currencies() *CurrencyTable { return s.currencies.clone() }

// Transaction returns the transaction with id.
func (s *State) Transaction(id string) (Transaction, bool) {
	i := s.transactionIndex(id)
	if i < 0 {
		return Transaction{}, false
	}
	return s.transactions[i], true
}

// Transactions iterates over the transactions accepted by all filters, in
// creation order.
func (s *State) Transactions(filters ...Filter) iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, tx := range s.transactions {
			if !acceptAll(tx, filters) {
				continue
			}
			if !yield(tx) {
				return
			}
		}
	}
}

// Len returns the number of accounts, categories, currencies and transactions.
func (s *State) Len() (accounts, categories, currencies, transactions int) {
	return len(s.accounts), len(s.categories), s.currencies.Len(), len(s.transactions)
}

func (s *State) accountIndex(id string) int {
	return slices.IndexFunc(s.accounts, func(a Account) bool { return a.ID == id })
}

func (s *State) categoryIndex(id string) int {
	return slices.IndexFunc(s.categories, func(c Category) bool { return c.ID == id })
}

func (s *State) transactionIndex(id string) int {
	return slices.IndexFunc(s.transactions, func(t Transaction) bool { return t.ID == id })
}

// Balance maintenance.

// apply adds sign times the effects of tx to the account balances.
func (s *State) apply(tx Transaction, sign int64) {
	for _, e := range tx.effects() {
		i := s.accountIndex(e.account)
		if i < 0 {
			continue
		}
		s.accounts[i].Balance = s.accounts[i].Balance.Add(e.delta.Mul(decimal.NewFromInt(sign)))
	}
}

// ComputedBalance returns what the account balance would be if recomputed
// from its opening balance and the paid transactions referencing it.
func (s *State) ComputedBalance(accountID string) (decimal.Decimal, error) {
	a, ok := s.Account(accountID)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("account %q: %w", accountID, ErrNotFound)
	}
	total := a.OpeningBalance
	for _, tx := range s.transactions {
		for _, e := range tx.effects() {
			if e.account == accountID {
				total = total.Add(e.delta)
			}
		}
	}
	return total, nil
}

// Accounts.

func (s *State) addAccount(a Account) (Account, error) {
	a, err := a.validate(s.currencies)
	if err != nil {
		return Account{}, err
	}
	a.ID = uuid.NewString()
	a.OpeningBalance = a.Balance
	s.accounts = append(s.accounts, a)
	return a, nil
}

// updateAccount replaces an account record. A balance change is a manual
// adjustment and moves the opening balance by the same delta.
func (s *State) updateAccount(a Account) (Account, error) {
	i := s.accountIndex(a.ID)
	if i < 0 {
		return Account{}, fmt.Errorf("update account %q: %w", a.ID, ErrNotFound)
	}
	old := s.accounts[i]
	if a.Currency == "" {
		a.Currency = old.Currency
	}
	a, err := a.validate(s.currencies)
	if err != nil {
		return Account{}, err
	}
	if a.Currency != old.Currency {
		return Account{}, fmt.Errorf("account %q currency cannot change from %s to %s: %w", old.Name, old.Currency, a.Currency, ErrInvalid)
	}
	a.OpeningBalance = old.OpeningBalance.Add(a.Balance.Sub(old.Balance))
	s.accounts[i] = a
	return a, nil
}

// Transactions.

func (s *State) addTransaction(tx Transaction) (Transaction, error) {
	tx, err := tx.validate(s, nil)
	if err != nil {
		return Transaction{}, err
	}
	tx.ID = uuid.NewString()
	s.apply(tx, 1)
	s.transactions = append(s.transactions, tx)
	return tx, nil
}

func (s *State) updateTransaction(tx Transaction) (Transaction, error) {
	i := s.transactionIndex(tx.ID)
	if i < 0 {
		return Transaction{}, fmt.Errorf("update transaction %q: %w", tx.ID, ErrNotFound)
	}
	old := s.transactions[i]
	tx, err := tx.validate(s, &old)
	if err != nil {
		return Transaction{}, err
	}
	s.apply(old, -1)
	s.apply(tx, 1)
	s.transactions[i] = tx
	return tx, nil
}

func (s *State) deleteTransaction(id string) (Transaction, error) {
	i := s.transactionIndex(id)
	if i < 0 {
		return Transaction{}, fmt.Errorf("delete transaction %q: %w", id, ErrNotFound)
	}
	tx := s.transactions[i]
	s.apply(tx, -1)
	s.transactions = slices.Delete(s.transactions, i, i+1)
	return tx, nil
}

func (s *State) toggleTransactionPaidStatus(id string) (Transaction, error) {
	i := s.transactionIndex(id)
	if i < 0 {
		return Transaction{}, fmt.Errorf("toggle transaction %q: %w", id, ErrNotFound)
	}
	tx := s.transactions[i]
	if tx.IsPaid {
		s.apply(tx, -1)
		tx.IsPaid = false
	} else {
		tx.IsPaid = true
		s.apply(tx, 1)
	}
	s.transactions[i] = tx
	return tx, nil
}

// Categories.

func (s *State) addCategory(c Category) (Category, error) {
	c, err := c.validate()
	if err != nil {
		return Category{}, err
	}
	c.ID = uuid.NewString()
	s.categories = append(s.categories, c)
	return c.clone(), nil
}

func (s *State) updateCategory(c Category) (Category, error) {
	i := s.categoryIndex(c.ID)
	if i < 0 {
		return Category{}, fmt.Errorf("update category %q: %w", c.ID, ErrNotFound)
	}
	c, err := c.validate()
	if err != nil {
		return Category{}, err
	}
	s.categories[i] = c
	return c.clone(), nil
}

func (s *State) deleteCategory(id string) (Category, error) {
	i := s.categoryIndex(id)
	if i < 0 {
		return Category{}, fmt.Errorf("delete category %q: %w", id, ErrNotFound)
	}
	c := s.categories[i]
	s.categories = slices.Delete(s.categories, i, i+1)
	return c, nil
}

func (s *State) addSubcategory(categoryID string, sub Subcategory) (Subcategory, error) {
	i := s.categoryIndex(categoryID)
	if i < 0 {
		return Subcategory{}, fmt.Errorf("add subcategory to %q: %w", categoryID, ErrNotFound)
	}
	c := s.categories[i].clone()
	sub.ID = ""
	c.Subcategories = append(c.Subcategories, sub)
	c, err := c.validate()
	if err != nil {
		return Subcategory{}, err
	}
	s.categories[i] = c
	return c.Subcategories[len(c.Subcategories)-1], nil
}

func (s *State) updateSubcategory(categoryID string, sub Subcategory) (Subcategory, error) {
	i := s.categoryIndex(categoryID)
	if i < 0 {
		return Subcategory{}, fmt.Errorf("update subcategory in %q: %w", categoryID, ErrNotFound)
	}
	c := s.categories[i].clone()
	j := slices.IndexFunc(c.Subcategories, func(x Subcategory) bool { return x.ID == sub.ID })
	if j < 0 {
		return Subcategory{}, fmt.Errorf("update subcategory %q in %q: %w", sub.ID, c.Name, ErrNotFound)
	}
	c.Subcategories[j] = sub
	c, err := c.validate()
	if err != nil {
		return Subcategory{}, err
	}
	s.categories[i] = c
	return c.Subcategories[j], nil
}

func (s *State) deleteSubcategory(categoryID, subID string) (Subcategory, error) {
	i := s.categoryIndex(categoryID)
	if i < 0 {
		return Subcategory{}, fmt.Errorf("delete subcategory in %q: %w", categoryID, ErrNotFound)
	}
	c := s.categories[i].clone()
	j := slices.IndexFunc(c.Subcategories, func(x Subcategory) bool { return x.ID == subID })
	if j < 0 {
		return Subcategory{}, fmt.Errorf("delete subcategory %q in %q: %w", subID, c.Name, ErrNotFound)
	}
	sub := c.Subcategories[j]
	c.Subcategories = slices.Delete(c.Subcategories, j, j+1)
	s.categories[i] = c
	return sub, nil
}

// Filter selects transactions.
type Filter func(Transaction) bool

func acceptAll(tx Transaction, filters []Filter) bool {
	for _, f := range filters {
		if !f(tx) {
			return false
		}
	}
	return true
}

// ByAccount accepts transactions using the account on either leg.
func ByAccount(id string) Filter {
	return func(tx Transaction) bool { return tx.References(id) }
}

// ByType accepts transactions of the given type.
func ByType(t TransactionType) Filter {
	return func(tx Transaction) bool { return tx.Type == t }
}

// ByCategory accepts transactions with this category name.
func ByCategory(name string) Filter {
	return func(tx Transaction) bool { return tx.Category == name }
}

// Between accepts transactions dated in [from, to). A zero bound is open.
func Between(from, to time.Time) Filter {
	return func(tx Transaction) bool {
		if !from.IsZero() && tx.Date.Before(from) {
			return false
		}
		return to.IsZero() || tx.Date.Before(to)
	}
}

// Paid accepts transactions whose paid status is paid.
func Paid(paid bool) Filter {
	return func(tx Transaction) bool { return tx.IsPaid == paid }
}
