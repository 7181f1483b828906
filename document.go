package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"
)

// DocumentVersion is the version written in exported documents.
const DocumentVersion = 1

// Document is the transportable form of a ledger state. It holds everything
// needed to rebuild the state, and nothing of the history.
type Document struct {
	Version      int           `json:"version"`
	Accounts     []Account     `json:"accounts"`
	Transactions []Transaction `json:"transactions"`
	Categories   []Category    `json:"categories"`
	Currencies   []Currency    `json:"currencies"`
}

// document returns the Document of s.
func (s *State) document() Document {
	doc := Document{
		Version:      DocumentVersion,
		Accounts:     slices.Clone(s.accounts),
		Transactions: slices.Clone(s.transactions),
		Categories:   make([]Category, 0, len(s.categories)),
		Currencies:   slices.Clone(s.currencies.currencies),
	}
	for _, c := range s.categories {
		doc.Categories = append(doc.Categories, c.clone())
	}
	return doc
}

// Validate checks that the document describes a consistent state. All
// problems found are joined in the returned error, which wraps ErrInvalidDocument.
//
// Codes of deleted currencies are accepted on accounts and transactions, and so
// are category names that no longer exist: a live ledger can hold both.
func (d Document) Validate() error {
	var errs []error
	add := func(format string, args ...any) { errs = append(errs, fmt.Errorf(format, args...)) }

	if d.Version > DocumentVersion {
		add("unsupported version %d", d.Version)
	}

	mains := 0
	codes := make(map[string]struct{}, len(d.Currencies))
	for _, c := range d.Currencies {
		if err := c.validate(); err != nil {
			errs = append(errs, err)
		}
		if _, dup := codes[c.Code]; dup {
			add("currency %q is defined twice", c.Code)
		}
		codes[c.Code] = struct{}{}
		if c.IsMain {
			mains++
		}
	}
	if mains != 1 {
		add("want exactly one main currency, got %d", mains)
	}

	accounts := make(map[string]struct{}, len(d.Accounts))
	for _, a := range d.Accounts {
		switch {
		case a.ID == "":
			add("account %q has no id", a.Name)
		case a.Name == "":
			add("account %q has no name", a.ID)
		case a.Currency == "":
			add("account %q has no currency", a.ID)
		}
		if _, err := ParseAccountType(string(a.Type)); err != nil {
			add("account %q: %v", a.ID, err)
		}
		if _, dup := accounts[a.ID]; dup {
			add("account id %q is used twice", a.ID)
		}
		accounts[a.ID] = struct{}{}
	}

	categories := make(map[string]struct{}, len(d.Categories))
	for _, c := range d.Categories {
		if c.ID == "" {
			add("category %q has no id", c.Name)
		}
		if _, err := c.validate(); err != nil {
			errs = append(errs, err)
		}
		if _, dup := categories[c.ID]; dup {
			add("category id %q is used twice", c.ID)
		}
		categories[c.ID] = struct{}{}
	}

	transactions := make(map[string]struct{}, len(d.Transactions))
	for _, tx := range d.Transactions {
		if tx.ID == "" {
			add("transaction without id")
		}
		if _, dup := transactions[tx.ID]; dup {
			add("transaction id %q is used twice", tx.ID)
		}
		transactions[tx.ID] = struct{}{}
		if err := tx.check(accounts); err != nil {
			add("transaction %q: %v", tx.ID, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, errors.Join(errs...))
	}
	return nil
}

// check is the structural part of a transaction validation, without the
// checks that depend on live categories and currencies.
func (t Transaction) check(accounts map[string]struct{}) error {
	if _, err := ParseTransactionType(string(t.Type)); err != nil {
		return err
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", t.Amount)
	}
	if t.Currency == "" {
		return errors.New("currency is missing")
	}
	if t.Date.IsZero() {
		return errors.New("date is missing")
	}
	if _, ok := accounts[t.AccountID]; !ok {
		return fmt.Errorf("unknown account %q", t.AccountID)
	}
	if t.Type == Transfer {
		if t.Category != "" || t.Subcategory != "" {
			return errors.New("transfer with a category")
		}
		if _, ok := accounts[t.ToAccountID]; !ok {
			return fmt.Errorf("unknown destination account %q", t.ToAccountID)
		}
		if t.ToAccountID == t.AccountID {
			return errors.New("transfer to the same account")
		}
	} else if t.ToAccountID != "" {
		return fmt.Errorf("%s with a destination account", t.Type)
	}
	if t.IsRecurring {
		if _, err := ParseRecurringUnit(string(t.RecurringUnit)); err != nil {
			return err
		}
		if t.RecurringValue <= 0 {
			return fmt.Errorf("recurring value must be positive, got %d", t.RecurringValue)
		}
	}
	return nil
}

// newStateFromDocument validates d and builds the state it describes.
func newStateFromDocument(d Document, clock func() time.Time) (*State, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	s := &State{
		accounts:     slices.Clone(d.Accounts),
		categories:   make([]Category, 0, len(d.Categories)),
		currencies:   &CurrencyTable{currencies: slices.Clone(d.Currencies)},
		transactions: slices.Clone(d.Transactions),
		clock:        clock,
	}
	for _, c := range d.Categories {
		fixed, err := c.validate()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
		s.categories = append(s.categories, fixed)
	}
	if s.accounts == nil {
		s.accounts = make([]Account, 0)
	}
	if s.transactions == nil {
		s.transactions = make([]Transaction, 0)
	}
	return s, nil
}

// ExportData returns the document of the live state.
func (l *Ledger) ExportData() Document { return l.state.document() }

// ImportData replaces the whole live state with the document content. The
// document is fully validated first; the import is recorded as one snapshot.
func (l *Ledger) ImportData(doc Document) error {
	next, err := newStateFromDocument(doc, l.clock)
	if err != nil {
		return err
	}
	err = l.mutate(ActionImport, EntityData, func(s *State) (string, error) {
		*s = *next
		return fmt.Sprintf("%d accounts, %d transactions", len(next.accounts), len(next.transactions)), nil
	})
	if err == nil {
		l.log.Info().Int("accounts", len(doc.Accounts)).Int("transactions", len(doc.Transactions)).Msg("import")
	}
	return err
}

// Export writes the document of the live state as indented JSON.
func (l *Ledger) Export(w io.Writer) error { return EncodeDocument(w, l.ExportData()) }

// Import reads a JSON document and imports it.
func (l *Ledger) Import(r io.Reader) error {
	doc, err := DecodeDocument(r)
	if err != nil {
		return err
	}
	return l.ImportData(doc)
}

// EncodeDocument writes doc as indented JSON.
func EncodeDocument(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return nil
}

// DecodeDocument reads a JSON document. Parse errors wrap ErrInvalidDocument;
// the content is not validated.
func DecodeDocument(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return doc, nil
}
