package ledger

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency defines a currency and its exchange rate relative to the common
// base (the base itself has a rate of 1).
type Currency struct {
	Code   string          `json:"code"`
	Name   string          `json:"name"`
	Symbol string          `json:"symbol"`
	Rate   decimal.Decimal `json:"rate"`
	IsMain bool            `json:"isMain"`
}

// NewCurrency returns a currency with name and symbol filled from the
// go-money registry when the code is known there.
func NewCurrency(code string, rate decimal.Decimal) Currency {
	c := Currency{Code: strings.ToUpper(code), Rate: rate}
	c.fillDefaults()
	return c
}

func (c *Currency) fillDefaults() {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	if c.Name == "" {
		c.Name = c.Code
	}
	if c.Symbol == "" {
		if known := money.GetCurrency(c.Code); known != nil {
			c.Symbol = known.Grapheme
		} else {
			c.Symbol = c.Code
		}
	}
}

func (c Currency) validate() error {
	if c.Code == "" {
		return fmt.Errorf("currency code is missing: %w", ErrInvalid)
	}
	if !c.Rate.IsPositive() {
		return fmt.Errorf("currency %q rate must be positive, got %s: %w", c.Code, c.Rate, ErrInvalid)
	}
	return nil
}

// CurrencyTable holds the registered currencies in insertion order. Exactly
// one of them is the main currency.
type CurrencyTable struct {
	currencies []Currency
}

// newCurrencyTable creates a table whose only currency is main.
func newCurrencyTable(main Currency) *CurrencyTable {
	main.fillDefaults()
	main.IsMain = true
	if !main.Rate.IsPositive() {
		main.Rate = decimal.NewFromInt(1)
	}
	return &CurrencyTable{currencies: []Currency{main}}
}

func (t *CurrencyTable) clone() *CurrencyTable {
	return &CurrencyTable{currencies: slices.Clone(t.currencies)}
}

// index finds code regardless of its case.
func (t *CurrencyTable) index(code string) int {
	code = strings.TrimSpace(code)
	return slices.IndexFunc(t.currencies, func(c Currency) bool { return strings.EqualFold(c.Code, code) })
}

// Currency returns the currency registered under code.
func (t *CurrencyTable) Currency(code string) (Currency, bool) {
	i := t.index(code)
	if i < 0 {
		return Currency{}, false
	}
	return t.currencies[i], true
}

// Has reports whether code is registered.
func (t *CurrencyTable) Has(code string) bool { return t.index(code) >= 0 }

// Main returns the main currency.
func (t *CurrencyTable) Main() Currency {
	for _, c := range t.currencies {
		if c.IsMain {
			return c
		}
	}
	// unreachable as long as the table is only mutated through its methods.
	panic("currency table without main currency")
}

// All iterates over the currencies in insertion order.
func (t *CurrencyTable) All() iter.Seq[Currency] {
	return slices.Values(slices.Clone(t.currencies))
}

// Len returns the number of registered currencies.
func (t *CurrencyTable) Len() int { return len(t.currencies) }

// ExchangeRate returns the factor f such that an amount in 'from' times f is
// the same amount in 'to'.
func (t *CurrencyTable) ExchangeRate(from, to string) (decimal.Decimal, error) {
	src, ok := t.Currency(from)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("exchange rate from %q: %w", from, ErrUnknownCurrency)
	}
	dst, ok := t.Currency(to)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("exchange rate to %q: %w", to, ErrUnknownCurrency)
	}
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	return dst.Rate.Div(src.Rate), nil
}

// Convert returns m expressed in the 'to' currency. The amount is multiplied
// by the target rate before the division by the source rate.
func (t *CurrencyTable) Convert(m Money, to string) (Money, error) {
	if _, err := t.ExchangeRate(m.Currency(), to); err != nil {
		return Money{}, err
	}
	if m.Currency() == to {
		return m, nil
	}
	src, _ := t.Currency(m.Currency())
	dst, _ := t.Currency(to)
	return M(m.value.Mul(dst.Rate).Div(src.Rate), to), nil
}

// ConvertOrMain is Convert with the fallback used by aggregates: an
// unregistered source currency is read at face value as the main currency.
// The second result is false when the fallback was used.
func (t *CurrencyTable) ConvertOrMain(m Money, to string) (Money, bool) {
	conv, err := t.Convert(m, to)
	if err == nil {
		return conv, true
	}
	main := t.Main()
	conv, err = t.Convert(M(m.value, main.Code), to)
	if err != nil {
		return M(m.value, main.Code), false
	}
	return conv, false
}

// Add registers c. When c.IsMain is set it atomically becomes the main currency.
func (t *CurrencyTable) Add(c Currency) (Currency, error) {
	c.fillDefaults()
	if err := c.validate(); err != nil {
		return Currency{}, err
	}
	if t.Has(c.Code) {
		return Currency{}, fmt.Errorf("add currency %q: %w", c.Code, ErrDuplicateCurrencyCode)
	}
	if c.IsMain {
		t.clearMain()
	}
	t.currencies = append(t.currencies, c)
	return c, nil
}

// Update replaces the name, symbol and rate of the currency with c.Code. The
// code is the key and the main flag only moves through SetMain.
func (t *CurrencyTable) Update(c Currency) (Currency, error) {
	c.fillDefaults()
	i := t.index(c.Code)
	if i < 0 {
		return Currency{}, fmt.Errorf("update currency %q: %w", c.Code, ErrNotFound)
	}
	if err := c.validate(); err != nil {
		return Currency{}, err
	}
	c.IsMain = t.currencies[i].IsMain
	t.currencies[i] = c
	return c, nil
}

// Delete removes a currency. The main currency cannot be deleted.
func (t *CurrencyTable) Delete(code string) (Currency, error) {
	i := t.index(code)
	if i < 0 {
		return Currency{}, fmt.Errorf("delete currency %q: %w", code, ErrNotFound)
	}
	c := t.currencies[i]
	if c.IsMain {
		return Currency{}, fmt.Errorf("delete currency %q: %w", code, ErrCannotDeleteMainCurrency)
	}
	t.currencies = slices.Delete(t.currencies, i, i+1)
	return c, nil
}

// SetMain makes code the only main currency.
func (t *CurrencyTable) SetMain(code string) (Currency, error) {
	i := t.index(code)
	if i < 0 {
		return Currency{}, fmt.Errorf("set main currency %q: %w", code, ErrUnknownCurrency)
	}
	t.clearMain()
	t.currencies[i].IsMain = true
	return t.currencies[i], nil
}

func (t *CurrencyTable) clearMain() {
	for i := range t.currencies {
		t.currencies[i].IsMain = false
	}
}
