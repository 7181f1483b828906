package ledger

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// CategoryType tells which transaction type may use a category.
type CategoryType string

const (
	IncomeCategory  CategoryType = "income"
	ExpenseCategory CategoryType = "expense"
)

// ParseCategoryType parses "income" or "expense".
func ParseCategoryType(s string) (CategoryType, error) {
	switch t := CategoryType(strings.ToLower(strings.TrimSpace(s))); t {
	case IncomeCategory, ExpenseCategory:
		return t, nil
	default:
		return "", fmt.Errorf("unknown category type %q: %w", s, ErrInvalid)
	}
}

// Subcategory refines a category.
type Subcategory struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

// Category groups income or expense transactions.
//
// Transactions refer to categories and subcategories by name, not by id.
// Renaming or deleting a category leaves those names untouched.
type Category struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Type          CategoryType  `json:"type"`
	Color         string        `json:"color,omitempty"`
	Icon          string        `json:"icon,omitempty"`
	Subcategories []Subcategory `json:"subcategories,omitempty"`
}

// Subcategory returns the subcategory with the given name.
func (c Category) Subcategory(name string) (Subcategory, bool) {
	i := slices.IndexFunc(c.Subcategories, func(s Subcategory) bool { return s.Name == name })
	if i < 0 {
		return Subcategory{}, false
	}
	return c.Subcategories[i], true
}

func (c Category) clone() Category {
	c.Subcategories = slices.Clone(c.Subcategories)
	return c
}

// validate checks a category and assigns missing subcategory ids.
func (c Category) validate() (Category, error) {
	c = c.clone()
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return c, fmt.Errorf("category name is missing: %w", ErrInvalid)
	}
	if _, err := ParseCategoryType(string(c.Type)); err != nil {
		return c, err
	}
	seen := make(map[string]struct{}, len(c.Subcategories))
	for i := range c.Subcategories {
		sub := &c.Subcategories[i]
		sub.Name = strings.TrimSpace(sub.Name)
		if sub.Name == "" {
			return c, fmt.Errorf("category %q: subcategory name is missing: %w", c.Name, ErrInvalid)
		}
		if sub.ID == "" {
			sub.ID = uuid.NewString()
		}
		if _, dup := seen[sub.ID]; dup {
			return c, fmt.Errorf("category %q: duplicate subcategory id %q: %w", c.Name, sub.ID, ErrInvalid)
		}
		seen[sub.ID] = struct{}{}
	}
	return c, nil
}
