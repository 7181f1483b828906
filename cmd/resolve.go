package cmd

import (
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/jelsonhosly/ledger"
)

// resolve finds the item designated by ref, trying in turn an exact ID, a
// unique case insensitive name, and a unique ID prefix. name may be nil for
// items without a name.
func resolve[T any](kind, ref string, items iter.Seq[T], id, name func(T) string) (T, error) {
	var zero T
	if ref == "" {
		return zero, fmt.Errorf("missing %s: %w", kind, ledger.ErrInvalid)
	}

	var byName, byPrefix []T
	for item := range items {
		if id(item) == ref {
			return item, nil
		}
		if name != nil && strings.EqualFold(name(item), ref) {
			byName = append(byName, item)
		}
		if strings.HasPrefix(id(item), ref) {
			byPrefix = append(byPrefix, item)
		}
	}
	for _, matches := range [][]T{byName, byPrefix} {
		switch len(matches) {
		case 0:
			continue
		case 1:
			return matches[0], nil
		default:
			return zero, fmt.Errorf("%s %q is ambiguous, %d matches: use its ID", kind, ref, len(matches))
		}
	}
	return zero, fmt.Errorf("%s %q: %w", kind, ref, ledger.ErrNotFound)
}

func resolveAccount(l *ledger.Ledger, ref string) (ledger.Account, error) {
	return resolve("account", ref, l.Accounts(),
		func(a ledger.Account) string { return a.ID },
		func(a ledger.Account) string { return a.Name })
}

func resolveCategory(l *ledger.Ledger, ref string) (ledger.Category, error) {
	return resolve("category", ref, l.Categories(),
		func(c ledger.Category) string { return c.ID },
		func(c ledger.Category) string { return c.Name })
}

func resolveSubcategory(c ledger.Category, ref string) (ledger.Subcategory, error) {
	return resolve("subcategory", ref, slices.Values(c.Subcategories),
		func(s ledger.Subcategory) string { return s.ID },
		func(s ledger.Subcategory) string { return s.Name })
}

func resolveTransaction(l *ledger.Ledger, ref string) (ledger.Transaction, error) {
	return resolve("transaction", ref, l.Transactions(),
		func(tx ledger.Transaction) string { return tx.ID }, nil)
}

// resolveSnapshot finds a snapshot by its position in the history or by ID.
func resolveSnapshot(h *ledger.History, ref string) (ledger.Snapshot, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		for i, s := range h.Snapshots() {
			if i == n {
				return s, nil
			}
		}
		return ledger.Snapshot{}, fmt.Errorf("snapshot #%d: %w", n, ledger.ErrNotFound)
	}
	var snapshots []ledger.Snapshot
	for _, s := range h.Snapshots() {
		snapshots = append(snapshots, s)
	}
	return resolve("snapshot", ref, slices.Values(snapshots),
		func(s ledger.Snapshot) string { return s.ID }, nil)
}
