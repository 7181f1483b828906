package ledger

import (
	"fmt"
	"slices"
	"strings"
)

// DeletionMode tells what happens to the transactions of a deleted account.
type DeletionMode int

const (
	// DeleteUnused deletes the account only if no transaction references it.
	DeleteUnused DeletionMode = iota
	// DeleteTransactions deletes the account and every transaction that
	// references it on either leg.
	DeleteTransactions
	// MoveTransactions repoints every referencing transaction to a target
	// account, then deletes the account.
	MoveTransactions
)

func (m DeletionMode) String() string {
	switch m {
	case DeleteUnused:
		return "unused"
	case DeleteTransactions:
		return "delete"
	case MoveTransactions:
		return "move"
	default:
		return "unknown"
	}
}

// ParseDeletionMode parses "unused", "delete" or "move".
func ParseDeletionMode(s string) (DeletionMode, error) {
	switch strings.ToLower(s) {
	case "", "unused":
		return DeleteUnused, nil
	case "delete":
		return DeleteTransactions, nil
	case "move":
		return MoveTransactions, nil
	default:
		return 0, fmt.Errorf("unknown deletion mode %q: %w", s, ErrInvalid)
	}
}

// DeletionPlan describes the consequences of deleting an account.
type DeletionPlan struct {
	Account    Account
	References int // number of transactions referencing the account
}

// RequiresStrategy reports whether the caller must choose between deleting
// and moving the account transactions.
func (p DeletionPlan) RequiresStrategy() bool { return NeedsStrategy(p.References) }

// NeedsStrategy is the rule used to decide whether an account deletion can
// proceed directly: it can when no transaction references the account.
func NeedsStrategy(references int) bool { return references > 0 }

// PlanAccountDeletion counts the transactions that reference the account.
func (s *State) PlanAccountDeletion(id string) (DeletionPlan, error) {
	a, ok := s.Account(id)
	if !ok {
		return DeletionPlan{}, fmt.Errorf("account %q: %w", id, ErrNotFound)
	}
	plan := DeletionPlan{Account: a}
	for _, tx := range s.transactions {
		if tx.References(id) {
			plan.References++
		}
	}
	return plan, nil
}

// deleteAccount removes an account according to mode. It returns the deleted
// account and the number of transactions removed or moved.
//
// Balances are left untouched in every mode: removed transfers keep their
// effect on the surviving account, and moved transactions are assumed to be
// already reflected in both running balances.
func (s *State) deleteAccount(id string, mode DeletionMode, target string) (Account, int, error) {
	plan, err := s.PlanAccountDeletion(id)
	if err != nil {
		return Account{}, 0, fmt.Errorf("delete account: %w", err)
	}

	switch mode {
	case DeleteUnused:
		if plan.RequiresStrategy() {
			return Account{}, 0, fmt.Errorf("account %q has %d transactions: %w", plan.Account.Name, plan.References, ErrStrategyRequired)
		}
	case DeleteTransactions:
		s.transactions = slices.DeleteFunc(s.transactions, func(tx Transaction) bool { return tx.References(id) })
	case MoveTransactions:
		if target == "" || target == id {
			return Account{}, 0, fmt.Errorf("move transactions of %q to %q: %w", id, target, ErrInvalidTarget)
		}
		if _, ok := s.Account(target); !ok {
			return Account{}, 0, fmt.Errorf("move transactions of %q to unknown %q: %w", id, target, ErrInvalidTarget)
		}
		for i := range s.transactions {
			tx := &s.transactions[i]
			if tx.AccountID == id {
				tx.AccountID = target
			}
			if tx.ToAccountID == id {
				tx.ToAccountID = target
			}
		}
	default:
		return Account{}, 0, fmt.Errorf("deletion mode %v: %w", mode, ErrInvalid)
	}

	i := s.accountIndex(id)
	s.accounts = slices.Delete(s.accounts, i, i+1)
	return plan.Account, plan.References, nil
}
