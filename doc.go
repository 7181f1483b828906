// Package ledger keeps a user's personal finances: accounts, categories,
// currencies and transactions, in memory, with multi-step undo.
//
// The main type is [Ledger], the single handle through which the data is
// read and changed:
//   - Accounts hold a running balance, moved by paid transactions (income,
//     expense, or transfer between two accounts at face value).
//   - Categories and their subcategories label income and expense
//     transactions. Transactions refer to them by name.
//   - The currency table holds rates relative to a common base, and exactly
//     one main currency used for totals.
//   - Every successful mutation records a full snapshot of the state in the
//     [History], which supports undo, redo, and restoring any snapshot.
//
// The state can be exported to and imported from a JSON [Document], and a
// whole session (state and history) can be persisted with [EncodeLedger]
// and [DecodeLedger].
//
// This package serves as the foundational logic for the `lgr` command-line
// tool.
package ledger
