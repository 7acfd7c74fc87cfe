// Package ledger implements the balance-and-settlement engine for a group of
// people sharing expenses.
//
// A Group owns its members and entries. Entries reference members by their
// index in the group's registry and every member keeps the IDs of the entries
// it paid for or received from, so a member's balance can be derived without
// scanning the whole ledger. Balances are never cached: every call recomputes
// them from the live entries, converting each amount into the group's base
// currency on the fly.
//
// Balances returns the pending transfers that would bring every member back
// to zero. They are not stored unless promoted with SettleUp.
//
// A Group is not safe for concurrent use. Callers sharing one across
// goroutines must serialize mutations and must not compute balances while a
// mutation is in progress.
package ledger
