// Package models defines the persisted shape of a group ledger.
//
// A Group document is what storage backends read and write and what the
// command-line tool keeps on disk as JSON. It carries no derived values:
// balances and pending settlements are always recomputed by the ledger
// package after replaying the document.
//
// # Document layout
//
//   - name, description, currency: group identity and base currency
//   - exchange_rates: currency code to units-per-one-base-unit
//   - members: registry in insertion order
//   - purchases, transfers: ledger entries, replayed in creation order
//
// Every record carries a creation stamp; entries additionally carry the time
// they were last modified. Times are written as local "02.01.2006 15:04:05"
// strings, see Stamp.
package models
