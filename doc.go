// Package stk provides the core of a local-first stock wallet tracker.
//
// The core functionalities include:
//   - Ledger Management: a cash wallet whose balance is always the sum of an
//     append-only list of signed transactions (deposits, withdrawals, buys
//     and sells).
//   - Holdings: the set of owned positions, one per ticker, opened by a buy
//     and closed by a full sell.
//   - Valuation: stateless functions that derive running balances, portfolio
//     value and profit/loss from the wallet and the holdings.
//   - Data Persistence: a Store that loads and saves the whole State through
//     a key/value Backend, the same way a browser keeps it in local storage.
//
// Money is kept as exact decimals everywhere; rounding only happens when a
// value is rendered.
//
// This package serves as the foundational logic for the `stk` command-line
// tool.
package stk
