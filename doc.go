// Package cashfolio provides the valuation and income engine for a
// multi-currency, multi-asset personal account book. It is designed to be
// exact, cache-friendly, and storage-agnostic: all arithmetic is decimal, all
// derived values are cached time-series, and all persistence happens behind a
// narrow row-source contract.
//
// The core functionalities include:
//   - Unit Model: Balances denominated in fiat currencies, cryptocurrencies,
//     or securities with a trade currency, with a single comparable Unit type.
//   - Rate Provision: Historical prices of any unit versus a fixed base
//     currency, fetched from pluggable feeds, cached per day, with bounded
//     backtracking over non-trading days for securities.
//   - Conversion: Exact conversion between any two units on any date by
//     triangulating through the base currency.
//   - Balances: Per-account balances and ledger views in any unit as of any
//     date, with an invalidatable per-account balance series in the cache.
//   - Balance Sheet: The asset and liability hierarchies valued in the book's
//     reference currency, zero branches pruned, equity derived.
//   - Income Statement: Per-period income of the equity hierarchy, augmented
//     with synthesized transaction and holding gain/loss accounts that make
//     rate-driven value changes visible.
//
// This package serves as the foundational logic for the `cashfolio`
// command-line tool, ensuring that all reports are consistent and based on a
// single source of truth.
package cashfolio
