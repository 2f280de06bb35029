// Package kernel contains the shared value objects of the marketplace domain.
//
// UUID wraps github.com/google/uuid to provide validated, immutable
// identifiers for entities and aggregates. Money pairs an amount in the
// smallest currency unit with an ISO 4217 currency code, which keeps all
// monetary arithmetic in integer cents and makes cross-currency mistakes a
// construction-time error rather than a settlement-time one.
//
// Value objects in this package are immutable and safe for concurrent use.
// Their zero values are invalid and fail Validate; construct them through the
// provided factory functions.
package kernel
