// Package escrow contains the escrow holding aggregate and its append-only
// transaction ledger.
//
// One Holding exists per order. It is opened in Holding state when the
// order's payment is captured and then advances monotonically to Released or
// Refunded, with a Disputed detour that freezes funds until a human resolves
// the dispute. Every holding mutation appends exactly one Transaction ledger
// entry in the same unit of work, so the current holding status is always
// derivable from the most recent ledger entry.
package escrow
