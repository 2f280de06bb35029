// Package order contains the order aggregate of the marketplace domain.
//
// Order is the aggregate root for a buyer's purchase from a single seller. It
// owns the line items snapshotted at purchase time, the monetary totals, and
// the lifecycle status. Status changes flow through the state machine encoded
// in Status; every applied transition is mirrored by an append-only
// TimelineEvent so the audit history stays distinct from current-state fields.
//
// Money safety rules enforced here:
//   - every item shares the order currency
//   - totalItemCents is always the exact sum of unitPriceCents * quantity
//   - items are immutable once the order is placed; later listing price
//     changes never retroactively alter an order
//
// Side effects of transitions (payment capture, escrow movement) are decided
// by the application layer; this package only answers whether a transition is
// legal and which timestamp it stamps.
package order
