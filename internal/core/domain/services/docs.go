// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the marketplace order system. It implements
// business workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - PricingResolver: A domain service that resolves authoritative line-item
//     prices from listing snapshots when an order is placed
//
// Domain services coordinate between aggregates and external collaborator data,
// implementing business logic that spans multiple bounded contexts following
// Domain-Driven Design principles.
package services
