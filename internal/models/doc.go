// Package models defines the core domain models for the parking-fee registry.
//
// # Models
//
//   - Neighbor: a resident record, the aggregate root
//   - Vehicle: a registered automobile owned by exactly one Neighbor
//   - Payment: a recorded parking-fee payment, optionally with evidence
//
// # Design Principles
//
// 1. **Neighbor is the root**: Vehicles and Payments reference their owner by
// NeighborID and never outlive it. The storage layer enforces the cascade.
// 2. **No pointers between aggregates**: children carry the owner ID, the
// owner does not embed its children. Callers load collections explicitly.
// 3. **Immutable records**: there is no update path. A record is created,
// read, and eventually deleted.
package models
