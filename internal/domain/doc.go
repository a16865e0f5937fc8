// Package domain defines the core types of the family tree and its
// relationship-inference engine.
//
// # Core Types
//
// Person is a single individual: name, birth and death dates, gender, and
// handles to parents, children, siblings and partner. Relationships are
// stored as PersonID handles, never as pointers; FamilyGraph owns every
// record and resolves handles through its index.
//
// FamilyGraph holds the population in insertion order and completes
// implicit relationships whenever a record is added:
//
//   - a declared parent gains the child
//   - a declared child gains the parent
//   - a one-sided partner declaration becomes reciprocal
//   - records sharing a mother or a father become siblings
//
// RederiveAll re-runs inference over the whole population, which is needed
// after records were mutated directly.
//
// # Outcomes
//
// No operation returns an error. Add reports an AddStatus (inserted,
// duplicate, nil, self-reference, identifier clash) and partner claims that
// would overwrite an existing partner are recorded as Conflict values.
//
// # Import and Export
//
// Fragment and PersonEntry are the flat, handle-based form read and written
// by the codec package. Snapshot captures a graph including everything
// inference derived.
package domain
