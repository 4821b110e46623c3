// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Invariants that span several rows are kept here: content-hash identity,
// get-or-create resolution under concurrent callers, atomic batches and
// the delete order of the collection graph. Stores only enforce keys.
package services
