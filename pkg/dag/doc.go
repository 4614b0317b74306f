// Package dag provides the data model of a data-processing DAG and the verifier
// that must accept it before it can be handed to a scheduler.
//
// The main functionalities include:
// - Describing vertices, their root inputs and leaf outputs, and the edges between them.
// - Verifying a DAG: vertex names, port namespace, edge properties and acyclicity.
// - Freezing a verified DAG into an immutable Plan, and walking through it.
//
// A DAG is a mutable builder owned by a single goroutine. A Plan is immutable
// and can be read concurrently.
package dag
