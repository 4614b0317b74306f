// Package dagspec orchestrates plan definitions.
//
// The main functionalities include:
// - Verifying many plan definitions concurrently, and reporting every verification pass.
// - Listing the vertices of a plan in several formats.
// - Computing stable, human-readable fingerprints of plans and vertices.
package dagspec
