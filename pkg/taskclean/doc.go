// Package taskclean holds the value types exchanged with the task cleanup subsystem:
// task attempt identities and the event requesting the cleanup of an attempt.
//
// Cleaning up is not performed here. Events can be validated against a verified plan.
package taskclean
