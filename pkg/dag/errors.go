package dag

import (
	"errors"
	"strings"
)

var (
	// ErrConfiguration is the kind of every ConfigurationError.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrState is the kind of every StateError.
	ErrState = errors.New("invalid state")
	// ErrVerification is the kind of every VerificationError.
	ErrVerification = errors.New("dag verification failed")
)

// ConfigurationError is returned when a vertex is constructed with invalid arguments.
type ConfigurationError struct {
	Msg string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return e.Msg
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// StateError is returned when an operation violates a structural capacity rule,
// like adding a second root input to a vertex.
type StateError struct {
	Msg string
}

// Error implements the error interface.
func (e *StateError) Error() string {
	return e.Msg
}

func (e *StateError) Unwrap() error { return ErrState }

// VerificationError is returned by DAG.Verify when one of the verification passes fails.
type VerificationError struct {
	// Check is the name of the failed pass.
	Check string
	// Msg is the human-readable description. Its prefix is stable.
	Msg string
	// Cycle holds the vertex names of the discovered cycle, first name repeated last.
	// Only set by the acyclicity pass.
	Cycle []string
}

// Error implements the error interface.
func (e *VerificationError) Error() string {
	return e.Msg
}

func (e *VerificationError) Unwrap() error { return ErrVerification }

func verificationError(check, msg string) *VerificationError {
	return &VerificationError{Check: check, Msg: msg}
}

func cycleError(path []string) *VerificationError {
	return &VerificationError{
		Check: CheckAcyclic,
		Msg:   "DAG contains a cycle: " + strings.Join(path, " -> "),
		Cycle: path,
	}
}
