// Package sentinel provides a const-declarable error type for sentinel errors.
//
// Sentinel errors declared with errors.New are package-level variables that
// consumers can reassign. Error is a string-based error type that can be
// declared as a const, keeping sentinel errors immutable while remaining
// comparable with errors.Is through wrapped error chains.
package sentinel
