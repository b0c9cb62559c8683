package main

import "fmt"

// InvalidInputError is returned by Build when the input can't be indexed:
// either it is empty, or the sentinel byte occurs before the final position.
// Callers can recover by choosing a different sentinel or rejecting the input.
type InvalidInputError struct {
	Reason   string
	Sentinel byte
}

func (e InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s (sentinel %q)", e.Reason, e.Sentinel)
}

// InvariantViolation marks a broken construction invariant, such as a
// dangling active edge. It is a defect in the builder, never a condition a
// caller should handle, so it is delivered via panic and must not be
// recovered.
type InvariantViolation struct {
	Detail string
}

func (e InvariantViolation) Error() string {
	return "suffix tree invariant violated: " + e.Detail
}
