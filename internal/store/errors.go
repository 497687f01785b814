// ABOUTME: Error types returned by the plan store.
// ABOUTME: PersistenceError means the mutation was not applied.
package store

import "fmt"

// PersistenceError reports a commit that could not be serialized or saved.
// In-memory state is unchanged when it is returned.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
