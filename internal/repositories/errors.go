package repositories

import "fmt"

// TransactionError means the transactional executor gave up after exhausting
// its retries. It is fatal to the enclosing chunk or simulation iteration.
type TransactionError struct {
	Attempts int
	Err      error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}
