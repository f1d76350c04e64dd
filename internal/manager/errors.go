package manager

import "fmt"

// ValidationError rejects malformed or duplicate task input. The operation
// aborts with no partial mutation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("manager: invalid input: %s", e.Message)
}

// NotFoundError marks an operation that referenced a nonexistent task id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("manager: task %s not found", e.ID)
}
