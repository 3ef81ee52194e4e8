package particle

import "errors"

// ErrBudgetExhausted indicates an allocation with zero free slots under the
// current budget. Callers drop the spawn; it is never fatal.
var ErrBudgetExhausted = errors.New("particle: budget exhausted")
