package cafes

import "fmt"

// PersistResult tracks counts and errors from one persist batch. Row
// failures are accumulated, not fatal: the verify step decides whether the
// request as a whole failed.
type PersistResult struct {
	Candidates int
	Upserted   int
	Errors     []string
}

// AddErrorf records a formatted error message.
func (r *PersistResult) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the persist batch.
func (r *PersistResult) Summary() string {
	return fmt.Sprintf("candidates=%d upserted=%d errors=%d",
		r.Candidates, r.Upserted, len(r.Errors))
}
