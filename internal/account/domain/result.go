package domain

// Result reports the outcome of a credential store operation that can fail
// for reasons the caller should show to the user. Unexpected failures are
// returned as a Go error alongside a zero Result instead.
type Result struct {
	Succeeded bool
	Errors    []string
}

// Success is the result of an operation that went through.
var Success = Result{Succeeded: true}

// Failed returns a failed result carrying errs.
func Failed(errs ...string) Result {
	return Result{Errors: errs}
}
