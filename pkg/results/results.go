// Package results separates domain outcomes from infrastructure errors.
//
// A service operation returns (OperationResult, error): a non-nil error means the
// operation could not run (database down, panic), while a Failure result means it ran
// and the request was rejected (validation, not found).
package results

// OperationResult holds exactly one of a success or a failure payload.
type OperationResult[S any, F any] struct {
	Success *S
	Failure *F
}

// SuccessResult wraps a success payload.
func SuccessResult[S any, F any](s S) OperationResult[S, F] {
	return OperationResult[S, F]{Success: &s}
}

// FailureResult wraps a failure payload.
func FailureResult[S any, F any](f F) OperationResult[S, F] {
	return OperationResult[S, F]{Failure: &f}
}

func (r OperationResult[S, F]) IsSuccess() bool { return r.Success != nil }

func (r OperationResult[S, F]) IsFailure() bool { return r.Failure != nil }
