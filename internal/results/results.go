// Package results carries the outcome of a service operation: either a
// success payload or a domain failure. Infrastructure errors travel
// separately as a plain error.
package results

// OperationResult holds exactly one of Success or Failure.
type OperationResult[S any, F any] struct {
	Success *S
	Failure *F
}

// IsSuccess reports whether the operation produced a success payload.
func (r OperationResult[S, F]) IsSuccess() bool {
	return r.Success != nil
}

// IsFailure reports whether the operation produced a domain failure.
func (r OperationResult[S, F]) IsFailure() bool {
	return r.Failure != nil
}

// SuccessResult wraps a success payload.
func SuccessResult[S any, F any](s S) OperationResult[S, F] {
	return OperationResult[S, F]{Success: &s}
}

// FailureResult wraps a domain failure.
func FailureResult[S any, F any](f F) OperationResult[S, F] {
	return OperationResult[S, F]{Failure: &f}
}
