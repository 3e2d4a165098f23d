package utils

import "errors"

var (
	ErrPlanLimitExceeded    = errors.New("plan limit exceeded")
	ErrVersionNameConflict  = errors.New("version name conflict")
	ErrMissingConfiguration = errors.New("missing configuration")
	ErrPlanNotFound         = errors.New("plan not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidPage          = errors.New("invalid page parameter")
	ErrInvalidPageSize      = errors.New("invalid page size parameter")
	ErrDatabaseError        = errors.New("database error")
)

// DatabaseError marks err as a persistence failure while keeping the cause
// reachable through errors.Is / errors.As.
func DatabaseError(err error) error {
	if err == nil {
		return nil
	}
	return &dbError{cause: err}
}

type dbError struct {
	cause error
}

func (e *dbError) Error() string {
	return ErrDatabaseError.Error() + ": " + e.cause.Error()
}

func (e *dbError) Is(target error) bool {
	return target == ErrDatabaseError
}

func (e *dbError) Unwrap() error {
	return e.cause
}
