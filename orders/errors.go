package orders

import "errors"

// ErrOrderNotFound indicates the order ID is not present in the local
// collection.
var ErrOrderNotFound = errors.New("order not found")

// ValidationError indicates malformed local input that was rejected
// before any network call was issued. The caller may correct the input
// and retry.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
