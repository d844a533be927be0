// Package errs provides the error types handlers use to report expected
// failures with an HTTP status.
package errs

import "errors"

// Response is the form used for API responses from failures in the API.
type Response struct {
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
	TraceID string            `json:"trace_id,omitempty"`
}

// Trusted carries an error whose message is safe to return to the client
// along with the status to respond with.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted wraps a provided error with an HTTP status code. This
// function should be used when handlers encounter expected errors.
func NewTrusted(err error, status int) error {
	return &Trusted{err, status}
}

// Error implements the error interface.
func (te *Trusted) Error() string {
	return te.Err.Error()
}

// Unwrap gives errors.Is access to the wrapped ledger error.
func (te *Trusted) Unwrap() error {
	return te.Err
}

// IsTrusted checks if a Trusted error exists in the chain.
func IsTrusted(err error) bool {
	var te *Trusted
	return errors.As(err, &te)
}

// GetTrusted returns the Trusted error from the chain or nil.
func GetTrusted(err error) *Trusted {
	var te *Trusted
	if !errors.As(err, &te) {
		return nil
	}
	return te
}

// =============================================================================

// Rule binds a sentinel error to the status reported for it.
type Rule struct {
	Err    error
	Status int
}

// Map returns err as a Trusted error with the status of the first rule it
// matches. Errors matching no rule are returned untouched and end up as 500.
func Map(err error, rules ...Rule) error {
	if err == nil {
		return nil
	}

	for _, rule := range rules {
		if errors.Is(err, rule.Err) {
			return NewTrusted(err, rule.Status)
		}
	}

	return err
}
