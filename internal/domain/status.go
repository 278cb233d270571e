package domain

// RequestStatus enumerates the lifecycle of a generation request within a
// session. At most one request may be in flight at a time; the session state
// machine rejects submits while Submitting.
type RequestStatus string

const (
	StatusIdle       RequestStatus = "idle"
	StatusSubmitting RequestStatus = "submitting"
	StatusSucceeded  RequestStatus = "succeeded"
	StatusFailed     RequestStatus = "failed"
)

// Terminal reports whether the status permits a new submit.
func (s RequestStatus) Terminal() bool {
	return s != StatusSubmitting
}
