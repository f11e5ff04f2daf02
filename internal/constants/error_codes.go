package constants

// Report store client error codes
// These constants classify failures of the remote report store and the
// document-generation service.

const (
	ErrCodeNetworkError   = "NETWORK_ERROR"
	ErrCodeTimedOut       = "TIMED_OUT"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeRateLimited    = "RATE_LIMITED"
	ErrCodeInvalidPayload = "INVALID_PAYLOAD"
	ErrCodePersistence    = "PERSISTENCE_FAILURE"
	ErrCodeExportFailed   = "EXPORT_FAILED"
)

// Validation failure messages shown to the user before any network call
// is attempted.
const (
	MsgProjectNameRequired = "Project name is required"
	MsgReportDateRequired  = "Report date is required"
	MsgActivityRequired    = "Today's activity is required"
)

var ErrorMessages = map[string]string{
	ErrCodeNetworkError:   "Unable to reach the report service. Please check your connection",
	ErrCodeTimedOut:       "The report service took too long to respond",
	ErrCodeNotFound:       "No report exists for the requested date",
	ErrCodeUnauthorized:   "Authentication with the report service failed",
	ErrCodeRateLimited:    "Too many requests. Please try again later",
	ErrCodeInvalidPayload: "The report payload was rejected by the service",
	ErrCodePersistence:    "The report service could not persist the report",
	ErrCodeExportFailed:   "Document generation failed",
}

// GetErrorMessage returns the human-readable message for a code.
func GetErrorMessage(code string) string {
	if msg, ok := ErrorMessages[code]; ok {
		return msg
	}
	return "An unexpected error occurred"
}
