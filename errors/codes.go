package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Request build errors
const (
	// ErrCodeInvalidBaseURL indicates the server base URL is not an absolute URL.
	ErrCodeInvalidBaseURL ErrorCode = "INVALID_BASE_URL"
	// ErrCodeMissingURL indicates a query encoder ran on a draft with no URL.
	ErrCodeMissingURL ErrorCode = "MISSING_URL"
	// ErrCodeEncodingFailed indicates parameters could not be serialized.
	ErrCodeEncodingFailed ErrorCode = "ENCODING_FAILED"
	// ErrCodeParametersNil indicates parameters were required but absent.
	ErrCodeParametersNil ErrorCode = "PARAMETERS_NIL"
)

// Configuration errors
const (
	// ErrCodeInvalidConfig indicates a configuration value failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// String returns the code as a plain string.
func (c ErrorCode) String() string { return string(c) }

var knownCodes = map[ErrorCode]bool{
	ErrCodeInvalidBaseURL: true,
	ErrCodeMissingURL:     true,
	ErrCodeEncodingFailed: true,
	ErrCodeParametersNil:  true,
	ErrCodeInvalidConfig:  true,
}

// IsKnownCode reports whether code is one of the codes defined by this package.
func IsKnownCode(code ErrorCode) bool {
	return knownCodes[code]
}
