// Package errors provides the typed failures produced while compiling an
// endpoint into an outbound request.
//
// Every failure is an *AppError carrying a machine-readable ErrorCode, so
// callers can branch on the kind without string matching:
//
//	draft, err := r.Build(server, ep)
//	if errors.Is(err, errors.ErrCodeInvalidBaseURL) {
//	    // fix configuration
//	}
package errors
