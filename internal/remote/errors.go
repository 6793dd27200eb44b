package remote

import "errors"

var (
	// ErrNetwork marks transient transport failures: connection errors,
	// timeouts, and non-2xx server responses. Callers may retry.
	ErrNetwork = errors.New("network error")

	// ErrRemoteFormat marks a response that arrived but could not be
	// interpreted: invalid JSON, missing required fields, nonsense
	// values. Retrying is pointless until the server is fixed; local
	// state is never touched.
	ErrRemoteFormat = errors.New("malformed remote response")
)
