// Package httputil provides retry helpers for the HTTP clients that talk to
// the people query service and image hosts.
//
// # Retry
//
// [Retry] re-runs an operation with exponential backoff, but only when the
// failure is wrapped in [RetryableError]. Clients wrap transient failures
// (connection errors, 5xx responses, 429 rate limiting) and return
// everything else unwrapped so it fails fast:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
//
// [RetryWithBackoff] uses 3 attempts with a 1 second initial delay.
//
// Response caching lives in the cache package.
package httputil
