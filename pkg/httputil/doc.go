// Package httputil provides retry helpers for registry requests.
//
// # Retry
//
// [Retry] re-runs an operation for transient failures only. Registry clients
// mark those failures by wrapping them in [RetryableError]:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Everything else (404, malformed documents) is returned immediately.
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return client.Get(ctx, url, &doc)
//	})
//
// The delay doubles after each failed attempt. Cancelling ctx stops the
// wait between attempts and returns ctx.Err().
//
// # Defaults
//
// [RetryWithBackoff] uses 3 attempts with a 1 second base delay.
package httputil
