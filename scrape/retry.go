package scrape

import (
	"context"
	"time"

	"github.com/fwojciec/menuscrape"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// RetryFunc is called before each retry with the attempt about to be made.
type RetryFunc func(url string, attempt int, err error)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetry fetches url, retrying once per delay after a failure.
// onRetry, if not nil, is called before every retry. The last error is
// returned when every attempt fails. EINVALID and ENOTFOUND errors are
// permanent and returned without retrying.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, onRetry RetryFunc, delays []time.Duration) (string, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		content, err := fetch(ctx, url)
		if err == nil {
			return content, nil
		}
		lastErr = err

		if code := menuscrape.ErrorCode(err); code == menuscrape.EINVALID || code == menuscrape.ENOTFOUND {
			break
		}
		if attempt >= maxAttempts-1 {
			break
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		if onRetry != nil {
			onRetry(url, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return "", lastErr
}
