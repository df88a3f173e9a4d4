package google

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// retryTransport turns HTTP error statuses into errors and retries transient
// failures (network errors, 429 and 5xx responses) with exponential backoff
// while respecting request context cancellation.
type retryTransport struct {
	next        http.RoundTripper
	maxAttempts int
	backoff     time.Duration
}

func newRetryTransport(next http.RoundTripper, maxAttempts int) *retryTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &retryTransport{
		next:        next,
		maxAttempts: maxAttempts,
		backoff:     200 * time.Millisecond,
	}
}

func (t *retryTransport) do(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	backoff := t.backoff

	var lastErr error

	for attempt := 1; attempt <= t.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r := req
		if attempt > 1 {
			r = req.Clone(ctx)
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, fmt.Errorf("rewind request body: %w", err)
				}
				r.Body = body
			}
		}

		resp, err := t.do(r)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case 429, 500, 502, 503, 504:
				retry = true
			}
		}

		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == t.maxAttempts {
			return nil, lastErr
		}

		zap.L().Debug("retrying maps request",
			zap.String("path", req.URL.Path),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}
