package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	userAgent       = "cybertrend/1.0 (https://github.com/Drominaman/cybertrend-dashboard)"
	maxBodyBytes    = 32 << 20
	maxRetryAfter   = 30 * time.Second
	requestInterval = 250 * time.Millisecond
)

// httpGetter performs paced GET requests, retrying transient failures.
type httpGetter struct {
	client   *http.Client
	limiter  *rate.Limiter
	backoffs []time.Duration
}

func newHTTPGetter(timeout time.Duration) *httpGetter {
	return &httpGetter{
		client:   &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(rate.Every(requestInterval), 2),
		backoffs: []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
	}
}

// get fetches url and returns the body of a 200 response.
// Retries on 408, 429 and 5xx with backoff; on 429 honors Retry-After.
func (g *httpGetter) get(ctx context.Context, src Source, url string, header http.Header) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= len(g.backoffs); attempt++ {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, &Error{Source: src.Name, URL: url, Message: "rate limiter wait failed", Cause: err}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, &Error{Source: src.Name, URL: url, Message: "failed to create request", Cause: err}
		}
		req.Header.Set("User-Agent", userAgent)
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}

		resp, err := g.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, &Error{Source: src.Name, URL: url, Message: "request cancelled", Cause: ctx.Err()}
			}
			return nil, &Error{Source: src.Name, URL: url, Message: "network error", Cause: err}
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		resp.Body.Close()
		if err != nil {
			return nil, &Error{Source: src.Name, URL: url, Message: "failed to read response", StatusCode: resp.StatusCode, Cause: err}
		}

		if resp.StatusCode == http.StatusOK {
			return body, nil
		}

		lastErr = &Error{
			Source:     src.Name,
			URL:        url,
			Message:    fmt.Sprintf("HTTP error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
			StatusCode: resp.StatusCode,
		}
		if !retryable(resp.StatusCode) || attempt == len(g.backoffs) {
			return nil, lastErr
		}

		delay := g.backoffs[attempt]
		if resp.StatusCode == http.StatusTooManyRequests {
			if d, ok := retryAfter(resp.Header.Get("Retry-After")); ok {
				delay = d
			}
		}

		select {
		case <-ctx.Done():
			return nil, &Error{Source: src.Name, URL: url, Message: "request cancelled during retry", Cause: ctx.Err()}
		case <-time.After(delay):
		}
	}
	return nil, lastErr
}

func retryable(status int) bool {
	return status == http.StatusRequestTimeout || status == http.StatusTooManyRequests || status >= 500
}

func retryAfter(v string) (time.Duration, bool) {
	seconds, err := strconv.Atoi(v)
	if err != nil || seconds <= 0 {
		return 0, false
	}
	d := time.Duration(seconds) * time.Second
	if d > maxRetryAfter {
		d = maxRetryAfter
	}
	return d, true
}
