package client

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// newLoggingTransport logs every attempt at debug level.
func newLoggingTransport(next http.RoundTripper, logger *zap.Logger) http.RoundTripper {
	return roundTripFunc(func(req *http.Request) (*http.Response, error) {
		start := time.Now()
		resp, err := next.RoundTrip(req)
		fields := []zap.Field{
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil {
			logger.Debug("wats request failed", append(fields, zap.Error(err))...)
			return nil, err
		}
		logger.Debug("wats request", append(fields, zap.Int("status", resp.StatusCode))...)
		return resp, nil
	})
}

func newRateLimitTransport(next http.RoundTripper, rps float64, burst int) http.RoundTripper {
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if err := limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
		return next.RoundTrip(req)
	})
}

var errServerFailure = errors.New("server failure")

func newBreakerTransport(next http.RoundTripper, cfg BreakerConfig, logger *zap.Logger) http.RoundTripper {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	name := cfg.Name
	if name == "" {
		name = "wats"
	}
	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:    name,
		Timeout: cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return roundTripFunc(func(req *http.Request) (*http.Response, error) {
		resp, err := cb.Execute(func() (*http.Response, error) {
			resp, err := next.RoundTrip(req)
			if err != nil {
				return nil, err
			}
			if resp.StatusCode >= http.StatusInternalServerError {
				return resp, errServerFailure
			}
			return resp, nil
		})
		switch {
		case errors.Is(err, errServerFailure):
			return resp, nil
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		return resp, err
	})
}

var defaultRetryStatuses = []int{
	http.StatusTooManyRequests,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
}

var retryableMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodOptions: true,
	http.MethodPut:     true,
	http.MethodDelete:  true,
}

var errRetryableStatus = errors.New("retryable status")

// newRetryTransport retries idempotent requests on network errors and on
// gateway statuses. When attempts run out the last response is returned.
func newRetryTransport(next http.RoundTripper, cfg RetryConfig, logger *zap.Logger) http.RoundTripper {
	statuses := make(map[int]bool)
	list := cfg.Statuses
	if len(list) == 0 {
		list = defaultRetryStatuses
	}
	for _, s := range list {
		statuses[s] = true
	}

	return roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if !retryableMethods[req.Method] {
			return next.RoundTrip(req)
		}

		bo := backoff.NewExponentialBackOff()
		if cfg.InitialBackoff > 0 {
			bo.InitialInterval = cfg.InitialBackoff
		}
		if cfg.MaxBackoff > 0 {
			bo.MaxInterval = cfg.MaxBackoff
		}
		bo.MaxElapsedTime = 0
		bo.Reset()
		policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(cfg.MaxRetries)), req.Context())

		var (
			last    *http.Response
			attempt int
		)
		op := func() error {
			if last != nil {
				_, _ = io.Copy(io.Discard, last.Body)
				last.Body.Close()
				last = nil
			}

			r := req
			if attempt > 0 {
				r = req.Clone(req.Context())
				if req.GetBody != nil {
					body, err := req.GetBody()
					if err != nil {
						return backoff.Permanent(err)
					}
					r.Body = body
				}
			}
			attempt++

			resp, err := next.RoundTrip(r)
			if err != nil {
				if req.Context().Err() != nil || errors.Is(err, ErrCircuitOpen) {
					return backoff.Permanent(err)
				}
				return err
			}
			last = resp
			if statuses[resp.StatusCode] {
				return errRetryableStatus
			}
			return nil
		}
		notify := func(err error, wait time.Duration) {
			logger.Warn("retrying wats request",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.Error(err),
			)
		}

		err := backoff.RetryNotify(op, policy, notify)
		if err == nil || (errors.Is(err, errRetryableStatus) && last != nil) {
			return last, nil
		}
		if last != nil {
			last.Body.Close()
		}
		return nil, err
	})
}
