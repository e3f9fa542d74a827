// Package httpmw chains http.RoundTripper middleware for outgoing requests,
// mirroring the usual handler-middleware shape on the client side.
package httpmw

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Chain wraps rt with the given middlewares; the first middleware is the
// outermost one.
func Chain(rt http.RoundTripper, middlewares ...func(http.RoundTripper) http.RoundTripper) http.RoundTripper {
	if rt == nil {
		rt = http.DefaultTransport
	}
	for i := len(middlewares) - 1; i >= 0; i-- {
		rt = middlewares[i](rt)
	}
	return rt
}

// WithRequestID stamps every outgoing request with an X-Request-Id so
// client and authority logs can be correlated. An id already present on the
// request is kept.
func WithRequestID(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if strings.TrimSpace(r.Header.Get("X-Request-Id")) == "" {
			r.Header.Set("X-Request-Id", uuid.NewString())
		}
		return next.RoundTrip(r)
	})
}

// WithBearer attaches the current session credential, if any. The token
// function is consulted per request so a re-login mid-process takes effect
// without rebuilding the client.
func WithBearer(token func() string) func(http.RoundTripper) http.RoundTripper {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if tok := token(); tok != "" {
				r.Header.Set("Authorization", "Bearer "+tok)
			}
			return next.RoundTrip(r)
		})
	}
}

// WithLogging logs one structured line per round trip.
func WithLogging(logger *logrus.Logger) func(http.RoundTripper) http.RoundTripper {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(r)

			fields := logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"request_id":  r.Header.Get("X-Request-Id"),
				"duration_ms": time.Since(start).Milliseconds(),
			}
			if err != nil {
				logger.WithFields(fields).WithError(err).Warn("request failed")
				return resp, err
			}
			fields["status"] = resp.StatusCode
			logger.WithFields(fields).Debug("request done")
			return resp, nil
		})
	}
}
