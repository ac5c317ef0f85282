package httpclient

import (
	"net/http"
	"time"

	"fleet-admin/internal/core/logger"
	"fleet-admin/internal/core/metrics"
	"fleet-admin/internal/core/proxy"

	"go.uber.org/zap"
)

// LoggingRoundTripper logs and measures every backend call.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip executes the request and logs details. The Authorization header is never logged.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	logger.Get().Debug("Backend request started",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Bool("authenticated", req.Header.Get("Authorization") != ""),
	)

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		metrics.ObserveBackendRequest(req.Method, 0, duration.Seconds())
		logger.Get().Error("Backend request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.ObserveBackendRequest(req.Method, resp.StatusCode, duration.Seconds())
	logger.Get().Debug("Backend request completed",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// NewClient returns an http.Client with the logging middleware, a fixed timeout and
// the optional upstream proxy.
func NewClient(timeout time.Duration, p proxy.Settings) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if u := p.URL(); u != nil {
		transport.Proxy = http.ProxyURL(u)
		logger.Get().Info("Backend calls routed through proxy", zap.String("proxy", p.Redacted()))
	}

	return &http.Client{
		Transport: &LoggingRoundTripper{
			Proxied: transport,
		},
		Timeout: timeout,
	}
}
