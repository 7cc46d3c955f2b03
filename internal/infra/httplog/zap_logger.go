package httplog

import (
	"unicode/utf8"

	"go.uber.org/zap"

	"timebank-smoke/pkg/http"
	"timebank-smoke/pkg/log"
	"timebank-smoke/pkg/msg"
)

// maxBodyLog bounds how much of a body ends up in a log entry.
const maxBodyLog = 2048

// zapHTTPLogger writes HTTP client events through the application logger
type zapHTTPLogger struct{}

// NewZapHTTPLogger creates an http.HTTPLogger backed by pkg/log
func NewZapHTTPLogger() http.HTTPLogger {
	return zapHTTPLogger{}
}

func (zapHTTPLogger) LogRequest(method, url string, headers map[string]string, body string) {
	log.Debug(msg.GetMessage("http.request", method, url),
		zap.String("method", method),
		zap.String("url", url),
		zap.Any("headers", headers),
		zap.String("body", truncate(body)),
	)
}

func (zapHTTPLogger) LogResponseSuccess(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64) {
	log.Info(msg.GetMessage("http.response", method, url, httpStatus, latency),
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", httpStatus),
		zap.Int64("latency_ms", latency),
		zap.String("response", truncate(responseBody)),
	)
}

func (zapHTTPLogger) LogResponseError(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64, err error) {
	log.Error(msg.GetMessage("http.failure", method, url, latency, err),
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", httpStatus),
		zap.Int64("latency_ms", latency),
		zap.String("response", truncate(responseBody)),
		zap.Error(err),
	)
}

func (zapHTTPLogger) LogRequestRetry(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64, err error, retryCount, maxRetries int) {
	log.Warn(msg.GetMessage("http.retry", method, url, retryCount, maxRetries, err),
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", httpStatus),
		zap.Int64("latency_ms", latency),
		zap.Int("retry", retryCount),
		zap.Int("max_retries", maxRetries),
		zap.Error(err),
	)
}

// truncate cuts body to maxBodyLog bytes without splitting a UTF-8 sequence.
func truncate(body string) string {
	if len(body) <= maxBodyLog {
		return body
	}
	cut := maxBodyLog
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut] + "..."
}
