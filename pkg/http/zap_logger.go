package http

import (
	"go.uber.org/zap"

	"go-todo/pkg/log"
)

// ZapLogger writes outbound HTTP traffic to the application log. Bodies are only logged at debug level.
type ZapLogger struct{}

var _ HTTPLogger = (*ZapLogger)(nil)

func (l *ZapLogger) LogRequest(exchange Exchange) {
	log.Debug("http request",
		zap.String("method", exchange.Method),
		zap.String("url", exchange.URL),
		zap.String("body", exchange.Body))
}

func (l *ZapLogger) LogResponse(exchange Exchange) {
	fields := []zap.Field{
		zap.String("method", exchange.Method),
		zap.String("url", exchange.URL),
		zap.Int("status", exchange.Status),
		zap.Duration("latency", exchange.Latency),
	}
	if exchange.Err != nil {
		log.Error("http request failed", append(fields, zap.Error(exchange.Err))...)
		return
	}
	log.Debug("http response", append(fields, zap.String("response", exchange.ResponseBody))...)
}

func (l *ZapLogger) LogRetry(exchange Exchange) {
	log.Warn("http request retry",
		zap.String("method", exchange.Method),
		zap.String("url", exchange.URL),
		zap.Int("status", exchange.Status),
		zap.Int("retry", exchange.Retry),
		zap.Int("max_retries", exchange.MaxRetries),
		zap.Error(exchange.Err))
}
