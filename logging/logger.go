// Package logging provides the matching engine's structured logger:
// JSON-formatted logrus output keyed by lifecycle event, with rate
// limiting for noisy repeated errors and correlation ids for tracing a
// single request across log lines.
package logging

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var log *logrus.Logger

// ErrorRateLimiter suppresses repeated identical errors past a threshold
// within a rolling window, so a misbehaving caller or a wedged downstream
// dependency can't flood the log.
type ErrorRateLimiter struct {
	mu            sync.Mutex
	errorCounts   map[string]*errorEntry
	cleanupTicker *time.Ticker
}

type errorEntry struct {
	count      int
	firstSeen  time.Time
	lastLogged time.Time
	suppressed int
}

var (
	rateLimiter     *ErrorRateLimiter
	rateLimitWindow = 1 * time.Minute
	maxErrorsPerMin = 5
)

// NewErrorRateLimiter starts a limiter with a background cleanup sweep.
func NewErrorRateLimiter() *ErrorRateLimiter {
	limiter := &ErrorRateLimiter{
		errorCounts:   make(map[string]*errorEntry),
		cleanupTicker: time.NewTicker(5 * time.Minute),
	}

	go func() {
		for range limiter.cleanupTicker.C {
			limiter.cleanup()
		}
	}()

	return limiter
}

func (rl *ErrorRateLimiter) ShouldLog(errorKey string) (shouldLog bool, suppressedCount int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	entry, exists := rl.errorCounts[errorKey]

	if !exists {
		rl.errorCounts[errorKey] = &errorEntry{count: 1, firstSeen: now, lastLogged: now}
		return true, 0
	}

	if now.Sub(entry.firstSeen) > rateLimitWindow {
		suppressedCount = entry.suppressed
		rl.errorCounts[errorKey] = &errorEntry{count: 1, firstSeen: now, lastLogged: now}
		return true, suppressedCount
	}

	entry.count++
	if entry.count <= maxErrorsPerMin {
		entry.lastLogged = now
		return true, 0
	}

	entry.suppressed++
	return false, 0
}

func (rl *ErrorRateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for key, entry := range rl.errorCounts {
		if now.Sub(entry.lastLogged) > 10*time.Minute {
			delete(rl.errorCounts, key)
		}
	}
}

// InitLogger initializes the structured logger with JSON output.
func InitLogger() *logrus.Logger {
	log = logrus.New()

	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "ts",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	log.SetOutput(os.Stdout)

	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	rateLimiter = NewErrorRateLimiter()

	log.WithFields(logrus.Fields{
		"event":              "logger_initialized",
		"level":              log.Level.String(),
		"rate_limit_enabled": true,
		"max_errors_per_min": maxErrorsPerMin,
	}).Info("structured logging initialized")

	return log
}

// NewCorrelationID generates an id for tracing one request's log lines.
func NewCorrelationID() string {
	return uuid.New().String()
}

// GetLogger returns the global logger, initializing it on first use.
func GetLogger() *logrus.Logger {
	if log == nil {
		return InitLogger()
	}
	return log
}

const (
	EventOrderReceived      = "order_received"
	EventOrderMatched       = "order_matched"
	EventOrderCancelled     = "order_cancelled"
	EventOrderModified      = "order_modified"
	EventOrderRejected      = "order_rejected"
	EventTradeExecuted      = "trade_executed"
	EventRepositoryError    = "repository_error"
	EventRepositorySuccess  = "repository_success"
	EventTradeListenerPanic = "trade_listener_panic"
)

// LogOrderReceived logs a validated order's arrival at the engine.
func LogOrderReceived(correlationID string, orderID uint64, clientID, symbol, side, orderType string, price, quantity float64) {
	fields := logrus.Fields{
		"event":     EventOrderReceived,
		"order_id":  orderID,
		"client_id": clientID,
		"symbol":    symbol,
		"side":      side,
		"type":      orderType,
		"price":     price,
		"quantity":  quantity,
	}
	withCorrelation(fields, correlationID)
	GetLogger().WithFields(fields).Info("order received")
}

// LogOrderMatched logs the outcome of matching for one order.
func LogOrderMatched(correlationID string, orderID uint64, symbol, side string, filledQty, remainingQty float64, tradeCount int) {
	fields := logrus.Fields{
		"event":         EventOrderMatched,
		"order_id":      orderID,
		"symbol":        symbol,
		"side":          side,
		"filled_qty":    filledQty,
		"remaining_qty": remainingQty,
		"trade_count":   tradeCount,
	}
	withCorrelation(fields, correlationID)
	GetLogger().WithFields(fields).Info("order matched")
}

// LogTradeExecuted logs one emitted trade.
func LogTradeExecuted(correlationID string, tradeID uint64, buyOrderID, sellOrderID uint64, symbol string, price, quantity float64) {
	fields := logrus.Fields{
		"event":         EventTradeExecuted,
		"trade_id":      tradeID,
		"buy_order_id":  buyOrderID,
		"sell_order_id": sellOrderID,
		"symbol":        symbol,
		"price":         price,
		"quantity":      quantity,
	}
	withCorrelation(fields, correlationID)
	GetLogger().WithFields(fields).Info("trade executed")
}

// LogOrderCancelled logs a successful cancel.
func LogOrderCancelled(correlationID string, orderID uint64, symbol string) {
	fields := logrus.Fields{
		"event":    EventOrderCancelled,
		"order_id": orderID,
		"symbol":   symbol,
	}
	withCorrelation(fields, correlationID)
	GetLogger().WithFields(fields).Info("order cancelled")
}

// LogOrderModified logs a successful modify.
func LogOrderModified(correlationID string, orderID uint64, symbol string, rematched bool) {
	fields := logrus.Fields{
		"event":     EventOrderModified,
		"order_id":  orderID,
		"symbol":    symbol,
		"rematched": rematched,
	}
	withCorrelation(fields, correlationID)
	GetLogger().WithFields(fields).Info("order modified")
}

// LogOrderRejected logs a validation failure on new_order or modify_order.
func LogOrderRejected(correlationID string, orderID uint64, symbol, reason string) {
	fields := logrus.Fields{
		"event":    EventOrderRejected,
		"order_id": orderID,
		"symbol":   symbol,
		"reason":   reason,
	}
	withCorrelation(fields, correlationID)
	GetLogger().WithFields(fields).Warn("order rejected")
}

// LogRepositoryError logs a trade-repository failure with rate limiting,
// since a stuck downstream repository would otherwise log once per trade.
func LogRepositoryError(operation string, err error) {
	logger := GetLogger() // also creates rateLimiter on first use
	errorKey := fmt.Sprintf("%s:%s", operation, err.Error())
	shouldLog, suppressedCount := rateLimiter.ShouldLog(errorKey)
	if !shouldLog {
		return
	}

	fields := logrus.Fields{
		"event":     EventRepositoryError,
		"operation": operation,
		"error":     err.Error(),
	}
	if suppressedCount > 0 {
		fields["suppressed_count"] = suppressedCount
	}
	logger.WithFields(fields).Error("trade repository error")
}

// LogRepositorySuccess logs a successful trade-repository write at debug
// level; unlike errors it is not rate limited since success is the
// common case.
func LogRepositorySuccess(operation string, count int) {
	GetLogger().WithFields(logrus.Fields{
		"event":     EventRepositorySuccess,
		"operation": operation,
		"count":     count,
	}).Debug("trade repository write succeeded")
}

// LogTradeListenerPanic logs a recovered panic from a registered trade
// listener. The engine treats listener failures as the caller's
// responsibility; this only records that it happened.
func LogTradeListenerPanic(listenerIndex int, recovered interface{}) {
	GetLogger().WithFields(logrus.Fields{
		"event":     EventTradeListenerPanic,
		"listener":  listenerIndex,
		"recovered": fmt.Sprintf("%v", recovered),
	}).Error("trade listener panicked")
}

func withCorrelation(fields logrus.Fields, correlationID string) {
	if correlationID != "" {
		fields["correlation_id"] = correlationID
	}
}
