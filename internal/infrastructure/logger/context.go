package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	userIDKey    contextKey = "user_id"
)

// WithContext attaches a logger to the context. The HTTP middleware puts
// the request-scoped logger here so deeper layers can pick it up.
func WithContext(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// FromContext returns the logger attached to the context, or a no-op
// logger when none was attached (background jobs, tests).
func FromContext(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return log
	}
	return zap.NewNop()
}

// WithRequestID stores the request id in the context and returns the
// logger tagged with it. The returned context also carries that logger.
func WithRequestID(ctx context.Context, log *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	tagged := log.With(zap.String("request_id", requestID))
	return WithContext(ctx, tagged), tagged
}

// WithUserID stores the authenticated user id in the context and returns
// the logger tagged with it. Session middleware calls this after the
// cookie is validated.
func WithUserID(ctx context.Context, log *zap.Logger, userID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, userIDKey, userID)
	tagged := log.With(zap.String("user_id", userID))
	return WithContext(ctx, tagged), tagged
}

// GetRequestID returns the request id stored in the context, if any.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// GetUserID returns the authenticated user id stored in the context, if any.
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// ContextLogger stamps request_id and user_id from the context onto every
// entry, so service-layer logs line up with the HTTP access log.
type ContextLogger struct {
	ctx context.Context
	log *zap.Logger
}

// L builds a ContextLogger around the logger carried by the context.
//
//	logger.L(ctx).Info("order placed", zap.Int64("number", n))
func L(ctx context.Context) *ContextLogger {
	return &ContextLogger{ctx: ctx, log: FromContext(ctx)}
}

// WithLogger builds a ContextLogger around an explicit logger, keeping
// the context's identifiers. Services with a named logger use this.
func WithLogger(ctx context.Context, log *zap.Logger) *ContextLogger {
	return &ContextLogger{ctx: ctx, log: log}
}

// With returns a child ContextLogger carrying extra fields.
func (cl *ContextLogger) With(fields ...zap.Field) *ContextLogger {
	return &ContextLogger{ctx: cl.ctx, log: cl.log.With(fields...)}
}

func (cl *ContextLogger) stamped() *zap.Logger {
	log := cl.log
	if log == nil {
		log = zap.NewNop()
	}
	if id := GetRequestID(cl.ctx); id != "" {
		log = log.With(zap.String("request_id", id))
	}
	if id := GetUserID(cl.ctx); id != "" {
		log = log.With(zap.String("user_id", id))
	}
	return log
}

func (cl *ContextLogger) Debug(msg string, fields ...zap.Field) {
	cl.stamped().Debug(msg, fields...)
}

func (cl *ContextLogger) Info(msg string, fields ...zap.Field) {
	cl.stamped().Info(msg, fields...)
}

func (cl *ContextLogger) Warn(msg string, fields ...zap.Field) {
	cl.stamped().Warn(msg, fields...)
}

func (cl *ContextLogger) Error(msg string, fields ...zap.Field) {
	cl.stamped().Error(msg, fields...)
}

// Zap unwraps to the underlying zap.Logger with the context fields applied.
func (cl *ContextLogger) Zap() *zap.Logger {
	return cl.stamped()
}
