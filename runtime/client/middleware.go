package client

import (
	"context"
	"log/slog"
	"time"
)

// QueryInfo describes a statement about to run.
type QueryInfo struct {
	SQL           string
	Args          []any
	InTransaction bool
}

// QueryResult is the outcome of a statement.
type QueryResult struct {
	Rows     []map[string]any
	Err      error
	Duration time.Duration
}

// Next continues the middleware chain.
type Next func(ctx context.Context, info QueryInfo) QueryResult

// Middleware intercepts statement execution.
type Middleware func(ctx context.Context, info QueryInfo, next Next) QueryResult

// chain wraps handler so that the first middleware runs outermost.
func chain(mws []Middleware, handler Next) Next {
	for i := len(mws) - 1; i >= 0; i-- {
		mw, next := mws[i], handler
		handler = func(ctx context.Context, info QueryInfo) QueryResult {
			return mw(ctx, info, next)
		}
	}
	return handler
}

// LoggingMiddleware logs every statement at debug level and failures at
// error level.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(ctx context.Context, info QueryInfo, next Next) QueryResult {
		res := next(ctx, info)

		attrs := []any{
			"sql", info.SQL,
			"args", len(info.Args),
			"tx", info.InTransaction,
			"duration", res.Duration,
		}
		if res.Err != nil {
			logger.ErrorContext(ctx, "query failed", append(attrs, "error", res.Err)...)
			return res
		}
		logger.DebugContext(ctx, "query", append(attrs, "rows", len(res.Rows))...)
		return res
	}
}
