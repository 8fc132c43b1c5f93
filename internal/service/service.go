package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"taskboard/internal/domain"
	"taskboard/internal/logger"
)

const defaultTimeout = 30 * time.Second

var tracer = otel.Tracer("taskboard/internal/service")

// Options carries the policy switches shared by the services.
type Options struct {
	// Timeout bounds every operation, storage round-trips included.
	Timeout time.Duration
	// AllowEmptyBoards permits removing the last member of a board.
	AllowEmptyBoards bool
	// StrictTaskWorkflow limits status changes to one column at a time.
	StrictTaskWorkflow bool
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return defaultTimeout
	}
	return o.Timeout
}

// begin starts a bounded, traced operation. The returned finish must be
// called with the operation's final error.
func begin(ctx context.Context, opts Options, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, cancel := context.WithTimeout(ctx, opts.timeout())
	ctx, span := tracer.Start(ctx, op, trace.WithAttributes(attrs...))

	return ctx, func(err error) {
		observe(op, err)
		if err != nil {
			span.RecordError(err)
			if domain.KindOf(err) == domain.KindInternal {
				span.SetStatus(codes.Error, err.Error())
				args := []any{"operation", op, "error", err}
				for _, a := range attrs {
					args = append(args, string(a.Key), a.Value.Emit())
				}
				logger.WithContext(ctx).Error("operation failed", args...)
			}
		}
		span.End()
		cancel()
	}
}
