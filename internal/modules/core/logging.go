package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/eskrenkovic/mediator-go"
	"github.com/go-chi/chi/middleware"

	"go.uber.org/zap"
)

func contextFields(ctx context.Context) []zap.Field {
	var logFields []zap.Field

	if requestID := middleware.GetReqID(ctx); requestID != "" {
		logFields = append(logFields, zap.String("request_id", requestID))
	}

	if correlationID := CorrelationID(ctx); correlationID != "" {
		logFields = append(logFields, zap.String("correlation_id", correlationID))
	}

	return logFields
}

// LogError logs through the global logger installed by the server.
func LogError(ctx context.Context, msg string, fields ...zap.Field) {
	zap.L().Error(msg, append(contextFields(ctx), fields...)...)
}

var _ mediator.PipelineBehavior = (*RequestLoggingBehavior)(nil)

type RequestLoggingBehavior struct {
	Logger *zap.Logger
}

func (b *RequestLoggingBehavior) Handle(
	ctx context.Context,
	request interface{},
	next mediator.RequestHandlerFunc,
) (interface{}, error) {
	logFields := contextFields(ctx)

	if request != nil {
		logFields = append(
			logFields,
			zap.String("request_type", fmt.Sprintf("%T", request)),
			zap.Any("request_body", request),
		)
	}

	b.Logger.Info("processing request", logFields...)

	return next(ctx, request)
}

var _ mediator.PipelineBehavior = (*HandlerErrorLoggingBehavior)(nil)

type HandlerErrorLoggingBehavior struct {
	Logger *zap.Logger
}

func (b *HandlerErrorLoggingBehavior) Handle(
	ctx context.Context,
	request interface{},
	next mediator.RequestHandlerFunc,
) (interface{}, error) {
	response, err := next(ctx, request)
	if err != nil {
		logFields := append(contextFields(ctx), zap.Error(err))

		var commandErr CommandError
		if errors.As(err, &commandErr) && commandErr.StatusCode < 500 {
			b.Logger.Warn("handler rejected request", logFields...)
		} else {
			b.Logger.Error("handler returned error", logFields...)
		}
	}

	return response, err
}
