package analytics

import (
	"context"

	"go.uber.org/zap"
)

// Observer is notified synchronously for every recorded event.
type Observer interface {
	OnEvent(ctx context.Context, name string, params *Params)
}

type ObserverFunc func(ctx context.Context, name string, params *Params)

func (f ObserverFunc) OnEvent(ctx context.Context, name string, params *Params) {
	f(ctx, name, params)
}

// LogObserver writes each event to logger at info level.
type LogObserver struct {
	logger *zap.Logger
}

func NewLogObserver(logger *zap.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnEvent(ctx context.Context, name string, params *Params) {
	o.logger.Info("analytics event",
		zap.String("event_name", name),
		zap.String("correlation_id", CorrelationID(ctx)),
		zap.Object("params", params),
	)
}
