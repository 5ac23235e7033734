package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/curator/internal/enterprise"
	"github.com/alexanderramin/curator/internal/logger"
	"github.com/alexanderramin/curator/internal/search"
)

// UseCaseEvent captures lightweight execution telemetry for a service use case.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	log logger.Logger
}

// NewLogUseCaseObserver writes service use-case events to log.
func NewLogUseCaseObserver(log logger.Logger) UseCaseObserver {
	if log == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{log: log}
}

func (o *logUseCaseObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	fields := make([]logger.Field, 0, 4+len(event.Fields))
	fields = append(fields,
		logger.String("use_case", event.Name),
		logger.Int64("duration_ms", event.Duration.Milliseconds()),
		logger.Bool("success", event.Success),
	)
	keys := make([]string, 0, len(event.Fields))
	for k := range event.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, logger.String(k, fmt.Sprint(event.Fields[k])))
	}
	if event.Err != nil {
		fields = append(fields, logger.Error(event.Err))
		o.log.Error("service_use_case", fields...)
		return
	}
	o.log.Info("service_use_case", fields...)
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}

func observe(ctx context.Context, obs UseCaseObserver, name string, startedAt time.Time, fields map[string]any, err error) {
	obs.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

// LogCallObserver logs enterprise API calls.
type LogCallObserver struct{ Log logger.Logger }

func (o LogCallObserver) OnCallComplete(e enterprise.CallEvent) {
	fields := []logger.Field{
		logger.String("op", e.Op),
		logger.String("method", e.Method),
		logger.String("path", e.Path),
		logger.Int("status", e.Status),
		logger.Int64("latency_ms", e.LatencyMs),
	}
	if !e.Success {
		o.Log.Warn("api_call", append(fields, logger.String("error_code", e.ErrorCode))...)
		return
	}
	o.Log.Debug("api_call", fields...)
}

// LogQueryObserver logs search index queries.
type LogQueryObserver struct{ Log logger.Logger }

func (o LogQueryObserver) OnQueryComplete(e search.QueryEvent) {
	fields := []logger.Field{
		logger.String("index", e.Index),
		logger.String("query", e.Query),
		logger.Int("status", e.Status),
		logger.Int("hits", e.Hits),
		logger.Int64("latency_ms", e.LatencyMs),
	}
	if !e.Success {
		o.Log.Warn("search_query", fields...)
		return
	}
	o.Log.Debug("search_query", fields...)
}
