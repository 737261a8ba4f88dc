// Package metrics defines the operation metrics recorded by services, handlers and
// queue workers, with a Prometheus implementation and a no-op one for tests.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OperationMetrics is recorded around every service and worker operation.
type OperationMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
}

// HandlerMetrics is recorded by the event handler wrapper.
type HandlerMetrics interface {
	RecordHandlerAttempt(ctx context.Context, handlerName string)
	RecordHandlerSuccess(ctx context.Context, handlerName string)
	RecordHandlerFailure(ctx context.Context, handlerName string)
	RecordHandlerDuration(ctx context.Context, handlerName string, duration time.Duration)
}

// RoundMetrics covers the round catalogue.
type RoundMetrics interface {
	OperationMetrics
	RecordRoundsImported(ctx context.Context, source string, count int)
}

// ShootMetrics covers scoring sessions.
type ShootMetrics interface {
	OperationMetrics
	HandlerMetrics
	RecordArrowsRecorded(ctx context.Context, count int)
	RecordRoundCompleted(ctx context.Context, roundName string)
	RecordExportGenerated(ctx context.Context, format string)
}

// Prometheus implements every metrics interface on one registry.
type Prometheus struct {
	operations       *prometheus.CounterVec
	operationSeconds *prometheus.HistogramVec
	handlers         *prometheus.CounterVec
	handlerSeconds   *prometheus.HistogramVec
	roundsImported   *prometheus.CounterVec
	arrowsRecorded   prometheus.Counter
	roundsCompleted  *prometheus.CounterVec
	exports          *prometheus.CounterVec
}

var (
	_ RoundMetrics = (*Prometheus)(nil)
	_ ShootMetrics = (*Prometheus)(nil)
)

// NewPrometheus registers the collectors on reg under namespace.
func NewPrometheus(reg prometheus.Registerer, namespace string) (*Prometheus, error) {
	p := &Prometheus{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Service operations by outcome.",
		}, []string{"service", "operation", "outcome"}),
		operationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service", "operation"}),
		handlers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handler_messages_total",
			Help:      "Event handler invocations by outcome.",
		}, []string{"handler", "outcome"}),
		handlerSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "handler_duration_seconds",
			Help:      "Event handler latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"handler"}),
		roundsImported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_imported_total",
			Help:      "Catalogue rounds imported by source.",
		}, []string{"source"}),
		arrowsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "arrows_recorded_total",
			Help:      "Arrows recorded across all shoots.",
		}),
		roundsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_completed_total",
			Help:      "Shoots that reached their round capacity.",
		}, []string{"round"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_generated_total",
			Help:      "Generated score sheet exports by format.",
		}, []string{"format"}),
	}

	for _, c := range []prometheus.Collector{
		p.operations, p.operationSeconds, p.handlers, p.handlerSeconds,
		p.roundsImported, p.arrowsRecorded, p.roundsCompleted, p.exports,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) RecordOperationAttempt(_ context.Context, operation, service string) {
	p.operations.WithLabelValues(service, operation, "attempt").Inc()
}

func (p *Prometheus) RecordOperationSuccess(_ context.Context, operation, service string) {
	p.operations.WithLabelValues(service, operation, "success").Inc()
}

func (p *Prometheus) RecordOperationFailure(_ context.Context, operation, service string) {
	p.operations.WithLabelValues(service, operation, "failure").Inc()
}

func (p *Prometheus) RecordOperationDuration(_ context.Context, operation, service string, duration time.Duration) {
	p.operationSeconds.WithLabelValues(service, operation).Observe(duration.Seconds())
}

func (p *Prometheus) RecordHandlerAttempt(_ context.Context, handlerName string) {
	p.handlers.WithLabelValues(handlerName, "attempt").Inc()
}

func (p *Prometheus) RecordHandlerSuccess(_ context.Context, handlerName string) {
	p.handlers.WithLabelValues(handlerName, "success").Inc()
}

func (p *Prometheus) RecordHandlerFailure(_ context.Context, handlerName string) {
	p.handlers.WithLabelValues(handlerName, "failure").Inc()
}

func (p *Prometheus) RecordHandlerDuration(_ context.Context, handlerName string, duration time.Duration) {
	p.handlerSeconds.WithLabelValues(handlerName).Observe(duration.Seconds())
}

func (p *Prometheus) RecordRoundsImported(_ context.Context, source string, count int) {
	p.roundsImported.WithLabelValues(source).Add(float64(count))
}

func (p *Prometheus) RecordArrowsRecorded(_ context.Context, count int) {
	p.arrowsRecorded.Add(float64(count))
}

func (p *Prometheus) RecordRoundCompleted(_ context.Context, roundName string) {
	p.roundsCompleted.WithLabelValues(roundName).Inc()
}

func (p *Prometheus) RecordExportGenerated(_ context.Context, format string) {
	p.exports.WithLabelValues(format).Inc()
}

// NoOp discards every measurement.
type NoOp struct{}

var (
	_ RoundMetrics = NoOp{}
	_ ShootMetrics = NoOp{}
)

func (NoOp) RecordOperationAttempt(context.Context, string, string)                 {}
func (NoOp) RecordOperationSuccess(context.Context, string, string)                 {}
func (NoOp) RecordOperationFailure(context.Context, string, string)                 {}
func (NoOp) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (NoOp) RecordHandlerAttempt(context.Context, string)                           {}
func (NoOp) RecordHandlerSuccess(context.Context, string)                           {}
func (NoOp) RecordHandlerFailure(context.Context, string)                           {}
func (NoOp) RecordHandlerDuration(context.Context, string, time.Duration)           {}
func (NoOp) RecordRoundsImported(context.Context, string, int)                      {}
func (NoOp) RecordArrowsRecorded(context.Context, int)                              {}
func (NoOp) RecordRoundCompleted(context.Context, string)                           {}
func (NoOp) RecordExportGenerated(context.Context, string)                          {}
