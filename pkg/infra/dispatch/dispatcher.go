package dispatch

import (
	"context"
	"fmt"

	"github.com/NeuralTrust/TrustCloak/pkg/domain/visitor"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

const (
	kindCapture = "email_capture"
	kindVisit   = "visit"
)

type CaptureSink interface {
	Name() string
	Capture(ctx context.Context, email visitor.CapturedEmail) error
}

type VisitSink interface {
	Name() string
	RecordVisit(ctx context.Context, visit visitor.Visit) error
}

type Dispatcher struct {
	logger       *logrus.Logger
	worker       Worker
	captureSinks []CaptureSink
	visitSinks   []VisitSink
}

var _ visitor.Dispatcher = (*Dispatcher)(nil)

func NewDispatcher(
	logger *logrus.Logger,
	worker Worker,
	captureSinks []CaptureSink,
	visitSinks []VisitSink,
) *Dispatcher {
	return &Dispatcher{
		logger:       logger,
		worker:       worker,
		captureSinks: captureSinks,
		visitSinks:   visitSinks,
	}
}

// CaptureEmail fans the email out to every capture sink, one task per sink.
// Results are logged and discarded. It returns false when no task was queued.
func (d *Dispatcher) CaptureEmail(email visitor.CapturedEmail) bool {
	queued := false
	for _, sink := range d.captureSinks {
		if d.worker.Enqueue(kindCapture, func(ctx context.Context) {
			if err := sink.Capture(ctx, email); err != nil {
				d.fail(sink.Name(), err, logrus.Fields{"ip": email.IP})
			}
		}) {
			queued = true
		}
	}
	if queued {
		prometheus.EmailCapturesTotal.Inc()
	}
	return queued
}

func (d *Dispatcher) RecordVisit(visit visitor.Visit) {
	for _, sink := range d.visitSinks {
		d.worker.Enqueue(kindVisit, func(ctx context.Context) {
			if err := sink.RecordVisit(ctx, visit); err != nil {
				d.fail(sink.Name(), err, logrus.Fields{"visit_id": visit.ID.String()})
			}
		})
	}
}

func (d *Dispatcher) fail(sink string, err error, fields logrus.Fields) {
	prometheus.DispatchFailedTotal.WithLabelValues(sink).Inc()
	d.logger.WithFields(fields).WithField("sink", sink).
		WithError(fmt.Errorf("sink %s: %w", sink, err)).
		Warn("background dispatch failed")
}
