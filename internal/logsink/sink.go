// Package logsink fans verification log records out to every configured destination.
package logsink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"medicine-verify/internal/metrics"
	"medicine-verify/internal/store"
)

// Sink is one destination for verification log records.
type Sink interface {
	Name() string
	RecordVerification(ctx context.Context, entry *store.VerificationLog) error
}

// Event is the message published for each recorded verification.
type Event struct {
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Log        *store.VerificationLog `json:"log"`
}

// EventType tags verification events on every channel.
const EventType = "verification"

// NewEvent wraps a log record. OccurredAt falls back to now when the record has no
// creation time yet.
func NewEvent(entry *store.VerificationLog) Event {
	occurred := time.Now().UTC()
	if entry != nil && !entry.CreatedAt.IsZero() {
		occurred = entry.CreatedAt.UTC()
	}
	return Event{Type: EventType, OccurredAt: occurred, Log: entry}
}

type recorder interface {
	RecordVerification(ctx context.Context, entry *store.VerificationLog) error
}

type storeSink struct {
	name string
	dest recorder
}

// Store adapts a registry store (SQL or fixture) into a Sink.
func Store(name string, dest recorder) Sink {
	return &storeSink{name: name, dest: dest}
}

func (s *storeSink) Name() string { return s.name }

func (s *storeSink) RecordVerification(ctx context.Context, entry *store.VerificationLog) error {
	return s.dest.RecordVerification(ctx, entry)
}

// Multi writes every record to each sink in order. One sink failing does not stop the
// others; all failures are returned joined.
type Multi struct {
	sinks []Sink
}

func NewMulti(sinks ...Sink) *Multi {
	m := &Multi{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

// Names lists the configured sinks in write order.
func (m *Multi) Names() []string {
	names := make([]string, 0, len(m.sinks))
	for _, s := range m.sinks {
		names = append(names, s.Name())
	}
	return names
}

// Add appends a sink after construction. It must not be called concurrently with writes.
func (m *Multi) Add(s Sink) {
	if s != nil {
		m.sinks = append(m.sinks, s)
	}
}

func (m *Multi) RecordVerification(ctx context.Context, entry *store.VerificationLog) error {
	if entry == nil {
		return errors.New("verification log is nil")
	}
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordVerification(ctx, entry); err != nil {
			metrics.SinkWritesTotal.WithLabelValues(s.Name(), "error").Inc()
			logrus.WithError(err).WithFields(logrus.Fields{
				"sink":       s.Name(),
				"request_id": entry.RequestID,
			}).Warn("verification log sink failed")
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		metrics.SinkWritesTotal.WithLabelValues(s.Name(), "ok").Inc()
	}
	return errors.Join(errs...)
}
