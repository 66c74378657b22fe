// Package verify runs the verification pipeline: the safety screen, the approval lookup
// and the classifier fallback, followed by scoring and assembly.
package verify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"medicine-verify/internal/ai"
	"medicine-verify/internal/match"
	"medicine-verify/internal/metrics"
	"medicine-verify/internal/store"
	"medicine-verify/internal/util"
	"medicine-verify/internal/verdict"
)

// ErrMissingMedicine rejects requests without a medicine name.
var ErrMissingMedicine = errors.New("medicineInput is required")

const (
	defaultClassifierTimeout = 10 * time.Second
	logWriteTimeout          = 5 * time.Second
)

// Registry is the lookup capability the engine consumes. Both the SQL store and the
// fixture implement it.
type Registry interface {
	BannedDrugs(ctx context.Context, name string) ([]store.BannedDrug, error)
	SafetyAlerts(ctx context.Context, batch string) ([]store.SafetyAlert, error)
	BlacklistedBatches(ctx context.Context, batch string) ([]store.BlacklistedBatch, error)
	ApprovedDrug(ctx context.Context, name string) (*store.ApprovedDrug, error)
	CatalogueMedicines(ctx context.Context, name string) ([]store.CatalogueMedicine, error)
}

// LogSink receives one record per completed verification.
type LogSink interface {
	RecordVerification(ctx context.Context, entry *store.VerificationLog) error
}

// Request is a single verification query.
type Request struct {
	MedicineInput     string
	BatchNumber       string
	ManufacturerInput string
	UserLocation      string
}

func (r Request) normalized() Request {
	return Request{
		MedicineInput:     match.NormalizeInput(r.MedicineInput),
		BatchNumber:       match.NormalizeBatch(r.BatchNumber),
		ManufacturerInput: match.NormalizeInput(r.ManufacturerInput),
		UserLocation:      strings.TrimSpace(r.UserLocation),
	}
}

// Options configures optional engine collaborators.
type Options struct {
	Classifier        ai.Classifier
	Sink              LogSink
	ClassifierTimeout time.Duration
	Clock             func() time.Time
	NewID             func() string
}

// Engine produces verdicts. It holds no per-request state and is safe for concurrent use.
type Engine struct {
	registry          Registry
	classifier        ai.Classifier
	sink              LogSink
	classifierTimeout time.Duration
	now               func() time.Time
	newID             func() string
}

// NewEngine wires an engine over the selected registry strategy.
func NewEngine(registry Registry, opts Options) *Engine {
	e := &Engine{
		registry:          registry,
		classifier:        opts.Classifier,
		sink:              opts.Sink,
		classifierTimeout: opts.ClassifierTimeout,
		now:               opts.Clock,
		newID:             opts.NewID,
	}
	if e.classifierTimeout <= 0 {
		e.classifierTimeout = defaultClassifierTimeout
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}
	return e
}

// ClassifierEnabled reports whether unresolved medicines can be identified at all.
func (e *Engine) ClassifierEnabled() bool {
	return e.classifier != nil && e.classifier.Enabled()
}

// resolution is the verdict as it moves through the stages.
type resolution struct {
	status  verdict.Status
	source  verdict.Source
	details *verdict.MedicineDetails
	alerts  []string
}

// Verify runs the full pipeline for one request. Registry failures abort the request and
// are returned wrapped; classifier and log sink failures never are.
func (e *Engine) Verify(ctx context.Context, req Request) (verdict.Result, error) {
	req = req.normalized()
	if req.MedicineInput == "" {
		return verdict.Result{}, ErrMissingMedicine
	}

	requestID := e.newID()
	logger := logrus.WithFields(logrus.Fields{
		"request_id": requestID,
		"medicine":   req.MedicineInput,
		"batch":      req.BatchNumber,
	})
	timer := util.StartStageTimer()

	res, err := e.screen(ctx, req)
	observeStage("safety_screen", timer.Mark("safety_screen"))
	if err != nil {
		metrics.VerificationErrorsTotal.Inc()
		return verdict.Result{}, fmt.Errorf("safety screen: %w", err)
	}

	if res == nil {
		res, err = e.lookup(ctx, req)
		observeStage("approval_lookup", timer.Mark("approval_lookup"))
		if err != nil {
			metrics.VerificationErrorsTotal.Inc()
			return verdict.Result{}, fmt.Errorf("approval lookup: %w", err)
		}
	}

	if res == nil {
		res = e.fallback(ctx, req, logger)
		observeStage("classifier_fallback", timer.Mark("classifier_fallback"))
	}

	result := assemble(req, *res, requestID, e.now())
	observeStage("assembly", timer.Mark("assembly"))
	metrics.VerificationsTotal.WithLabelValues(string(result.Status), string(result.Source)).Inc()

	e.record(ctx, req, result, logger)

	logger.WithFields(logrus.Fields(timer.Fields())).WithFields(logrus.Fields{
		"status":             result.Status,
		"source":             result.Source,
		"verification_level": result.Level,
	}).Info("verification complete")
	return result, nil
}

// record writes the log side effect. The write survives cancellation of the request
// context but is bounded by its own timeout.
func (e *Engine) record(ctx context.Context, req Request, result verdict.Result, logger *logrus.Entry) {
	if e.sink == nil {
		return
	}
	name := req.MedicineInput
	if result.Details != nil && result.Details.BrandName != "" {
		name = result.Details.BrandName
	}
	location := req.UserLocation
	if location == "" {
		location = "Unknown"
	}
	entry := &store.VerificationLog{
		RequestID:          result.RequestID,
		MedicineName:       name,
		BatchNumber:        req.BatchNumber,
		UserLocation:       location,
		VerificationStatus: string(result.Status),
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), logWriteTimeout)
	defer cancel()
	if err := e.sink.RecordVerification(writeCtx, entry); err != nil {
		logger.WithError(err).Warn("verification log write failed")
	}
}

func observeStage(stage string, d time.Duration) {
	metrics.StageDurationSeconds.WithLabelValues(stage).Observe(d.Seconds())
}
