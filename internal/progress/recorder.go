package progress

import (
	"context"
	"sync"
	"time"

	"github.com/2beens/fitcoach/internal/api"
	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const DefaultSubmitTimeout = 15 * time.Second

// Record describes one completed bout: the exercises touched, when it ran,
// how many series were done and, optionally, the weight used.
type Record struct {
	ID          uuid.UUID
	ProgramID   string
	ExerciseIDs []string
	StartedAt   time.Time
	EndedAt     time.Time
	Series      int
	WeightKg    *float64
}

func (r Record) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=progress_test

// Recorder accepts completed bouts. Implementations must not block the caller.
type Recorder interface {
	Record(rec Record)
}

type Submitter interface {
	SubmitProgress(ctx context.Context, req api.ProgressRequest) error
}

// APIRecorder forwards records to the backend in the background. Failures
// are logged and counted, never returned.
type APIRecorder struct {
	submitter Submitter
	metrics   *metrics.Manager
	timeout   time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewAPIRecorder(submitter Submitter, metricsManager *metrics.Manager, timeout time.Duration) *APIRecorder {
	if timeout <= 0 {
		timeout = DefaultSubmitTimeout
	}
	if metricsManager == nil {
		metricsManager = metrics.NewTestManager()
	}
	return &APIRecorder{
		submitter: submitter,
		metrics:   metricsManager,
		timeout:   timeout,
	}
}

func (r *APIRecorder) Record(rec Record) {
	if len(rec.ExerciseIDs) == 0 {
		log.Warnf("progress: dropping record without exercises for program [%s]", rec.ProgramID)
		r.metrics.CounterProgressRecords.WithLabelValues("dropped").Inc()
		return
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Series < 1 {
		rec.Series = 1
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		log.Warnf("progress: recorder closed, dropping record %s", rec.ID)
		r.metrics.CounterProgressRecords.WithLabelValues("dropped").Inc()
		return
	}
	r.wg.Add(1)
	r.mu.Unlock()

	r.metrics.HistBoutDuration.Observe(rec.Duration().Seconds())
	go func() {
		defer r.wg.Done()
		r.submit(rec)
	}()
}

func (r *APIRecorder) submit(rec Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	ctx, span := tracing.GlobalTracer.Start(ctx, "progress.submit")
	span.SetAttributes(
		attribute.String("record.id", rec.ID.String()),
		attribute.String("program.id", rec.ProgramID),
		attribute.Int("record.series", rec.Series),
	)
	var err error
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	req := api.NewProgressRequest(rec.ProgramID, rec.ExerciseIDs, rec.StartedAt, rec.EndedAt, rec.Series, rec.WeightKg)
	req.IdempotencyKey = rec.ID.String()

	if err = r.submitter.SubmitProgress(ctx, req); err != nil {
		log.Errorf("progress: submit record %s (program [%s], exercises %v): %s", rec.ID, rec.ProgramID, rec.ExerciseIDs, err)
		r.metrics.CounterProgressRecords.WithLabelValues("failed").Inc()
		return
	}

	log.Debugf("progress: record %s stored: program [%s], exercises %v, series %d", rec.ID, rec.ProgramID, rec.ExerciseIDs, rec.Series)
	r.metrics.CounterProgressRecords.WithLabelValues("ok").Inc()
}

// Close stops accepting records and waits for in-flight submissions.
func (r *APIRecorder) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.wg.Wait()
}
