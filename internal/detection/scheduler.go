package detection

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"workforce-backend/internal/shared/metrics"
	"workforce-backend/internal/shared/telemetry"
)

// DefaultInterval is the scheduled gap between detection passes.
const DefaultInterval = 15 * time.Minute

// Scheduler drives periodic detection passes and accepts on-demand triggers.
// Both paths share a single-flight guard: while a pass is Running, any new
// trigger is rejected instead of starting an overlapping pass.
type Scheduler struct {
	service  *Service
	interval time.Duration

	running atomic.Bool

	mu         sync.Mutex
	stop       chan struct{}
	started    bool
	lastRunAt  *time.Time
	lastResult *PassResult
	lastError  string
}

// SchedulerStatus is the externally observable scheduler state.
type SchedulerStatus struct {
	Running         bool        `json:"running"`
	IntervalMinutes int         `json:"intervalMinutes"`
	LastRunAt       *time.Time  `json:"lastRunAt,omitempty"`
	LastResult      *PassResult `json:"lastResult,omitempty"`
	LastError       string      `json:"lastError,omitempty"`
}

// NewScheduler constructs a Scheduler. A non-positive interval falls back to
// the default.
func NewScheduler(service *Service, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		service:  service,
		interval: interval,
	}
}

// Start launches the timer loop. Calling Start on a started scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.stop = make(chan struct{})
	go s.loop(ctx, s.stop)
	telemetry.Info("detection.scheduler.started", map[string]any{
		"interval_minutes": int(s.interval.Minutes()),
	})
}

// Stop halts the timer loop. An in-flight pass finishes on its own.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	close(s.stop)
	telemetry.Info("detection.scheduler.stopped", nil)
}

// TriggerNow starts an on-demand pass and returns immediately. It returns
// ErrPassInFlight when a pass is already running.
func (s *Scheduler) TriggerNow() error {
	if !s.running.CompareAndSwap(false, true) {
		s.logOverlap("manual")
		return ErrPassInFlight
	}
	go s.execute(context.Background())
	return nil
}

// Status reports the current scheduler state for external observers.
func (s *Scheduler) Status() SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SchedulerStatus{
		Running:         s.running.Load(),
		IntervalMinutes: int(s.interval.Minutes()),
		LastRunAt:       s.lastRunAt,
		LastResult:      s.lastResult,
		LastError:       s.lastError,
	}
}

func (s *Scheduler) loop(ctx context.Context, stop <-chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			if !s.running.CompareAndSwap(false, true) {
				s.logOverlap("timer")
				continue
			}
			s.execute(ctx)
		}
	}
}

// execute runs one pass while holding the single-flight flag. Every failure
// is caught and recorded; the scheduler loop itself never terminates because
// a pass failed.
func (s *Scheduler) execute(ctx context.Context) {
	defer s.running.Store(false)
	defer func() {
		if rec := recover(); rec != nil {
			telemetry.Error("detection.pass.panic", map[string]any{"error": rec})
			metrics.IncPassFailed()
			s.record(nil, "panic during detection pass")
		}
	}()

	result, err := s.service.RunPass(ctx)
	if err != nil {
		telemetry.Error("detection.pass.failed", map[string]any{"error": err.Error()})
		s.record(nil, err.Error())
		return
	}
	s.record(&result, "")
}

func (s *Scheduler) record(result *PassResult, errMsg string) {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRunAt = &now
	s.lastResult = result
	s.lastError = errMsg
}

func (s *Scheduler) logOverlap(source string) {
	metrics.IncPassOverlapSkipped()
	telemetry.Warn("detection.scheduler.overlap", map[string]any{"source": source})
}
