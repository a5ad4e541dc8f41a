package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/callsched/internal/notify"
	"github.com/example/callsched/internal/vapi"
)

const (
	DefaultInterval    = 10 * time.Second
	DefaultMaxAttempts = 30
)

var (
	ErrAlreadyMonitoring = errors.New("call is already being monitored")
	ErrStopped           = errors.New("monitor is stopped")
)

type StatusFetcher interface {
	GetCall(ctx context.Context, id string) (vapi.CallRecord, error)
}

type Notifier interface {
	Send(ctx context.Context, message string) error
}

// enabler is implemented by notifiers that can be switched off by config.
type enabler interface {
	Enabled() bool
}

type Options struct {
	Interval    time.Duration
	MaxAttempts int
	Logger      *zap.Logger
}

// Monitor polls placed calls until they reach a terminal status, then
// sends one notification per call.
type Monitor struct {
	fetcher     StatusFetcher
	notifier    Notifier
	interval    time.Duration
	maxAttempts int
	log         *zap.Logger

	reg *Registry

	mu      sync.Mutex
	stopped bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func New(fetcher StatusFetcher, notifier Notifier, opts Options) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Monitor{
		fetcher:     fetcher,
		notifier:    notifier,
		interval:    opts.Interval,
		maxAttempts: opts.MaxAttempts,
		log:         opts.Logger,
		reg:         newRegistry(),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Registry exposes the read-only view of active monitors.
func (m *Monitor) Registry() *Registry { return m.reg }

// Start begins polling callID in the background and returns immediately.
func (m *Monitor) Start(callID, userName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return ErrStopped
	}

	ctx, cancel := context.WithCancel(m.ctx)
	e := &Entry{CallID: callID, UserName: userName, StartedAt: time.Now(), cancel: cancel}
	if !m.reg.add(e) {
		cancel()
		m.log.Warn("call already monitored", zap.String("call_id", callID))
		return ErrAlreadyMonitoring
	}

	ActiveMonitors.Inc()
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer ActiveMonitors.Dec()
		defer m.reg.remove(callID)
		m.run(ctx, callID, userName)
	}()
	return nil
}

func (m *Monitor) run(ctx context.Context, callID, userName string) {
	log := m.log.With(zap.String("call_id", callID), zap.String("user", userName))
	log.Info("monitoring call")

	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		rec, err := m.fetcher.GetCall(ctx, callID)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				Outcomes.WithLabelValues("stopped").Inc()
				return
			}
			StatusPolls.WithLabelValues("error").Inc()
			log.Warn("call status fetch failed", zap.Int("attempt", attempt), zap.Error(err))
		case rec.Status.Terminal():
			StatusPolls.WithLabelValues("terminal").Inc()
			Outcomes.WithLabelValues("terminal").Inc()
			log.Info("call finished", zap.Int("attempt", attempt), zap.String("status", string(rec.Status)))
			m.deliver(ctx, log, rec, userName)
			return
		default:
			StatusPolls.WithLabelValues("pending").Inc()
			log.Debug("call in progress", zap.Int("attempt", attempt), zap.String("status", string(rec.Status)))
		}

		if attempt == m.maxAttempts {
			break
		}
		t := time.NewTimer(m.interval)
		select {
		case <-ctx.Done():
			t.Stop()
			Outcomes.WithLabelValues("stopped").Inc()
			return
		case <-t.C:
		}
	}

	Outcomes.WithLabelValues("exhausted").Inc()
	log.Warn("monitoring gave up without a terminal status", zap.Int("attempts", m.maxAttempts))
}

func (m *Monitor) deliver(ctx context.Context, log *zap.Logger, rec vapi.CallRecord, userName string) {
	if m.notifier == nil {
		Notifications.WithLabelValues("skipped").Inc()
		return
	}
	if en, ok := m.notifier.(enabler); ok && !en.Enabled() {
		Notifications.WithLabelValues("skipped").Inc()
		log.Debug("notifier disabled, skipping notification")
		return
	}
	if err := m.notifier.Send(ctx, notify.Compose(rec, userName)); err != nil {
		Notifications.WithLabelValues("error").Inc()
		log.Error("notification failed", zap.Error(err))
		return
	}
	Notifications.WithLabelValues("sent").Inc()
}

// Wait blocks until every running monitor has finished.
func (m *Monitor) Wait() {
	m.wg.Wait()
}

// Shutdown rejects new calls, cancels running monitors and waits for them
// or for ctx.
func (m *Monitor) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	m.stopped = true
	m.mu.Unlock()
	m.cancel()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
