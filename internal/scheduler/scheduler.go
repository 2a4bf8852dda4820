package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"NexusStream/internal/collector"
	"NexusStream/internal/currency"
	"NexusStream/internal/render"
)

// Scheduler drives the refresh cycle and holds the latest rendered view.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	TailRows  int
	Logger    zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	ticker string
	view   *render.View
}

// NewScheduler creates a new Scheduler watching ticker.
func NewScheduler(col *collector.Collector, ticker string, tailRows int, logger zerolog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	cl := cronLogger{logger: logger}
	return &Scheduler{
		Cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		Collector: col,
		TailRows:  tailRows,
		Logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		ticker:    normalize(ticker),
		view:      render.Idle(),
	}
}

// Register schedules the refresh cycle with the given cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.refresh); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.Cron.Stop().Done()
	s.Logger.Info().Msg("scheduler stopped")
}

// RunNow executes one refresh cycle immediately.
func (s *Scheduler) RunNow() {
	s.refresh()
}

// SetTicker changes the ticker read by the next cycle and returns the
// normalized value.
func (s *Scheduler) SetTicker(ticker string) string {
	t := normalize(ticker)
	s.mu.Lock()
	s.ticker = t
	s.mu.Unlock()
	s.Logger.Info().Str("symbol", t).Msg("ticker changed")
	return t
}

// Ticker returns the current ticker.
func (s *Scheduler) Ticker() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ticker
}

// View returns the view published by the last cycle.
func (s *Scheduler) View() *render.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

func (s *Scheduler) refresh() {
	ticker := s.Ticker()
	if ticker == "" {
		s.publish(render.Idle())
		return
	}

	s.Logger.Debug().Str("symbol", ticker).Msg("running refresh cycle")
	res := s.Collector.Collect(s.ctx, ticker)
	view := render.Build(res, currency.Resolve(ticker), s.TailRows)
	s.publish(view)
	s.Logger.Info().
		Str("symbol", ticker).
		Str("state", string(view.State)).
		Msg("refresh cycle done")
}

func (s *Scheduler) publish(v *render.View) {
	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
}

func normalize(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// cronLogger forwards cron's internal logging to zerolog.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
