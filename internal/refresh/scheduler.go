package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DailySpec fires at local midnight.
const DailySpec = "0 0 * * *"

// Scheduler refreshes once a day at local midnight.
type Scheduler struct {
	refresher *Refresher
	logger    *slog.Logger
	cron      *cron.Cron
	entry     cron.EntryID
}

func NewScheduler(r *Refresher, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		refresher: r,
		logger:    logger,
		cron: cron.New(
			cron.WithLogger(cronLogger{logger: logger}),
			cron.WithLocation(time.Local),
		),
	}
	id, err := s.cron.AddFunc(DailySpec, s.tick)
	if err != nil {
		return nil, fmt.Errorf("schedule %q: %w", DailySpec, err)
	}
	s.entry = id
	return s, nil
}

// Next reports when the daily refresh fires after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.cron.Entry(s.entry).Schedule.Next(t)
}

// Run starts the schedule and blocks until ctx is cancelled. A refresh in
// progress at that point is allowed to finish. Refresh failures are logged
// and the schedule continues.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	s.logger.Info("[scheduler] next refresh", "at", s.Next(time.Now()).Format(time.RFC3339))

	<-ctx.Done()
	<-s.cron.Stop().Done()
}

func (s *Scheduler) tick() {
	if _, err := s.refresher.Run(context.Background(), TriggerSchedule); err != nil {
		s.logger.Error("[scheduler] scheduled refresh failed", "error", err)
		return
	}
	s.logger.Info("[scheduler] next refresh", "at", s.Next(time.Now()).Format(time.RFC3339))
}

// cronLogger routes cron's own logging into slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("[cron] "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("[cron] "+msg, append(keysAndValues, "error", err)...)
}
