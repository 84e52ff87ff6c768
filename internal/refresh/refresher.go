// Package refresh runs the scrape-and-persist cycle and keeps its outcome
// observable.
package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"armoryhub/internal/scraper"
	"armoryhub/internal/store"
	synchub "armoryhub/internal/sync"
)

// Trigger names what started a refresh.
type Trigger string

const (
	TriggerStartup  Trigger = "startup"
	TriggerSchedule Trigger = "schedule"
	TriggerManual   Trigger = "manual"
)

// Builder produces the dataset for one refresh. *scraper.Aggregator
// implements it.
type Builder interface {
	BuildDataset(ctx context.Context) scraper.Dataset
}

// Notifier is told about every finished refresh.
type Notifier interface {
	PublishRefresh(ev synchub.RefreshEvent)
}

// Result describes one finished refresh.
type Result struct {
	RunID      string                 `json:"run_id"`
	Trigger    Trigger                `json:"trigger"`
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt time.Time              `json:"finished_at"`
	Count      int                    `json:"count"`
	UsedSeed   bool                   `json:"used_seed"`
	Sources    []scraper.SourceReport `json:"sources"`
	Error      string                 `json:"error,omitempty"`
}

// Status is the observable state of the refresher.
type Status struct {
	Running     bool       `json:"running"`
	LastRun     *Result    `json:"last_run,omitempty"`
	LastSuccess *time.Time `json:"last_success,omitempty"`
}

// Refresher runs at most one refresh at a time. Callers arriving while a
// refresh is in flight wait for it and receive its result.
type Refresher struct {
	builder  Builder
	store    store.Store
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time

	group singleflight.Group

	mu     sync.RWMutex
	status Status
}

func New(b Builder, s store.Store, n Notifier, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		builder:  b,
		store:    s,
		notifier: n,
		logger:   logger,
		now:      time.Now,
	}
}

// Run performs a refresh, or joins the one already running. The refresh
// does not stop when ctx is cancelled; only the wait does.
func (r *Refresher) Run(ctx context.Context, trigger Trigger) (Result, error) {
	ch := r.group.DoChan("refresh", func() (any, error) {
		res := r.run(context.WithoutCancel(ctx), trigger)
		if res.Error != "" {
			return res, fmt.Errorf("refresh %s: %s", res.RunID, res.Error)
		}
		return res, nil
	})

	select {
	case out := <-ch:
		return out.Val.(Result), out.Err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// RunIfEmpty refreshes only when the store currently holds nothing.
// It reports whether a refresh ran.
func (r *Refresher) RunIfEmpty(ctx context.Context) (bool, error) {
	existing, _ := r.store.LoadAll(ctx)
	if len(existing) > 0 {
		r.logger.Info("[refresh] store populated, skipping startup refresh", "items", len(existing))
		return false, nil
	}
	_, err := r.Run(ctx, TriggerStartup)
	return true, err
}

// Status returns a copy of the current status.
func (r *Refresher) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st := r.status
	if st.LastRun != nil {
		last := *st.LastRun
		st.LastRun = &last
	}
	if st.LastSuccess != nil {
		t := *st.LastSuccess
		st.LastSuccess = &t
	}
	return st
}

func (r *Refresher) run(ctx context.Context, trigger Trigger) Result {
	res := Result{
		RunID:     uuid.NewString(),
		Trigger:   trigger,
		StartedAt: r.now(),
	}
	r.setRunning(true)
	r.logger.Info("[refresh] starting", "run_id", res.RunID, "trigger", trigger)

	ds := r.builder.BuildDataset(ctx)
	res.Sources = ds.Reports
	res.UsedSeed = ds.UsedSeed
	res.Count = len(ds.Weapons)

	if err := r.store.ReplaceAll(ctx, ds.Weapons); err != nil {
		res.Error = fmt.Sprintf("save snapshot: %v", err)
		res.Count = 0
		r.logger.Error("[refresh] failed, previous snapshot kept", "run_id", res.RunID, "error", err)
	} else {
		r.logger.Info("[refresh] done", "run_id", res.RunID, "items", res.Count, "used_seed", res.UsedSeed)
	}
	res.FinishedAt = r.now()

	r.finish(res)
	r.publish(res)
	return res
}

func (r *Refresher) setRunning(v bool) {
	r.mu.Lock()
	r.status.Running = v
	r.mu.Unlock()
}

func (r *Refresher) finish(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.Running = false
	r.status.LastRun = &res
	if res.Error == "" {
		t := res.FinishedAt
		r.status.LastSuccess = &t
	}
}

func (r *Refresher) publish(res Result) {
	if r.notifier == nil {
		return
	}
	ev := synchub.RefreshEvent{
		Type:     synchub.EventRefreshCompleted,
		RunID:    res.RunID,
		Trigger:  string(res.Trigger),
		Count:    res.Count,
		UsedSeed: res.UsedSeed,
		At:       res.FinishedAt,
	}
	if res.Error != "" {
		ev.Type = synchub.EventRefreshFailed
		ev.Error = res.Error
	}
	r.notifier.PublishRefresh(ev)
}
