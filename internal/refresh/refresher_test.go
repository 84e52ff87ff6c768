package refresh

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	gosync "sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"armoryhub/internal/scraper"
	"armoryhub/internal/store"
	synchub "armoryhub/internal/sync"
	"armoryhub/pkg/models"
)

type fakeBuilder struct {
	calls   atomic.Int32
	gate    chan struct{} // when set, BuildDataset blocks until it is closed
	dataset scraper.Dataset
}

func (b *fakeBuilder) BuildDataset(context.Context) scraper.Dataset {
	b.calls.Add(1)
	if b.gate != nil {
		<-b.gate
	}
	return b.dataset
}

type failingStore struct {
	store.Store
}

func (failingStore) ReplaceAll(context.Context, []models.Weapon) error {
	return errors.New("read-only file system")
}

type recorder struct {
	mu     gosync.Mutex
	events []synchub.RefreshEvent
}

func (r *recorder) PublishRefresh(ev synchub.RefreshEvent) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) all() []synchub.RefreshEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]synchub.RefreshEvent(nil), r.events...)
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func openStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.OpenJSONFile(filepath.Join(t.TempDir(), "database.json"))
	require.NoError(t, err)
	return s
}

func seedDataset() scraper.Dataset {
	return scraper.Dataset{
		Weapons:  scraper.SeedData(),
		Reports:  []scraper.SourceReport{{Source: "https://wiki.example/List", Error: "timeout"}},
		UsedSeed: true,
	}
}

func TestRunPersistsAndRecordsStatus(t *testing.T) {
	s := openStore(t)
	rec := &recorder{}
	r := New(&fakeBuilder{dataset: seedDataset()}, s, rec, quiet())

	require.Nil(t, r.Status().LastRun)

	res, err := r.Run(context.Background(), TriggerManual)
	require.NoError(t, err)
	require.Equal(t, 8, res.Count)
	require.True(t, res.UsedSeed)
	require.NotEmpty(t, res.RunID)
	require.Equal(t, TriggerManual, res.Trigger)

	got, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, scraper.SeedData(), got)

	st := r.Status()
	require.False(t, st.Running)
	require.NotNil(t, st.LastRun)
	require.Equal(t, res.RunID, st.LastRun.RunID)
	require.NotNil(t, st.LastSuccess)
	require.Equal(t, res.FinishedAt, *st.LastSuccess)

	events := rec.all()
	require.Len(t, events, 1)
	require.Equal(t, synchub.EventRefreshCompleted, events[0].Type)
	require.Equal(t, res.RunID, events[0].RunID)
}

func TestRunStoreFailureKeepsPreviousSnapshot(t *testing.T) {
	s := openStore(t)
	previous := []models.Weapon{scraper.SeedData()[0]}
	require.NoError(t, s.ReplaceAll(context.Background(), previous))

	rec := &recorder{}
	r := New(&fakeBuilder{dataset: seedDataset()}, failingStore{Store: s}, rec, quiet())

	_, err := r.Run(context.Background(), TriggerSchedule)
	require.Error(t, err)

	st := r.Status()
	require.False(t, st.Running)
	require.Contains(t, st.LastRun.Error, "read-only file system")
	require.Zero(t, st.LastRun.Count)
	require.Nil(t, st.LastSuccess)

	got, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, previous, got)

	events := rec.all()
	require.Len(t, events, 1)
	require.Equal(t, synchub.EventRefreshFailed, events[0].Type)
	require.Contains(t, events[0].Error, "read-only file system")
}

func TestRunSingleFlight(t *testing.T) {
	b := &fakeBuilder{gate: make(chan struct{}), dataset: seedDataset()}
	r := New(b, openStore(t), nil, quiet())

	const callers = 5
	results := make(chan Result, callers)
	var wg gosync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := r.Run(context.Background(), TriggerManual)
			assert.NoError(t, err)
			results <- res
		}()
	}

	require.Eventually(t, func() bool { return r.Status().Running }, time.Second, 5*time.Millisecond)
	// give the other callers time to join the flight
	time.Sleep(50 * time.Millisecond)
	close(b.gate)
	wg.Wait()
	close(results)

	require.Equal(t, int32(1), b.calls.Load())
	var runID string
	for res := range results {
		if runID == "" {
			runID = res.RunID
		}
		require.Equal(t, runID, res.RunID)
	}
}

func TestRunSurvivesCallerCancellation(t *testing.T) {
	b := &fakeBuilder{gate: make(chan struct{}), dataset: seedDataset()}
	s := openStore(t)
	r := New(b, s, nil, quiet())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := r.Run(ctx, TriggerManual)
		done <- err
	}()

	require.Eventually(t, func() bool { return r.Status().Running }, time.Second, 5*time.Millisecond)
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	close(b.gate)
	require.Eventually(t, func() bool { return r.Status().LastRun != nil }, time.Second, 5*time.Millisecond)

	got, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 8)
}

func TestRunIfEmpty(t *testing.T) {
	s := openStore(t)
	b := &fakeBuilder{dataset: seedDataset()}
	r := New(b, s, nil, quiet())

	ran, err := r.RunIfEmpty(context.Background())
	require.NoError(t, err)
	require.True(t, ran)
	require.Equal(t, TriggerStartup, r.Status().LastRun.Trigger)

	ran, err = r.RunIfEmpty(context.Background())
	require.NoError(t, err)
	require.False(t, ran)
	require.Equal(t, int32(1), b.calls.Load())
}

func TestHandlerScrape(t *testing.T) {
	gin.SetMode(gin.TestMode)

	okRouter := gin.New()
	NewHandler(New(&fakeBuilder{dataset: seedDataset()}, openStore(t), nil, quiet())).RegisterRoutes(okRouter.Group("/api"))

	w := httptest.NewRecorder()
	okRouter.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/scrape", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"message":"Scraping successful","count":8}`, w.Body.String())

	w = httptest.NewRecorder()
	okRouter.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/refresh/status", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"trigger":"manual"`)
	require.Contains(t, w.Body.String(), `"last_success"`)

	badRouter := gin.New()
	NewHandler(New(&fakeBuilder{dataset: seedDataset()}, failingStore{Store: openStore(t)}, nil, quiet())).RegisterRoutes(badRouter.Group("/api"))

	w = httptest.NewRecorder()
	badRouter.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/scrape", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"error":"Scraping failed"}`, w.Body.String())
}
