package agenda

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vetlink-cl/agenda-platform/pkg/logging"
)

// ScheduleFetcher produces one veterinarian's day schedule.
type ScheduleFetcher interface {
	DaySchedule(ctx context.Context, vetID string, date time.Time) (*DaySchedule, error)
}

// DayResult is the joined outcome of loading every veterinarian's schedule
// for one date. Working schedules are sorted by veterinarian name so the
// pagination window is stable.
type DayResult struct {
	Date       time.Time
	Seq        uint64
	Working    []DaySchedule
	NotWorking []string
}

// RenderListener is notified once a day load completes and its result is the
// freshest one. Deep-link handling waits on this instead of polling.
type RenderListener func(DayResult)

// DayLoader fans out one fetch per veterinarian and joins them all before
// any decision is made. Every load carries a monotonically increasing
// sequence number; only the most recent load's result is published to the
// registered listeners, so a superseded render never overwrites a newer one.
// The caller of a superseded load still gets its own result back.
type DayLoader struct {
	fetcher ScheduleFetcher
	logger  *logging.Logger

	seq    atomic.Uint64
	latest atomic.Uint64

	mu        sync.Mutex
	listeners []RenderListener
}

// NewDayLoader creates a loader over the given fetcher.
func NewDayLoader(fetcher ScheduleFetcher, logger *logging.Logger) *DayLoader {
	if fetcher == nil {
		panic("agenda: schedule fetcher required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DayLoader{fetcher: fetcher, logger: logger}
}

// OnRenderCompleted registers a listener for completed loads.
func (l *DayLoader) OnRenderCompleted(fn RenderListener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, fn)
}

// LoadAll fetches every veterinarian's schedule for the date concurrently.
// All requests are issued before any is awaited. Any fetch failure fails the
// whole load so the grid is never rendered from incomplete data. The result
// always goes back to the caller; listeners only hear about it when no newer
// load started in the meantime.
func (l *DayLoader) LoadAll(ctx context.Context, vetIDs []string, date time.Time) (*DayResult, error) {
	seq := l.seq.Add(1)
	l.latest.Store(seq)

	type fetchOutcome struct {
		sched *DaySchedule
		err   error
	}

	outcomes := make([]fetchOutcome, len(vetIDs))
	var wg sync.WaitGroup
	for i, vetID := range vetIDs {
		wg.Add(1)
		go func(i int, vetID string) {
			defer wg.Done()
			sched, err := l.fetcher.DaySchedule(ctx, vetID, date)
			outcomes[i] = fetchOutcome{sched: sched, err: err}
		}(i, vetID)
	}
	wg.Wait()

	for i, out := range outcomes {
		if out.err != nil {
			l.logger.Error("day schedule fetch failed", "veterinario_id", vetIDs[i], "fecha", date.Format("2006-01-02"), "error", out.err)
			return nil, fmt.Errorf("agenda: load day %s: %w", date.Format("2006-01-02"), out.err)
		}
	}

	result := &DayResult{Date: date, Seq: seq}
	for _, out := range outcomes {
		if out.sched.Works {
			result.Working = append(result.Working, *out.sched)
		} else {
			result.NotWorking = append(result.NotWorking, out.sched.VetID)
		}
	}
	sort.Slice(result.Working, func(i, j int) bool {
		return result.Working[i].VetName < result.Working[j].VetName
	})

	if l.latest.Load() == seq {
		l.notify(*result)
	}
	return result, nil
}

func (l *DayLoader) notify(result DayResult) {
	l.mu.Lock()
	listeners := make([]RenderListener, len(l.listeners))
	copy(listeners, l.listeners)
	l.mu.Unlock()
	for _, fn := range listeners {
		fn(result)
	}
}
