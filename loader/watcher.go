package loader

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-co-op/gocron"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
)

// Watcher represents periodic config reloader which reports changed results only
type Watcher[T any] struct {
	log       *logrus.Logger
	opts      Options[T]
	interval  time.Duration
	onChange  func(LoadResult[T])
	scheduler *gocron.Scheduler

	mut    sync.Mutex
	last   LoadResult[T]
	loaded bool
}

// NewWatcher returns new watcher which loads config with <opts> every <interval> and calls <onChange> with the
// result if it differs from the previous one. The first load is always reported.
func NewWatcher[T any](log *logrus.Logger, opts Options[T], interval time.Duration,
	onChange func(LoadResult[T])) *Watcher[T] {
	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()
	return &Watcher[T]{log: log, opts: opts, interval: interval, onChange: onChange, scheduler: scheduler}
}

// Start schedules reloads and returns immediately. The first reload runs at once.
func (w *Watcher[T]) Start() error {
	if w.interval <= 0 {
		return errors.Newf("Bad watch interval: %v", w.interval)
	}
	if _, err := w.scheduler.Every(w.interval).Do(func() { w.Check() }); err != nil {
		return errors.Wrap(err, "Schedule config reload")
	}
	w.scheduler.StartAsync()
	w.log.WithField("path", w.opts.Path).Debugf("Watching config every %v", w.interval)
	return nil
}

// Stop stops scheduled reloads
func (w *Watcher[T]) Stop() {
	w.scheduler.Stop()
}

// Check loads config once and returns true if the result changed since the previous check
func (w *Watcher[T]) Check() bool {
	res := Load(w.log, w.opts)

	w.mut.Lock()
	changed := !w.loaded || !cmp.Equal(w.last, res)
	w.last, w.loaded = res, true
	w.mut.Unlock()

	if changed && w.onChange != nil {
		w.onChange(res)
	}
	return changed
}
