package scheduler

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/adisdwi/cuaca-api/internal/foreca"
)

// Janitor periodically prunes expired provider-id cache entries so the
// cache does not grow unbounded over a long process lifetime.
type Janitor struct {
	scheduler *gocron.Scheduler
	weather   *foreca.Client
	interval  time.Duration
	log       *slog.Logger
}

// New creates a Janitor sweeping at the given interval.
func New(weather *foreca.Client, interval time.Duration, logger *slog.Logger) *Janitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Janitor{
		scheduler: gocron.NewScheduler(time.UTC),
		weather:   weather,
		interval:  interval,
		log:       logger,
	}
}

// Start schedules the sweep job and starts the underlying scheduler.
func (j *Janitor) Start() error {
	_, err := j.scheduler.Every(j.interval).Do(func() {
		if removed := j.weather.PruneIDCache(); removed > 0 {
			j.log.Debug("pruned expired location ids", "removed", removed)
		}
	})
	if err != nil {
		return err
	}

	j.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future sweeps.
func (j *Janitor) Stop() {
	if j.scheduler != nil {
		j.scheduler.Stop()
	}
}
