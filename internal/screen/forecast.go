package screen

import (
	"context"
	"sync"
	"time"

	"github.com/adisdwi/cuaca-api/internal/airquality"
	"github.com/adisdwi/cuaca-api/internal/foreca"
	"github.com/adisdwi/cuaca-api/internal/geocode"
)

// Forecast drives the detail view: resolve the provider id, then fetch
// the daily forecast, hourly forecast, and air quality concurrently.
// A weather fetch failure is fatal to the load; a missing air-quality
// reading is not.
type Forecast struct {
	weather *foreca.Client
	air     *airquality.Client
	now     func() time.Time

	mu           sync.Mutex
	status       Status
	location     geocode.Location
	daily        []foreca.DailyEntry
	hourly       []foreca.HourlyEntry
	reading      *airquality.Reading
	selectedHour int
	err          error
}

// ForecastSnapshot is the merged view-model for the detail screen.
// AirQuality is nil when the lookup degraded.
type ForecastSnapshot struct {
	Status       Status               `json:"status"`
	Location     geocode.Location     `json:"location"`
	Daily        []foreca.DailyEntry  `json:"daily,omitempty"`
	Hourly       []foreca.HourlyEntry `json:"hourly,omitempty"`
	AirQuality   *airquality.Reading  `json:"airQuality,omitempty"`
	SelectedHour int                  `json:"selectedHour"`
	Err          error                `json:"-"`
}

func NewForecast(weather *foreca.Client, air *airquality.Client) *Forecast {
	return &Forecast{
		weather: weather,
		air:     air,
		now:     time.Now,
		status:  StatusIdle,
	}
}

// Load resolves the location's provider id, then fans out the three
// data fetches and combines the results once all have settled.
func (f *Forecast) Load(ctx context.Context, loc geocode.Location) error {
	f.mu.Lock()
	f.status = StatusLoading
	f.location = loc
	f.daily = nil
	f.hourly = nil
	f.reading = nil
	f.selectedHour = 0
	f.err = nil
	f.mu.Unlock()

	// Hard prerequisite: forecast endpoints key on the provider id.
	id, err := f.weather.LocationID(ctx, loc.Name)
	if err != nil {
		return f.fail(err)
	}

	var (
		wg        sync.WaitGroup
		daily     []foreca.DailyEntry
		dailyErr  error
		hourly    []foreca.HourlyEntry
		hourlyErr error
		reading   *airquality.Reading
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		daily, dailyErr = f.weather.Daily(ctx, id)
	}()
	go func() {
		defer wg.Done()
		hourly, hourlyErr = f.weather.Hourly(ctx, id)
	}()
	go func() {
		defer wg.Done()
		reading = f.air.Nearest(ctx, loc.Lat, loc.Lon)
	}()
	wg.Wait()

	if dailyErr != nil {
		return f.fail(dailyErr)
	}
	if hourlyErr != nil {
		return f.fail(hourlyErr)
	}

	f.mu.Lock()
	f.status = StatusSuccess
	f.daily = daily
	f.hourly = hourly
	f.reading = reading
	f.selectedHour = selectedHourIndex(hourly, f.now())
	f.mu.Unlock()
	return nil
}

func (f *Forecast) fail(err error) error {
	f.mu.Lock()
	f.status = StatusError
	f.err = err
	f.mu.Unlock()
	return err
}

// Snapshot returns the current view-model.
func (f *Forecast) Snapshot() ForecastSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	return ForecastSnapshot{
		Status:       f.status,
		Location:     f.location,
		Daily:        f.daily,
		Hourly:       f.hourly,
		AirQuality:   f.reading,
		SelectedHour: f.selectedHour,
		Err:          f.err,
	}
}

// selectedHourIndex picks the first hourly entry whose hour-of-day is
// at or past the current wall-clock hour, defaulting to the first entry.
func selectedHourIndex(entries []foreca.HourlyEntry, now time.Time) int {
	current := now.Hour()
	for i, e := range entries {
		if h, ok := e.HourOfDay(); ok && h >= current {
			return i
		}
	}
	return 0
}
