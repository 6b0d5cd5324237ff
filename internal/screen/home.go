package screen

import (
	"context"
	"sync"

	"github.com/adisdwi/cuaca-api/internal/foreca"
)

// Home drives the current-conditions view: resolve the provider id for
// the chosen city, then fetch the observed weather.
type Home struct {
	weather *foreca.Client

	mu      sync.Mutex
	status  Status
	city    string
	current *foreca.CurrentWeather
	err     error
}

// HomeSnapshot is the immutable view-model handed to the presentation
// layer.
type HomeSnapshot struct {
	Status    Status                 `json:"status"`
	City      string                 `json:"city"`
	Current   *foreca.CurrentWeather `json:"current,omitempty"`
	Condition foreca.Condition       `json:"condition,omitempty"`
	Err       error                  `json:"-"`
}

func NewHome(weather *foreca.Client) *Home {
	return &Home{weather: weather, status: StatusIdle}
}

// Load fetches current conditions for a city, transitioning through
// Loading into Success or Error. Safe to call again with a new city.
func (h *Home) Load(ctx context.Context, city string) error {
	h.mu.Lock()
	h.status = StatusLoading
	h.city = city
	h.current = nil
	h.err = nil
	h.mu.Unlock()

	id, err := h.weather.LocationID(ctx, city)
	if err != nil {
		return h.fail(err)
	}

	current, err := h.weather.Current(ctx, id)
	if err != nil {
		return h.fail(err)
	}

	h.mu.Lock()
	h.status = StatusSuccess
	h.current = &current
	h.mu.Unlock()
	return nil
}

func (h *Home) fail(err error) error {
	h.mu.Lock()
	h.status = StatusError
	h.err = err
	h.mu.Unlock()
	return err
}

// Snapshot returns the current view-model.
func (h *Home) Snapshot() HomeSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	snap := HomeSnapshot{
		Status:  h.status,
		City:    h.city,
		Current: h.current,
		Err:     h.err,
	}
	if h.current != nil {
		snap.Condition = foreca.ConditionFromPhrase(h.current.SymbolPhrase)
	}
	return snap
}
