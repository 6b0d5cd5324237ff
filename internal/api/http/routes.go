package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/adisdwi/cuaca-api/internal/airquality"
	"github.com/adisdwi/cuaca-api/internal/foreca"
	"github.com/adisdwi/cuaca-api/internal/geocode"
	"github.com/adisdwi/cuaca-api/internal/screen"
	"github.com/adisdwi/cuaca-api/internal/windy"
)

var validate = validator.New()

// Deps bundles the clients the HTTP handlers orchestrate over.
type Deps struct {
	Weather *foreca.Client
	Air     *airquality.Client
	Geo     *geocode.Client
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	v1 := app.Group("/api/v1")

	v1.Get("/locations/search", func(c *fiber.Ctx) error {
		var req searchQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		locations, err := deps.Geo.Search(c.UserContext(), req.Query, req.Limit)
		if err != nil {
			return fiber.NewError(statusForError(err), err.Error())
		}
		if locations == nil {
			locations = []geocode.Location{}
		}

		return c.JSON(fiber.Map{"results": locations})
	})

	v1.Get("/locations/popular", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"results": geocode.PopularCities()})
	})

	v1.Get("/locations/reverse", func(c *fiber.Ctx) error {
		lat, lon, err := parseCoordinates(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc, err := deps.Geo.Reverse(c.UserContext(), lat, lon)
		if err != nil {
			return fiber.NewError(statusForError(err), err.Error())
		}
		if loc == nil {
			return fiber.NewError(fiber.StatusNotFound, "no location found for coordinates")
		}

		return c.JSON(loc)
	})

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		var req cityQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		home := screen.NewHome(deps.Weather)
		if err := home.Load(c.UserContext(), req.City); err != nil {
			return fiber.NewError(statusForError(err), err.Error())
		}

		return c.JSON(home.Snapshot())
	})

	v1.Get("/weather/forecast", func(c *fiber.Ctx) error {
		var req forecastQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		fc := screen.NewForecast(deps.Weather, deps.Air)
		if err := fc.Load(c.UserContext(), req.toLocation()); err != nil {
			return fiber.NewError(statusForError(err), err.Error())
		}

		return c.JSON(fc.Snapshot())
	})

	v1.Get("/map/embed", func(c *fiber.Ctx) error {
		lat, lon, err := parseCoordinates(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return c.JSON(fiber.Map{"url": windy.EmbedURL(lat, lon)})
	})
}

// statusForError maps the client-layer error taxonomy onto HTTP status
// codes. Everything upstream-originated that is not a distinct case
// surfaces as a bad gateway with the upstream message preserved.
func statusForError(err error) int {
	var notFound *foreca.LocationNotFoundError
	switch {
	case errors.As(err, &notFound):
		return fiber.StatusNotFound
	case errors.Is(err, foreca.ErrRateLimited):
		return fiber.StatusTooManyRequests
	case errors.Is(err, foreca.ErrAuth):
		return fiber.StatusBadGateway
	case errors.Is(err, geocode.ErrUnavailable):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusBadGateway
	}
}

// searchQuery holds query parameters for the location search endpoint.
type searchQuery struct {
	Query string
	Limit int `validate:"omitempty,min=1,max=20"`
}

func (s *searchQuery) bind(c *fiber.Ctx) error {
	s.Query = c.Query("q")

	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return errors.New("limit must be an integer")
		}
		s.Limit = n
	}

	return validate.Struct(s)
}

// cityQuery holds query parameters identifying a city by name.
type cityQuery struct {
	City string `validate:"required"`
}

func (q *cityQuery) bind(c *fiber.Ctx) error {
	q.City = c.Query("city")
	return validate.Struct(q)
}

// forecastQuery identifies a city plus the coordinates used for the
// air-quality lookup. Coordinates are optional; the air-quality client
// degrades gracefully when they are absent or malformed.
type forecastQuery struct {
	City string `validate:"required"`
	Lat  float64
	Lon  float64
}

// coordAbsent is a finite out-of-range sentinel: it marshals cleanly in
// the response while the air-quality client skips it as invalid.
const coordAbsent = -1000.0

func (q *forecastQuery) bind(c *fiber.Ctx) error {
	q.City = c.Query("city")

	q.Lat = parseFloatDefault(c.Query("lat"), coordAbsent)
	q.Lon = parseFloatDefault(c.Query("lon"), coordAbsent)

	return validate.Struct(q)
}

func (q forecastQuery) toLocation() geocode.Location {
	return geocode.Location{
		Name: q.City,
		Lat:  q.Lat,
		Lon:  q.Lon,
	}
}

func parseCoordinates(c *fiber.Ctx) (float64, float64, error) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		return 0, 0, errors.New("lat must be a number")
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		return 0, 0, errors.New("lon must be a number")
	}
	if !geocode.ValidCoordinate(lat, lon) {
		return 0, 0, errors.New("coordinates out of range")
	}
	return lat, lon, nil
}

func parseFloatDefault(raw string, def float64) float64 {
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return f
}
