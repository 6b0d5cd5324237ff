// Package windy builds embed URLs for the Windy wind map widget. The
// map itself renders inside the widget; this side only supplies the
// coordinates and fixed display parameters.
package windy

import (
	"net/url"
	"strconv"
)

const embedBase = "https://embed.windy.com/embed2.html"

// EmbedURL returns the widget URL centered and detailed on the given
// coordinates, with wind overlay and metric units.
func EmbedURL(lat, lon float64) string {
	latStr := strconv.FormatFloat(lat, 'f', -1, 64)
	lonStr := strconv.FormatFloat(lon, 'f', -1, 64)

	params := url.Values{}
	params.Set("lat", latStr)
	params.Set("lon", lonStr)
	params.Set("detailLat", latStr)
	params.Set("detailLon", lonStr)
	params.Set("width", "650")
	params.Set("height", "450")
	params.Set("zoom", "10")
	params.Set("level", "surface")
	params.Set("overlay", "wind")
	params.Set("product", "ecmwf")
	params.Set("marker", "true")
	params.Set("calendar", "now")
	params.Set("type", "map")
	params.Set("location", "coordinates")
	params.Set("metricWind", "km/h")
	params.Set("metricTemp", "°C")
	params.Set("radarRange", "-1")

	return embedBase + "?" + params.Encode()
}
