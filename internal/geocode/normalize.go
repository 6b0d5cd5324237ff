package geocode

import (
	"strconv"
	"strings"
)

// place is the raw Nominatim payload for one match. Search returns a
// list of these; reverse lookup returns a single one.
type place struct {
	PlaceID     int64       `json:"place_id"`
	Lat         string      `json:"lat"`
	Lon         string      `json:"lon"`
	Type        string      `json:"type"`
	DisplayName string      `json:"display_name"`
	Address     address     `json:"address"`
	NameDetails nameDetails `json:"namedetails"`
	Err         string      `json:"error"`
}

type nameDetails struct {
	Name string `json:"name"`
}

// address is the subset of Nominatim address components the short-name
// derivation consults. Keeping it an explicit struct makes every
// fallback path enumerable instead of branching over a raw map.
type address struct {
	City          string `json:"city"`
	Town          string `json:"town"`
	Village       string `json:"village"`
	Suburb        string `json:"suburb"`
	Neighbourhood string `json:"neighbourhood"`
	County        string `json:"county"`
	StateDistrict string `json:"state_district"`
	State         string `json:"state"`
	Region        string `json:"region"`
}

// components lists the address fields in display priority order.
func (a address) components() []string {
	return []string{
		a.City, a.Town, a.Village, a.Suburb, a.Neighbourhood,
		a.County, a.StateDistrict, a.State, a.Region,
	}
}

// shortName derives a compact display name from a verbose payload.
// Total over all inputs: first match wins, the final fallback is the
// literal "unknown" marker.
func shortName(p place) string {
	if p.NameDetails.Name != "" {
		return p.NameDetails.Name
	}
	for _, v := range p.Address.components() {
		if v != "" {
			return v
		}
	}
	if before, _, _ := strings.Cut(p.DisplayName, ","); strings.TrimSpace(before) != "" {
		return strings.TrimSpace(before)
	}
	return "unknown"
}

func sourceTypeFor(raw string) SourceType {
	switch raw {
	case "":
		return SourceUnknown
	case "city", "town", "village":
		return SourceCity
	default:
		return SourcePlace
	}
}

func (p place) toLocation() Location {
	lat, _ := strconv.ParseFloat(p.Lat, 64)
	lon, _ := strconv.ParseFloat(p.Lon, 64)

	return Location{
		Name:     shortName(p),
		FullName: p.DisplayName,
		Lat:      lat,
		Lon:      lon,
		Type:     sourceTypeFor(p.Type),
	}
}
