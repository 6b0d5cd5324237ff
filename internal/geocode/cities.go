package geocode

// popularCities is the static quick-access list of major Indonesian
// cities with precomputed coordinates. No network dependency.
var popularCities = []Location{
	{Name: "Jakarta", FullName: "Jakarta, Indonesia", Lat: -6.2088, Lon: 106.8456, Type: SourceCity},
	{Name: "Bogor", FullName: "Bogor, Jawa Barat, Indonesia", Lat: -6.5950, Lon: 106.8161, Type: SourceCity},
	{Name: "Bandung", FullName: "Bandung, Jawa Barat, Indonesia", Lat: -6.9175, Lon: 107.6191, Type: SourceCity},
	{Name: "Surabaya", FullName: "Surabaya, Jawa Timur, Indonesia", Lat: -7.2575, Lon: 112.7521, Type: SourceCity},
	{Name: "Yogyakarta", FullName: "Yogyakarta, Indonesia", Lat: -7.7956, Lon: 110.3695, Type: SourceCity},
	{Name: "Medan", FullName: "Medan, Sumatera Utara, Indonesia", Lat: 3.5952, Lon: 98.6722, Type: SourceCity},
	{Name: "Semarang", FullName: "Semarang, Jawa Tengah, Indonesia", Lat: -6.9669, Lon: 110.4203, Type: SourceCity},
	{Name: "Makassar", FullName: "Makassar, Sulawesi Selatan, Indonesia", Lat: -5.1477, Lon: 119.4327, Type: SourceCity},
	{Name: "Palembang", FullName: "Palembang, Sumatera Selatan, Indonesia", Lat: -2.9761, Lon: 104.7754, Type: SourceCity},
	{Name: "Tangerang", FullName: "Tangerang, Banten, Indonesia", Lat: -6.1701, Lon: 106.6403, Type: SourceCity},
}

// PopularCities returns the static city list in stable order. Callers
// receive a fresh slice so the backing list is never mutated.
func PopularCities() []Location {
	out := make([]Location, len(popularCities))
	copy(out, popularCities)
	return out
}
