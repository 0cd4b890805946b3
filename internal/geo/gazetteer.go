// Package geo scores geographic proximity between country-level locations
// using a static gazetteer of capital-city coordinates.
package geo

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Coordinates is a country-level reference point (its capital city).
type Coordinates struct {
	Lat     float64
	Lng     float64
	Capital string
}

// countryCoords holds capital-city reference coordinates per country.
var countryCoords = map[string]Coordinates{
	// Western Europe
	"Netherlands": {52.3676, 4.9041, "Amsterdam"},
	"Germany":     {52.5200, 13.4050, "Berlin"},
	"Belgium":     {50.8503, 4.3517, "Brussels"},
	"France":      {48.8566, 2.3522, "Paris"},
	"Luxembourg":  {49.6116, 6.1319, "Luxembourg"},
	"Austria":     {48.2082, 16.3738, "Vienna"},
	"Switzerland": {46.9480, 7.4474, "Bern"},

	// Northern Europe
	"United Kingdom": {51.5074, -0.1278, "London"},
	"Ireland":        {53.3498, -6.2603, "Dublin"},
	"Denmark":        {55.6761, 12.5683, "Copenhagen"},
	"Sweden":         {59.3293, 18.0686, "Stockholm"},
	"Norway":         {59.9139, 10.7522, "Oslo"},
	"Finland":        {60.1699, 24.9384, "Helsinki"},
	"Iceland":        {64.1466, -21.9426, "Reykjavik"},

	// Southern Europe
	"Spain":    {40.4168, -3.7038, "Madrid"},
	"Portugal": {38.7223, -9.1393, "Lisbon"},
	"Italy":    {41.9028, 12.4964, "Rome"},
	"Greece":   {37.9838, 23.7275, "Athens"},
	"Malta":    {35.8989, 14.5146, "Valletta"},
	"Cyprus":   {35.1856, 33.3823, "Nicosia"},

	// Eastern Europe
	"Poland":         {52.2297, 21.0122, "Warsaw"},
	"Czech Republic": {50.0755, 14.4378, "Prague"},
	"Slovakia":       {48.1486, 17.1077, "Bratislava"},
	"Hungary":        {47.4979, 19.0402, "Budapest"},
	"Romania":        {44.4268, 26.1025, "Bucharest"},
	"Bulgaria":       {42.6977, 23.3219, "Sofia"},
	"Croatia":        {45.8150, 15.9819, "Zagreb"},
	"Slovenia":       {46.0569, 14.5058, "Ljubljana"},
	"Serbia":         {44.7866, 20.4489, "Belgrade"},
	"Ukraine":        {50.4501, 30.5234, "Kyiv"},

	// Baltics
	"Estonia":   {59.4370, 24.7536, "Tallinn"},
	"Latvia":    {56.9496, 24.1052, "Riga"},
	"Lithuania": {54.6872, 25.2797, "Vilnius"},

	// Middle East / Turkey
	"Turkey":               {39.9334, 32.8597, "Ankara"},
	"Israel":               {31.7683, 35.2137, "Jerusalem"},
	"United Arab Emirates": {24.4539, 54.3773, "Abu Dhabi"},
	"Saudi Arabia":         {24.7136, 46.6753, "Riyadh"},
	"Qatar":                {25.2854, 51.5310, "Doha"},

	// North America
	"United States": {38.9072, -77.0369, "Washington DC"},
	"Canada":        {45.4215, -75.6972, "Ottawa"},
	"Mexico":        {19.4326, -99.1332, "Mexico City"},

	// South America
	"Brazil":    {-15.8267, -47.9218, "Brasília"},
	"Argentina": {-34.6037, -58.3816, "Buenos Aires"},
	"Chile":     {-33.4489, -70.6693, "Santiago"},
	"Colombia":  {4.7110, -74.0721, "Bogotá"},
	"Peru":      {-12.0464, -77.0428, "Lima"},

	// Asia
	"China":       {39.9042, 116.4074, "Beijing"},
	"Japan":       {35.6762, 139.6503, "Tokyo"},
	"South Korea": {37.5665, 126.9780, "Seoul"},
	"India":       {28.6139, 77.2090, "New Delhi"},
	"Singapore":   {1.3521, 103.8198, "Singapore"},
	"Hong Kong":   {22.3193, 114.1694, "Hong Kong"},
	"Taiwan":      {25.0330, 121.5654, "Taipei"},
	"Thailand":    {13.7563, 100.5018, "Bangkok"},
	"Vietnam":     {21.0278, 105.8342, "Hanoi"},
	"Indonesia":   {-6.2088, 106.8456, "Jakarta"},
	"Malaysia":    {3.1390, 101.6869, "Kuala Lumpur"},
	"Philippines": {14.5995, 120.9842, "Manila"},

	// Oceania
	"Australia":   {-35.2809, 149.1300, "Canberra"},
	"New Zealand": {-41.2866, 174.7756, "Wellington"},

	// Africa
	"South Africa": {-25.7479, 28.2293, "Pretoria"},
	"Egypt":        {30.0444, 31.2357, "Cairo"},
	"Morocco":      {33.9716, -6.8498, "Rabat"},
	"Nigeria":      {9.0765, 7.3986, "Abuja"},
	"Kenya":        {-1.2921, 36.8219, "Nairobi"},

	"Russia": {55.7558, 37.6173, "Moscow"},
}

// aliases maps lowercase alternative spellings to canonical names.
var aliases = map[string]string{
	"the netherlands":   "Netherlands",
	"holland":           "Netherlands",
	"uk":                "United Kingdom",
	"great britain":     "United Kingdom",
	"england":           "United Kingdom",
	"usa":               "United States",
	"america":           "United States",
	"uae":               "United Arab Emirates",
	"turkiye":           "Turkey",
	"türkiye":           "Turkey",
	"czechia":           "Czech Republic",
	"korea":             "South Korea",
	"republic of korea": "South Korea",
}

var titleCaser = cases.Title(language.English)

// Normalize trims a location name, resolves known aliases, and
// title-cases the remainder so lookups are case-insensitive.
func Normalize(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	if canonical, ok := aliases[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return titleCaser.String(strings.ToLower(trimmed))
}

// Lookup resolves a location name to its reference coordinates.
func Lookup(name string) (Coordinates, bool) {
	normalized := Normalize(name)
	if c, ok := countryCoords[normalized]; ok {
		return c, true
	}
	// Case-insensitive scan catches entries the title caser mangles
	// (e.g. "Washington DC" style multi-case keys).
	lower := strings.ToLower(normalized)
	for key, c := range countryCoords {
		if strings.ToLower(key) == lower {
			return c, true
		}
	}
	return Coordinates{}, false
}

// Known reports whether the gazetteer covers the location.
func Known(name string) bool {
	_, ok := Lookup(name)
	return ok
}

// KnownCountries returns all gazetteer entries, sorted.
func KnownCountries() []string {
	names := make([]string, 0, len(countryCoords))
	for name := range countryCoords {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
