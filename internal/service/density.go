package service

import "strings"

// denseDestinations lists city/country pairs with practical public transit.
// Keys are lowercase "city|country".
var denseDestinations = map[string]struct{}{}

func init() {
	for country, cities := range map[string][]string{
		"japan":          {"tokyo", "osaka", "kyoto", "yokohama"},
		"france":         {"paris", "lyon"},
		"united kingdom": {"london", "edinburgh"},
		"uk":             {"london", "edinburgh"},
		"united states":  {"new york", "chicago", "san francisco", "washington", "boston"},
		"usa":            {"new york", "chicago", "san francisco", "washington", "boston"},
		"south korea":    {"seoul", "busan"},
		"korea":          {"seoul", "busan"},
		"singapore":      {"singapore"},
		"germany":        {"berlin", "munich", "hamburg"},
		"spain":          {"barcelona", "madrid"},
		"italy":          {"rome", "milan"},
		"netherlands":    {"amsterdam"},
		"austria":        {"vienna"},
		"czech republic": {"prague"},
		"czechia":        {"prague"},
		"turkey":         {"istanbul"},
		"taiwan":         {"taipei"},
		"thailand":       {"bangkok"},
		"china":          {"shanghai", "beijing", "hong kong"},
		"hong kong":      {"hong kong"},
		"switzerland":    {"zurich", "geneva"},
		"canada":         {"toronto", "montreal"},
		"mexico":         {"mexico city"},
		"argentina":      {"buenos aires"},
		"australia":      {"sydney", "melbourne"},
		"denmark":        {"copenhagen"},
		"sweden":         {"stockholm"},
		"norway":         {"oslo"},
		"finland":        {"helsinki"},
		"portugal":       {"lisbon"},
		"hungary":        {"budapest"},
		"ireland":        {"dublin"},
		"belgium":        {"brussels"},
	} {
		for _, city := range cities {
			denseDestinations[city+"|"+country] = struct{}{}
		}
	}
}

// IsDenseDestination reports whether city/country is a known dense urban
// destination. Matching is case-insensitive and ignores surrounding spaces;
// anything not listed is treated as not dense.
func IsDenseDestination(city, country string) bool {
	key := strings.ToLower(strings.TrimSpace(city)) + "|" + strings.ToLower(strings.TrimSpace(country))
	_, ok := denseDestinations[key]
	return ok
}
