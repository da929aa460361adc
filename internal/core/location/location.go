package location

import "strings"

// Precision how much of a location could be recovered from free text
type Precision int

const (
	PrecisionNone    Precision = iota // nothing matchable
	PrecisionCountry                  // country only
	PrecisionCity                     // city and country
)

func (p Precision) String() string {
	switch p {
	case PrecisionCountry:
		return "country"
	case PrecisionCity:
		return "city"
	default:
		return "none"
	}
}

// LocationKey normalized (city, country) pair used as an exact-match key.
// Values are trimmed but never case-folded: "Dhaka" and "dhaka" are different keys.
type LocationKey struct {
	City      string
	Country   string
	Precision Precision
}

// Resolve parses "City, Country", "Country" or an empty string.
// Segments past the second one are ignored and blank segments count as missing.
func Resolve(text string) LocationKey {
	if strings.TrimSpace(text) == "" {
		return LocationKey{}
	}

	parts := strings.Split(text, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	var key LocationKey
	switch len(parts) {
	case 1:
		key.Country = parts[0]
	default:
		key.City = parts[0]
		key.Country = parts[1]
	}

	switch {
	case key.Country == "":
		// a city without its country cannot be matched against post stamps
		key.Precision = PrecisionNone
	case key.City == "":
		key.Precision = PrecisionCountry
	default:
		key.Precision = PrecisionCity
	}
	return key
}

// Tags stamp stored on a post created at this location, country first.
func (k LocationKey) Tags() []string {
	switch k.Precision {
	case PrecisionCity:
		return []string{k.Country, k.City}
	case PrecisionCountry:
		return []string{k.Country}
	default:
		return []string{}
	}
}

func (k LocationKey) HasCountry() bool { return k.Precision != PrecisionNone }

func (k LocationKey) HasCity() bool { return k.Precision == PrecisionCity }
