// Package refdata provides the country reference lookup consumed by the
// screening rules. The table is immutable for the process lifetime, so the
// lookup is a plain map read with no locking.
package refdata

import "strings"

// Country is the reference view of one country: its canonical English name
// and the demonym expected in nationality fields. Nationality may be empty
// when the reference data has no demonym for the country; callers treat that
// as "cannot verify".
type Country struct {
	Name        string
	Nationality string
}

// Lookup resolves an ISO 3166 country code. Implementations must be safe for
// concurrent use and must never fail hard: an unknown code is reported via
// the boolean, not an error.
type Lookup interface {
	Resolve(code string) (Country, bool)
}

// StaticLookup is the built-in table keyed by both alpha-2 and alpha-3 codes.
type StaticLookup struct {
	byCode map[string]Country
}

// Static returns the process-wide built-in lookup.
func Static() *StaticLookup {
	return staticLookup
}

// Resolve matches the code case-insensitively against alpha-3 first, then
// alpha-2, mirroring how the reference data is keyed.
func (l *StaticLookup) Resolve(code string) (Country, bool) {
	c, ok := l.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

var staticLookup = newStaticLookup()

func newStaticLookup() *StaticLookup {
	l := &StaticLookup{byCode: make(map[string]Country, len(countries)*2)}
	for _, e := range countries {
		c := Country{Name: e.name, Nationality: e.demonym}
		l.byCode[e.alpha3] = c
		l.byCode[e.alpha2] = c
	}
	return l
}

type countryEntry struct {
	alpha2  string
	alpha3  string
	name    string
	demonym string
}

// countries covers the jurisdictions seen in onboarding dossiers. Extend as
// new markets are added; both code forms appear in source documents.
var countries = []countryEntry{
	{"AT", "AUT", "Austria", "Austrian"},
	{"AU", "AUS", "Australia", "Australian"},
	{"BE", "BEL", "Belgium", "Belgian"},
	{"BG", "BGR", "Bulgaria", "Bulgarian"},
	{"BR", "BRA", "Brazil", "Brazilian"},
	{"CA", "CAN", "Canada", "Canadian"},
	{"CH", "CHE", "Switzerland", "Swiss"},
	{"CN", "CHN", "China", "Chinese"},
	{"CZ", "CZE", "Czechia", "Czech"},
	{"DE", "DEU", "Germany", "German"},
	{"DK", "DNK", "Denmark", "Danish"},
	{"EE", "EST", "Estonia", "Estonian"},
	{"ES", "ESP", "Spain", "Spanish"},
	{"FI", "FIN", "Finland", "Finnish"},
	{"FR", "FRA", "France", "French"},
	{"GB", "GBR", "United Kingdom", "British"},
	{"GR", "GRC", "Greece", "Greek"},
	{"HR", "HRV", "Croatia", "Croatian"},
	{"HU", "HUN", "Hungary", "Hungarian"},
	{"IE", "IRL", "Ireland", "Irish"},
	{"IN", "IND", "India", "Indian"},
	{"IS", "ISL", "Iceland", "Icelandic"},
	{"IT", "ITA", "Italy", "Italian"},
	{"JP", "JPN", "Japan", "Japanese"},
	{"LI", "LIE", "Liechtenstein", "Liechtensteiner"},
	{"LT", "LTU", "Lithuania", "Lithuanian"},
	{"LU", "LUX", "Luxembourg", "Luxembourgish"},
	{"LV", "LVA", "Latvia", "Latvian"},
	{"MC", "MCO", "Monaco", "Monegasque"},
	{"MT", "MLT", "Malta", "Maltese"},
	{"NL", "NLD", "Netherlands", "Dutch"},
	{"NO", "NOR", "Norway", "Norwegian"},
	{"PL", "POL", "Poland", "Polish"},
	{"PT", "PRT", "Portugal", "Portuguese"},
	{"RO", "ROU", "Romania", "Romanian"},
	{"SE", "SWE", "Sweden", "Swedish"},
	{"SG", "SGP", "Singapore", "Singaporean"},
	{"SI", "SVN", "Slovenia", "Slovenian"},
	{"SK", "SVK", "Slovakia", "Slovak"},
	{"US", "USA", "United States", "American"},
}
