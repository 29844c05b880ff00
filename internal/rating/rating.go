// Package rating resolves regional content-rating codes to a normalized
// minimum age and severity. Two film schemes are supported: MPAA (US) and
// BBFC (UK). The lookup tables are built once at init and never mutated.
package rating

import (
	"strings"

	"github.com/ashleyrevlett/youtube-guardian/internal/model"
)

// Severity is the qualitative tier of a rating, ordered from least to most
// restrictive. Unknown sorts above Adult because an unclassifiable rating is
// itself worth surfacing.
type Severity int

const (
	SeveritySafe Severity = iota
	SeverityGuidance
	SeverityTeen
	SeverityMature
	SeverityAdult
	SeverityUnknown
)

func (s Severity) String() string {
	switch s {
	case SeveritySafe:
		return "safe"
	case SeverityGuidance:
		return "guidance"
	case SeverityTeen:
		return "teen"
	case SeverityMature:
		return "mature"
	case SeverityAdult:
		return "adult"
	}
	return "unknown"
}

// Entry is one resolved rating.
type Entry struct {
	Scheme      string
	Code        string
	MinAge      *int // nil means unrated / no defined minimum
	Severity    Severity
	Description string
}

func age(n int) *int { return &n }

// schemeOrder fixes the iteration order across schemes so the all-nil-age
// tie-break in MostRestrictive is deterministic.
var schemeOrder = []string{"mpaa", "bbfc"}

var tables = map[string]map[string]Entry{
	"mpaa": {
		"G":       {Scheme: "mpaa", Code: "G", MinAge: age(0), Severity: SeveritySafe, Description: "General audiences, all ages admitted"},
		"PG":      {Scheme: "mpaa", Code: "PG", MinAge: nil, Severity: SeverityGuidance, Description: "Parental guidance suggested"},
		"PG-13":   {Scheme: "mpaa", Code: "PG-13", MinAge: age(13), Severity: SeverityTeen, Description: "Parents strongly cautioned, may be inappropriate under 13"},
		"R":       {Scheme: "mpaa", Code: "R", MinAge: age(17), Severity: SeverityMature, Description: "Restricted, under 17 requires accompanying adult"},
		"NC-17":   {Scheme: "mpaa", Code: "NC-17", MinAge: age(18), Severity: SeverityAdult, Description: "Adults only, no one 17 and under admitted"},
		"UNRATED": {Scheme: "mpaa", Code: "UNRATED", MinAge: nil, Severity: SeverityUnknown, Description: "Not rated by the MPAA"},
	},
	"bbfc": {
		"U":   {Scheme: "bbfc", Code: "U", MinAge: age(0), Severity: SeveritySafe, Description: "Universal, suitable for all"},
		"PG":  {Scheme: "bbfc", Code: "PG", MinAge: nil, Severity: SeverityGuidance, Description: "Parental guidance, general viewing"},
		"12":  {Scheme: "bbfc", Code: "12", MinAge: age(12), Severity: SeverityTeen, Description: "Suitable for 12 years and over"},
		"12A": {Scheme: "bbfc", Code: "12A", MinAge: age(12), Severity: SeverityTeen, Description: "Under 12 admitted only with an adult"},
		"15":  {Scheme: "bbfc", Code: "15", MinAge: age(15), Severity: SeverityMature, Description: "Suitable only for 15 years and over"},
		"18":  {Scheme: "bbfc", Code: "18", MinAge: age(18), Severity: SeverityAdult, Description: "Suitable only for adults"},
		"R18": {Scheme: "bbfc", Code: "R18", MinAge: age(18), Severity: SeverityAdult, Description: "Adult works, licensed premises only"},
	},
}

// Resolve looks up each recognized scheme's rating code (case-insensitive) in
// the static tables. Unrecognized schemes and codes are silently dropped.
// Entries come back in the fixed scheme order, not map order. Pure function.
func Resolve(ratings map[string]string) []Entry {
	if len(ratings) == 0 {
		return nil
	}
	var entries []Entry
	for _, scheme := range schemeOrder {
		code, ok := ratings[scheme]
		if !ok {
			continue
		}
		table := tables[scheme]
		entry, ok := table[strings.ToUpper(strings.TrimSpace(code))]
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// MostRestrictive returns the entry with the highest non-nil minimum age.
// When every entry has a nil age the first one encountered wins; that
// tie-break is arbitrary but must be preserved for determinism.
func MostRestrictive(entries []Entry) *Entry {
	if len(entries) == 0 {
		return nil
	}
	var best *Entry
	for i := range entries {
		e := &entries[i]
		if e.MinAge == nil {
			continue
		}
		if best == nil || best.MinAge == nil || *e.MinAge > *best.MinAge {
			best = e
		}
	}
	if best == nil {
		best = &entries[0]
	}
	return best
}

// TierFor maps a rating severity to the fixed signal tier: adult and mature
// ratings are flags, teen is a warning, guidance and safe are informational.
// Unknown is treated with warning-tier urgency.
func TierFor(s Severity) model.SignalTier {
	switch s {
	case SeverityAdult, SeverityMature:
		return model.TierFlag
	case SeverityTeen, SeverityUnknown:
		return model.TierWarning
	}
	return model.TierInfo
}
