package recommend

import "time"

// Season is one of the three Indian cropping seasons.
type Season string

const (
	SeasonKharif Season = "Kharif"
	SeasonRabi   Season = "Rabi"
	SeasonSummer Season = "Summer"
)

// SeasonForMonth maps a calendar month to its cropping season. The rule is
// fixed: Jun-Oct is Kharif, Nov-Mar is Rabi, Apr-May is Summer.
func SeasonForMonth(m time.Month) Season {
	switch m {
	case time.June, time.July, time.August, time.September, time.October:
		return SeasonKharif
	case time.November, time.December, time.January, time.February, time.March:
		return SeasonRabi
	default:
		return SeasonSummer
	}
}

// CurrentSeason returns the season for the given instant.
func CurrentSeason(now time.Time) Season {
	return SeasonForMonth(now.Month())
}
