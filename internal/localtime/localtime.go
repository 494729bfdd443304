// Package localtime converts the feed's UTC timestamps into the club's
// Pacific civil time. The conversion deliberately uses fixed -7/-8 hour
// offsets instead of zoneinfo: stored timestamps stay naive UTC and the
// display layer only ever needs the season's daylight offset.
package localtime

import "time"

// Timestamp layouts used across the feed and the display layer.
const (
	ISOFormat      = "2006-01-02T15:04:05Z" // feed gameDate / resumedFrom
	YMDFormat      = "2006-01-02"           // feed date + endpoint params
	ReadableFormat = "Mon January 02 2006 at 03:04 PM"
)

const (
	daylightOffset = 7 * time.Hour // PDT, roughly March through November
	standardOffset = 8 * time.Hour // PST
)

// ToPacific shifts a UTC time to Pacific civil time. The returned value keeps
// the UTC location; only the clock fields are meaningful.
func ToPacific(utc time.Time, daylight bool) time.Time {
	if daylight {
		return utc.Add(-daylightOffset)
	}
	return utc.Add(-standardOffset)
}

// ParseUTC parses a feed timestamp of the form 1990-02-10T04:15:35Z.
func ParseUTC(s string) (time.Time, error) {
	return time.Parse(ISOFormat, s)
}

// ParseYMD parses a calendar date of the form 1990-02-10.
func ParseYMD(s string) (time.Time, error) {
	return time.Parse(YMDFormat, s)
}

// Readable formats a UTC time as a Pacific display string,
// e.g. "Fri February 09 1990 at 09:15 PM".
func Readable(utc time.Time, daylight bool) string {
	return ToPacific(utc, daylight).Format(ReadableFormat)
}

// ParseUTCToReadable converts a feed timestamp straight to the display string.
func ParseUTCToReadable(s string, daylight bool) (string, error) {
	utc, err := ParseUTC(s)
	if err != nil {
		return "", err
	}
	return Readable(utc, daylight), nil
}
