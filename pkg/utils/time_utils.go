package utils

import "time"

// ISODate is the layout used for every calendar date in plans and configs.
const ISODate = "2006-01-02"

// ParseISODate parses a YYYY-MM-DD date at UTC midnight.
func ParseISODate(s string) (time.Time, error) {
	return time.ParseInLocation(ISODate, s, time.UTC)
}

// AddDays returns the ISO date offset days after base. Calendar arithmetic
// goes through AddDate so month and leap-year boundaries are handled.
func AddDays(base time.Time, offset int) string {
	return base.AddDate(0, 0, offset).Format(ISODate)
}

// DaysInclusive counts calendar days from start to end, both included.
// Both are expected at UTC midnight. Unix seconds keep the count exact for
// spans past the range of time.Duration.
func DaysInclusive(start, end time.Time) int {
	return int((end.Unix()-start.Unix())/secondsPerDay) + 1
}

const secondsPerDay = 24 * 60 * 60

func NowUnixMillis() int64 { return time.Now().UnixMilli() }
