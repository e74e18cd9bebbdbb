package angle

import (
	"fmt"
	"strconv"
	"time"
)

var timeOfDayLimits = [3]int{23, 59, 59}

// NextOccurrence resolves "hh:mm:ss" (UTC) to the first instant with that
// time of day strictly after now. The candidate is built on now's UTC date
// and moved forward one calendar day when it is not in the future.
//
// The result depends on now, so re-resolving the same text after the
// returned instant has passed yields the following day.
func NextOccurrence(text string, now time.Time) (time.Time, error) {
	fields := Fields(text)
	if len(fields) != 3 {
		return time.Time{}, fmt.Errorf("%w: time of day %q needs hours, minutes and seconds", ErrMalformed, text)
	}

	var hms [3]int
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: time of day %q", ErrMalformed, text)
		}
		if v < 0 || v > timeOfDayLimits[i] {
			return time.Time{}, fmt.Errorf("%w: time of day %q", ErrOutOfRange, text)
		}
		hms[i] = v
	}

	now = now.UTC()
	year, month, day := now.Date()
	at := time.Date(year, month, day, hms[0], hms[1], hms[2], 0, time.UTC)
	if !at.After(now) {
		at = at.AddDate(0, 0, 1)
	}
	return at, nil
}
