package angle

import (
	"fmt"
	"math"
)

// DefaultSecondsPlaces is the number of decimals on the seconds field of a
// degree readback.
const DefaultSecondsPlaces = 2

// raSecondsPlaces is fixed for right ascension readbacks.
const raSecondsPlaces = 3

// Format renders deg as sexagesimal text for role.
//
// Longitude, latitude and declination render as "+DD:MM:SS.ss" with the
// sign always present and places decimals on the seconds. Right ascension
// renders as unsigned hours "HH:MM:SS.sss"; places is ignored for it and a
// value that rounds up to 24h wraps to "00:00:00.000".
func Format(deg float64, role Role, places int) (string, error) {
	if math.IsNaN(deg) || !role.Contains(deg) {
		return "", fmt.Errorf("%w: cannot format %g deg as %s", ErrOutOfRange, deg, role)
	}
	if places < 0 {
		places = 0
	}

	if role == RightAscension {
		h, m, s := sexagesimal(deg/15, raSecondsPlaces)
		if h >= 24 {
			h = 0
		}
		return fmt.Sprintf("%02d:%02d:%s", h, m, seconds(s, raSecondsPlaces)), nil
	}

	d, m, s := sexagesimal(math.Abs(deg), places)
	sign := "+"
	if deg < 0 && (d != 0 || m != 0 || s != 0) {
		sign = "-"
	}
	return fmt.Sprintf("%s%02d:%02d:%s", sign, d, m, seconds(s, places)), nil
}

// FormatDecimal renders the fixed-width decimal readback shown next to the
// sexagesimal one.
func FormatDecimal(deg float64) string {
	return fmt.Sprintf("%10.5f", deg)
}

// FormatHorizontal renders an azimuth, altitude or move magnitude.
func FormatHorizontal(deg float64) string {
	return fmt.Sprintf("%7.2f", deg)
}

// sexagesimal splits a non-negative value into whole units, whole minutes
// and seconds rounded to places, carrying a rounded 60 upward.
func sexagesimal(v float64, places int) (int, int, float64) {
	whole := math.Floor(v)
	minutes := (v - whole) * 60
	wholeMinutes := math.Floor(minutes)

	scale := math.Pow(10, float64(places))
	secs := math.Round((minutes-wholeMinutes)*60*scale) / scale

	units, mins := int(whole), int(wholeMinutes)
	if secs >= 60 {
		secs -= 60
		mins++
	}
	if mins >= 60 {
		mins -= 60
		units++
	}
	return units, mins, secs
}

func seconds(s float64, places int) string {
	if places == 0 {
		return fmt.Sprintf("%02.0f", s)
	}
	return fmt.Sprintf("%0*.*f", places+3, places, s)
}
