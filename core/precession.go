package core

import (
	"math"

	"github.com/soniakeys/unit"
)

const (
	j2000JD       = 2451545.0
	julianCentury = 36525.0
)

func arcsec(s float64) float64 { return s / 3600 * math.Pi / 180 }

// precessFromJ2000 moves a J2000 mean position to the mean equator and
// equinox of jd using the IAU 1976 angles ζ, z and θ.
func precessFromJ2000(ra, dec unit.Angle, jd float64) (unit.Angle, unit.Angle) {
	t := (jd - j2000JD) / julianCentury

	zeta := arcsec((2306.2181 + (0.30188+0.017998*t)*t) * t)
	z := arcsec((2306.2181 + (1.09468+0.018203*t)*t) * t)
	theta := arcsec((2004.3109 - (0.42665+0.041833*t)*t) * t)

	sinDec, cosDec := math.Sincos(dec.Rad())
	sinA, cosA := math.Sincos(ra.Rad() + zeta)
	sinTh, cosTh := math.Sincos(theta)

	a := cosDec * sinA
	b := cosTh*cosDec*cosA - sinTh*sinDec
	c := sinTh*cosDec*cosA + cosTh*sinDec
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	return unit.Angle(math.Atan2(a, b) + z), unit.Angle(math.Asin(c))
}
