package core

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
	"github.com/soniakeys/unit"

	"github.com/signalsfoundry/prepoint/model"
)

// JulianDate converts t to a Julian date, keeping sub-second precision that
// satellite.JDay drops.
func JulianDate(t time.Time) float64 {
	t = t.UTC()
	year, month, day := t.Date()
	hour, min, sec := t.Clock()
	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	return jd + float64(t.Nanosecond())/1e9/86400
}

// GreenwichSiderealTime returns Greenwich mean sidereal time at t in [0, 2π).
func GreenwichSiderealTime(t time.Time) unit.Angle {
	return unit.Angle(wrapRad(satellite.ThetaG_JD(JulianDate(t))))
}

// AzimuthAltitude returns where a J2000 sky position appears for an
// observer at lon/lat (degrees, east and north positive) at instant t.
//
// The position is precessed to the date, turned into an Earth-fixed
// direction with mean sidereal time and projected onto the observer's
// horizon. Parallax, refraction, nutation, aberration and polar motion are
// ignored; the result is good to a few arcminutes, which is plenty for
// pre-pointing.
func AzimuthAltitude(lonDeg, latDeg, raDeg, decDeg float64, t time.Time) model.HorizontalPosition {
	jd := JulianDate(t)
	ra, dec := precessFromJ2000(unit.AngleFromDeg(raDeg), unit.AngleFromDeg(decDeg), jd)

	// The sub-star point sits at east longitude RA - GMST.
	gmst := unit.Angle(satellite.ThetaG_JD(jd))
	dir := Direction(ra-gmst, dec)

	frame := NewLocalFrame(unit.AngleFromDeg(lonDeg), unit.AngleFromDeg(latDeg))
	az, alt := frame.Horizontal(dir)
	return model.HorizontalPosition{AzimuthDeg: az, AltitudeDeg: alt}
}

// SiteAzimuthAltitude is AzimuthAltitude for a locked site.
func SiteAzimuthAltitude(site model.ObserverSite, raDeg, decDeg float64, t time.Time) model.HorizontalPosition {
	return AzimuthAltitude(site.LongitudeDeg, site.LatitudeDeg, raDeg, decDeg, t)
}

func wrapRad(r float64) float64 {
	r = math.Mod(r, 2*math.Pi)
	if r < 0 {
		r += 2 * math.Pi
	}
	return r
}
