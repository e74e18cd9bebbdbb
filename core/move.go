package core

import (
	"math"

	"github.com/signalsfoundry/prepoint/model"
)

// DefaultRotationToleranceDeg is how much field rotation is tolerated
// before the operator is told to turn the camera.
const DefaultRotationToleranceDeg = 1.0

// Move returns the adjustment that takes the scope from now to target.
//
// The azimuth delta gets +360 only when it is below -180. A delta above
// +180 is reported as is: 10° -> 350° reads RIGHT 340, not LEFT 20.
func Move(now, target model.HorizontalPosition) model.MoveDelta {
	az := target.AzimuthDeg - now.AzimuthDeg
	if az < -180 {
		az += 360
	}
	alt := target.AltitudeDeg - now.AltitudeDeg

	d := model.MoveDelta{AzimuthDeg: az, AltitudeDeg: alt}
	switch {
	case az < 0:
		d.Azimuth = model.AzimuthLeft
	case az > 0:
		d.Azimuth = model.AzimuthRight
	}
	switch {
	case alt < 0:
		d.Altitude = model.AltitudeLower
	case alt > 0:
		d.Altitude = model.AltitudeRaise
	}
	return d
}

// CameraRotation turns a plate solution's field rotation into advice.
// Positive rotation beyond the tolerance is undone counter-clockwise.
func CameraRotation(rotationDeg, toleranceDeg float64) model.RotationAdvice {
	advice := model.RotationAdvice{MagnitudeDeg: math.Abs(rotationDeg)}
	switch {
	case rotationDeg > toleranceDeg:
		advice.Direction = model.RotationCCW
	case rotationDeg < -toleranceDeg:
		advice.Direction = model.RotationCW
	}
	return advice
}

// Plan computes both horizontal positions and the move between them. The
// image position uses the plate solution's instant, the target position the
// event instant. Nothing is cached; every call recomputes.
func Plan(site model.ObserverSite, target model.Target, plate model.PlateSolution, rotationToleranceDeg float64) model.MoveReport {
	now := SiteAzimuthAltitude(site, plate.RADeg, plate.DecDeg, plate.ImageAt)
	at := SiteAzimuthAltitude(site, target.RADeg, target.DecDeg, target.EventAt)

	report := model.MoveReport{
		Now:    now,
		Target: at,
		Delta:  Move(now, at),
	}
	if plate.HasRotation {
		advice := CameraRotation(plate.RotationDeg, rotationToleranceDeg)
		report.Rotation = &advice
	}
	return report
}
