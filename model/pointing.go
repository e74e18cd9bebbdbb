package model

import "math"

// HorizontalPosition is an azimuth (from north through east) and an
// altitude above the horizon, both in degrees.
type HorizontalPosition struct {
	AzimuthDeg  float64
	AltitudeDeg float64
}

// AzimuthDirection classifies the azimuth part of a move.
type AzimuthDirection int

const (
	AzimuthNone AzimuthDirection = iota
	AzimuthLeft
	AzimuthRight
)

func (d AzimuthDirection) String() string {
	switch d {
	case AzimuthLeft:
		return "LEFT"
	case AzimuthRight:
		return "RIGHT"
	default:
		return "(ok now)"
	}
}

// AltitudeDirection classifies the altitude part of a move.
type AltitudeDirection int

const (
	AltitudeNone AltitudeDirection = iota
	AltitudeLower
	AltitudeRaise
)

func (d AltitudeDirection) String() string {
	switch d {
	case AltitudeLower:
		return "LOWER"
	case AltitudeRaise:
		return "RAISE"
	default:
		return "(ok now)"
	}
}

// MoveDelta is the signed adjustment from one horizontal position to
// another. Positive azimuth is clockwise (right), positive altitude is up.
type MoveDelta struct {
	AzimuthDeg  float64
	AltitudeDeg float64

	Azimuth  AzimuthDirection
	Altitude AltitudeDirection
}

// AzimuthMagnitude is the unsigned azimuth move in degrees.
func (m MoveDelta) AzimuthMagnitude() float64 { return math.Abs(m.AzimuthDeg) }

// AltitudeMagnitude is the unsigned altitude move in degrees.
func (m MoveDelta) AltitudeMagnitude() float64 { return math.Abs(m.AltitudeDeg) }

// RotationDirection tells the operator which way to turn the camera body.
type RotationDirection int

const (
	RotationNone RotationDirection = iota
	RotationCCW
	RotationCW
)

func (d RotationDirection) String() string {
	switch d {
	case RotationCCW:
		return "CCW"
	case RotationCW:
		return "CW"
	default:
		return "none"
	}
}

// RotationAdvice is derived from a plate solution's reported field rotation.
type RotationAdvice struct {
	Direction    RotationDirection
	MagnitudeDeg float64
}

// MoveReport bundles everything the operator needs for one re-point.
type MoveReport struct {
	Now    HorizontalPosition // reference image position at image time
	Target HorizontalPosition // target position at event time
	Delta  MoveDelta

	// Rotation is nil when the plate solution carries no rotation.
	Rotation *RotationAdvice
}
