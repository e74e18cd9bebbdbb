package model

import "time"

// ObserverSite is a locked observing location in degrees.
// Longitude is positive east, latitude positive north.
type ObserverSite struct {
	LongitudeDeg float64
	LatitudeDeg  float64
}

// Target is a locked sky position (J2000, degrees) plus the absolute UTC
// instant of the predicted event.
type Target struct {
	RADeg   float64
	DecDeg  float64
	EventAt time.Time
}

// PlateSource records how a PlateSolution was produced.
type PlateSource int

const (
	PlateSourceManual   PlateSource = iota // RA/Dec typed in, instant from the clock
	PlateSourceSharpCap                    // parsed from a SharpCap clipboard block
)

func (s PlateSource) String() string {
	switch s {
	case PlateSourceManual:
		return "manual"
	case PlateSourceSharpCap:
		return "sharpcap"
	default:
		return "unknown"
	}
}

// PlateSolution is the solved sky position of a reference image and the
// instant the image was taken. It is final once created.
type PlateSolution struct {
	RADeg   float64
	DecDeg  float64
	ImageAt time.Time

	// RotationDeg is only known for imported solutions; HasRotation
	// distinguishes a real 0 from "not reported".
	RotationDeg float64
	HasRotation bool

	Source PlateSource
}
