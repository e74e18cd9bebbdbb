package core

import (
	"math"

	"github.com/soniakeys/unit"
)

// Vec3 is a vector in an Earth-fixed frame: X toward longitude 0 on the
// equator, Z toward the north pole. Directions are unit length.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the Euclidean norm of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Direction returns the unit vector for a spherical longitude and latitude.
func Direction(lon, lat unit.Angle) Vec3 {
	sinLon, cosLon := math.Sincos(lon.Rad())
	sinLat, cosLat := math.Sincos(lat.Rad())
	return Vec3{
		X: cosLat * cosLon,
		Y: cosLat * sinLon,
		Z: sinLat,
	}
}

// LocalFrame is the east/north/up basis of an observer on the sphere.
type LocalFrame struct {
	East, North, Up Vec3
}

// NewLocalFrame builds the horizon basis at geographic lon/lat.
func NewLocalFrame(lon, lat unit.Angle) LocalFrame {
	sinLon, cosLon := math.Sincos(lon.Rad())
	sinLat, cosLat := math.Sincos(lat.Rad())
	return LocalFrame{
		East:  Vec3{X: -sinLon, Y: cosLon, Z: 0},
		North: Vec3{X: -sinLat * cosLon, Y: -sinLat * sinLon, Z: cosLat},
		Up:    Vec3{X: cosLat * cosLon, Y: cosLat * sinLon, Z: sinLat},
	}
}

// Horizontal projects a direction onto the frame. Azimuth is measured from
// north through east in [0, 360); altitude is above the horizon.
func (f LocalFrame) Horizontal(dir Vec3) (azimuthDeg, altitudeDeg float64) {
	az := unit.Angle(math.Atan2(dir.Dot(f.East), dir.Dot(f.North))).Deg()
	az = math.Mod(az, 360)
	if az < 0 {
		az += 360
	}
	if az >= 360 || az == 0 {
		// folds -0 and a rounded-up 360 onto 0
		az = 0
	}
	return az, ElevationDegrees(f.Up, dir)
}

// ElevationDegrees returns the angle of dir above the plane normal to
// zenith, in degrees. 0° = geometric horizon, 90° = overhead.
func ElevationDegrees(zenith, dir Vec3) float64 {
	n := dir.Norm() * zenith.Norm()
	if n == 0 {
		return 90
	}

	cosGamma := dir.Dot(zenith) / n
	if cosGamma > 1 {
		cosGamma = 1
	} else if cosGamma < -1 {
		cosGamma = -1
	}
	gammaDeg := math.Acos(cosGamma) * 180.0 / math.Pi

	// Elevation is measured from local horizon (90° − zenith angle).
	return 90.0 - gammaDeg
}
