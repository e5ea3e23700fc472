package core

import "math"

// Precision is the number of decimal places guaranteed to survive a
// round trip through any coordinate conversion in this package.
const Precision = 5

var roundFactor = math.Pow(10, Precision)

// Round truncates a value to the documented conversion precision.
func Round(v float64) float64 {
	return math.Round(v*roundFactor) / roundFactor
}

// DegToRad converts degrees to radians. All angles crossing the package
// boundary are degrees; radians never leak out of this file.
func DegToRad(deg float64) float64 { return deg * math.Pi / 180.0 }

// RadToDeg converts radians to degrees, rounded to Precision.
func RadToDeg(rad float64) float64 { return Round(rad * 180.0 / math.Pi) }

// NormalizeAzimuth maps an azimuth in degrees onto [0, 360).
func NormalizeAzimuth(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Vec3 is a cartesian 3-vector. Positions are metres, velocities metres
// per second.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Scale returns v multiplied by a scalar.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product v × other.
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Norm returns the Euclidean norm of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns a unit vector in the same direction, or the zero
// vector when v has no length.
func (v Vec3) Normalize() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	return v.Scale(1 / n)
}

// DistanceTo returns the straight-line distance between two points.
func (v Vec3) DistanceTo(other Vec3) float64 {
	return v.Sub(other).Norm()
}

// Direction is an angular pair in degrees: Theta is elevation above the
// x/z plane (+90 is the +y zenith, -90 the nadir), Phi is azimuth in the
// x/z plane measured from +z toward +x.
type Direction struct {
	Theta float64
	Phi   float64
}

// Cardinal directions shared with telemetry and navigation layers.
var (
	North  = Direction{Theta: 0, Phi: 0}
	East   = Direction{Theta: 0, Phi: 90}
	South  = Direction{Theta: 0, Phi: 180}
	West   = Direction{Theta: 0, Phi: 270}
	Zenith = Direction{Theta: 90, Phi: 0}
	Nadir  = Direction{Theta: -90, Phi: 0}
)

// Spherical is a derived view of a cartesian vector: radial distance,
// elevation, and azimuth (degrees, normalized on conversion).
type Spherical struct {
	Rho   float64
	Theta float64
	Phi   float64
}

// Direction drops the radial component of a spherical value.
func (s Spherical) Direction() Direction {
	return Direction{Theta: s.Theta, Phi: s.Phi}
}

// Cylindrical is a derived view of a cartesian vector: radial distance
// in the x/z plane, azimuth (degrees), and height along y.
type Cylindrical struct {
	Rho float64
	Phi float64
	Y   float64
}

// ToSpherical converts a cartesian vector to its spherical view.
// Rho is always >= 0 and angles are normalized.
func ToSpherical(v Vec3) Spherical {
	rho := v.Norm()
	if rho == 0 {
		return Spherical{}
	}
	theta := RadToDeg(math.Asin(v.Y / rho))
	phi := NormalizeAzimuth(RadToDeg(math.Atan2(v.X, v.Z)))
	return Spherical{Rho: Round(rho), Theta: theta, Phi: phi}
}

// FromSpherical is the algebraic inverse of ToSpherical, rounded to
// Precision so that conversions round-trip.
func FromSpherical(s Spherical) Vec3 {
	theta := DegToRad(s.Theta)
	phi := DegToRad(s.Phi)
	return Vec3{
		X: Round(s.Rho * math.Sin(phi) * math.Cos(theta)),
		Y: Round(s.Rho * math.Sin(theta)),
		Z: Round(s.Rho * math.Cos(phi) * math.Cos(theta)),
	}
}

// ToCylindrical converts a cartesian vector to its cylindrical view.
func ToCylindrical(v Vec3) Cylindrical {
	rho := math.Sqrt(v.X*v.X + v.Z*v.Z)
	phi := 0.0
	if rho > 0 {
		phi = NormalizeAzimuth(RadToDeg(math.Atan2(v.X, v.Z)))
	}
	return Cylindrical{Rho: Round(rho), Phi: phi, Y: Round(v.Y)}
}

// FromCylindrical is the algebraic inverse of ToCylindrical.
func FromCylindrical(c Cylindrical) Vec3 {
	phi := DegToRad(c.Phi)
	return Vec3{
		X: Round(c.Rho * math.Sin(phi)),
		Y: Round(c.Y),
		Z: Round(c.Rho * math.Cos(phi)),
	}
}

// DirectionVector returns the unit cartesian vector a Direction points
// along.
func DirectionVector(d Direction) Vec3 {
	return FromSpherical(Spherical{Rho: 1, Theta: d.Theta, Phi: d.Phi})
}
