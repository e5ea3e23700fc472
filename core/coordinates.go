package core

// Coordinates bundles the kinematic state of one tracked body: canonical
// cartesian position and velocity, plus the facing orientation. The
// cylindrical and spherical forms are derived on demand, never stored.
//
// Heading (where the body faces) and course (where it travels) are
// independent: a ship can drift sideways.
type Coordinates struct {
	Position Vec3
	Velocity Vec3
	Heading  Direction
}

// Speed returns the magnitude of the velocity.
func (c Coordinates) Speed() float64 { return c.Velocity.Norm() }

// Course returns the direction of travel. A body at rest reports the
// zero direction.
func (c Coordinates) Course() Direction {
	return ToSpherical(c.Velocity).Direction()
}

// PosAfter projects the position after the given seconds of unaccelerated
// motion. It does not mutate the coordinates.
func (c Coordinates) PosAfter(seconds float64) Vec3 {
	return c.Position.Add(c.Velocity.Scale(seconds))
}

// AddVelocity applies a change in velocity.
func (c *Coordinates) AddVelocity(dv Vec3) {
	c.Velocity = c.Velocity.Add(dv)
}

// advance moves the position along the velocity for the given seconds.
// Only the progression loop advances time; nothing else may call this.
func (c *Coordinates) advance(seconds float64) {
	c.Position = c.PosAfter(seconds)
}

// SphericalPosition returns the spherical view of the position.
func (c Coordinates) SphericalPosition() Spherical { return ToSpherical(c.Position) }

// CylindricalPosition returns the cylindrical view of the position.
func (c Coordinates) CylindricalPosition() Cylindrical { return ToCylindrical(c.Position) }

// Bearing returns the spherical coordinates of b's position relative to
// a: the offset vector re-expressed as rho/theta/phi. Used by scan and
// telemetry layers; the collision detector has no need for it.
func Bearing(a, b Coordinates) Spherical {
	return ToSpherical(b.Position.Sub(a.Position))
}
