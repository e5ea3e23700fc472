package core

import "testing"

func TestCoordinatesSpeedAndCourse(t *testing.T) {
	c := Coordinates{Velocity: Vec3{X: 3, Z: 4}}
	if got := c.Speed(); !almostEqual(got, 5, 1e-9) {
		t.Fatalf("Speed() = %v, want 5", got)
	}

	course := c.Course()
	if !almostEqual(course.Theta, 0, 1e-9) {
		t.Fatalf("Course().Theta = %v, want 0", course.Theta)
	}
	// atan2(3, 4) east of north.
	if !almostEqual(course.Phi, 36.8699, 1e-3) {
		t.Fatalf("Course().Phi = %v, want ~36.87", course.Phi)
	}
}

func TestCourseAtRestIsZero(t *testing.T) {
	c := Coordinates{Position: Vec3{X: 9, Y: 9, Z: 9}}
	if got := c.Course(); got != (Direction{}) {
		t.Fatalf("Course() of a body at rest = %+v, want zero", got)
	}
}

func TestPosAfterDoesNotMutate(t *testing.T) {
	c := Coordinates{Position: Vec3{X: 1}, Velocity: Vec3{X: 2, Y: -1}}

	got := c.PosAfter(3)
	want := Vec3{X: 7, Y: -3}
	if !vecsClose(got, want, 1e-9) {
		t.Fatalf("PosAfter(3) = %v, want %v", got, want)
	}
	if c.Position != (Vec3{X: 1}) {
		t.Fatalf("PosAfter mutated position: %v", c.Position)
	}
}

func TestBearing(t *testing.T) {
	a := Coordinates{Position: Vec3{X: 1, Y: 1, Z: 1}}
	b := Coordinates{Position: Vec3{X: 1, Y: 1, Z: 11}}

	got := Bearing(a, b)
	if !almostEqual(got.Rho, 10, 1e-9) || !almostEqual(got.Theta, 0, 1e-9) || !almostEqual(got.Phi, 0, 1e-9) {
		t.Fatalf("Bearing = %+v, want rho=10 theta=0 phi=0", got)
	}

	// Reversed, the target sits due south.
	back := Bearing(b, a)
	if !almostEqual(back.Phi, 180, 1e-9) {
		t.Fatalf("reverse Bearing phi = %v, want 180", back.Phi)
	}
}
