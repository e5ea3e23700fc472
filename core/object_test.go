package core

import (
	"errors"
	"testing"
)

func TestNewBodyValidation(t *testing.T) {
	if _, err := NewBody(0, 0, 0, -1, 10, "sol", false); !errors.Is(err, ErrNegativeRadius) {
		t.Fatalf("negative radius error = %v, want ErrNegativeRadius", err)
	}
	if _, err := NewBody(0, 0, 0, 1, 0, "sol", false); !errors.Is(err, ErrNonPositiveMass) {
		t.Fatalf("zero mass error = %v, want ErrNonPositiveMass", err)
	}
	if _, err := NewBody(0, 0, 0, 0, 1, "sol", false); err != nil {
		t.Fatalf("zero radius should be allowed, got %v", err)
	}
}

func TestImpulseChangesMomentum(t *testing.T) {
	b, err := NewBody(0, 0, 0, 1, 4, "sol", false)
	if err != nil {
		t.Fatalf("NewBody: %v", err)
	}

	b.Impulse(Vec3{X: 8})
	if got := b.Coords.Velocity; !vecsClose(got, Vec3{X: 2}, 1e-9) {
		t.Fatalf("velocity after impulse = %v, want {2 0 0}", got)
	}
	if got := b.Momentum(); !vecsClose(got, Vec3{X: 8}, 1e-9) {
		t.Fatalf("momentum = %v, want {8 0 0}", got)
	}
}

func TestCloneIsDetached(t *testing.T) {
	ship, err := NewShip(1, 2, 3, 1, 100, "sol")
	if err != nil {
		t.Fatalf("NewShip: %v", err)
	}
	ship.Body().Coords.Velocity = Vec3{X: 5}

	clone := ship.Body().Clone()
	if !clone.Private() {
		t.Fatalf("clone must be private")
	}
	clone.Coords.Position = Vec3{X: 999}
	clone.Coords.Velocity = Vec3{}

	if got := ship.Body().Coords.Position; got != (Vec3{X: 1, Y: 2, Z: 3}) {
		t.Fatalf("clone mutation leaked into original position: %v", got)
	}
	if got := ship.Body().Coords.Velocity; got != (Vec3{X: 5}) {
		t.Fatalf("clone mutation leaked into original velocity: %v", got)
	}
	if clone.ID() != ship.Body().ID() {
		t.Fatalf("clone should keep the original identity")
	}
}

func TestShipDamageDestroysAtZero(t *testing.T) {
	ship, err := NewShip(0, 0, 0, 1, 100, "sol")
	if err != nil {
		t.Fatalf("NewShip: %v", err)
	}

	ship.Damage(40)
	if ship.Hull != 60 {
		t.Fatalf("Hull = %v, want 60", ship.Hull)
	}
	if ship.Body().Destroyed() {
		t.Fatalf("ship destroyed with hull remaining")
	}

	ship.Damage(60)
	if !ship.Body().Destroyed() {
		t.Fatalf("ship should be destroyed at zero hull")
	}
}

func TestSlugCollisionTransfersKineticEnergy(t *testing.T) {
	slug, err := NewSlug(0, 0, 0, 0.1, 2, "sol")
	if err != nil {
		t.Fatalf("NewSlug: %v", err)
	}
	ship, err := NewShip(1, 0, 0, 1, 1000, "sol")
	if err != nil {
		t.Fatalf("NewShip: %v", err)
	}
	// Relative speed 4 at the moment of impact: E = 2 * 16 / 2 = 16.
	slug.Body().Coords.Velocity = Vec3{X: 4}

	slug.OnCollide(ship)
	if !almostEqual(ship.Hull, 84, 1e-9) {
		t.Fatalf("Hull after slug hit = %v, want 84", ship.Hull)
	}
	if !slug.Body().Destroyed() {
		t.Fatalf("slug should be spent on impact")
	}
}

func TestOrdnanceYields(t *testing.T) {
	cases := []struct {
		name  string
		make  func() (Object, error)
		yield float64
	}{
		{"missile", func() (Object, error) { return NewMissile(0, 0, 0, 1, 10, "sol") }, 60},
		{"torpedo", func() (Object, error) { return NewTorpedo(0, 0, 0, 1, 10, "sol") }, 90},
		{"mine", func() (Object, error) { return NewMine(0, 0, 0, 1, 10, "sol") }, 120},
	}
	for _, tc := range cases {
		weapon, err := tc.make()
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		ship, err := NewShip(5, 0, 0, 1, 1000, "sol")
		if err != nil {
			t.Fatalf("NewShip: %v", err)
		}

		weapon.OnCollide(ship)
		if got := 100 - ship.Hull; !almostEqual(got, tc.yield, 1e-9) {
			t.Fatalf("%s damage = %v, want %v", tc.name, got, tc.yield)
		}
		if !weapon.Body().Destroyed() {
			t.Fatalf("%s should be spent on detonation", tc.name)
		}
	}
}
