package core

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Davarice/Astronautica/model"
)

// Validation failures raised while constructing objects.
var (
	ErrNegativeRadius  = errors.New("radius must not be negative")
	ErrNonPositiveMass = errors.New("mass must be greater than zero")
)

// Default visibility ranges per variant, in arbitrary scan units. A
// missile under thrust is far easier to spot than a drifting mine.
const (
	VisibilityShip    = 5.0
	VisibilityMissile = 12.0
	VisibilityTorpedo = 8.0
	VisibilityMine    = 3.0
	VisibilitySlug    = 1.0
)

// Object is anything tracked in a Space: geometry, kinematics, and a
// polymorphic reaction to collisions. Variants wrap a Body and override
// OnCollide for type-specific side effects.
type Object interface {
	// Body exposes the shared geometry and kinematic state.
	Body() *Body
	// Tag is the stable type tag used by serialization.
	Tag() string
	// OnCollide is invoked after the impulse of a collision has been
	// applied to both parties. The default is a no-op.
	OnCollide(other Object)
}

// Damageable is implemented by objects that can take collision damage.
type Damageable interface {
	Damage(amount float64)
}

// Body carries the state every spatial object shares. Velocity changes
// only through Impulse; position changes only through time progression.
type Body struct {
	id         uuid.UUID
	Radius     float64
	Mass       float64
	Coords     Coordinates
	Domain     string
	Visibility float64

	// Scans caches serialized telemetry of other objects, carried
	// through serialization and optionally discarded on reload.
	Scans []*model.ObjectRecord

	private   bool
	destroyed bool
}

// NewBody validates and constructs the shared state of an object. A
// private body never joins a registry; it exists for what-if projection.
func NewBody(x, y, z, radius, mass float64, domain string, private bool) (*Body, error) {
	if radius < 0 {
		return nil, fmt.Errorf("new body: %w (got %v)", ErrNegativeRadius, radius)
	}
	if mass <= 0 {
		return nil, fmt.Errorf("new body: %w (got %v)", ErrNonPositiveMass, mass)
	}
	return &Body{
		id:         uuid.New(),
		Radius:     radius,
		Mass:       mass,
		Coords:     Coordinates{Position: Vec3{X: x, Y: y, Z: z}},
		Domain:     domain,
		Visibility: VisibilityShip,
		private:    private,
	}, nil
}

// ID returns the body's registry identity.
func (b *Body) ID() uuid.UUID { return b.id }

// Private reports whether the body is barred from registry membership.
func (b *Body) Private() bool { return b.private }

// Destroyed reports whether the object should be pruned at the next
// tick boundary.
func (b *Body) Destroyed() bool { return b.destroyed }

// Destroy marks the object for pruning. Pruning itself happens only at
// tick boundaries so an in-flight scan is never corrupted.
func (b *Body) Destroy() { b.destroyed = true }

// Momentum returns p = mv.
func (b *Body) Momentum() Vec3 {
	return b.Coords.Velocity.Scale(b.Mass)
}

// Impulse applies a change in momentum: Δv = Δp / m. Mass is positive
// by construction.
func (b *Body) Impulse(dp Vec3) {
	b.Coords.AddVelocity(dp.Scale(1 / b.Mass))
}

// Clone returns a detached copy sharing no registry membership: same
// radius, mass, and a copy of the Coordinates value. The detector probes
// hypothetical futures on clones so live state is never touched.
func (b *Body) Clone() *Body {
	c := *b
	c.private = true
	c.Scans = nil
	return &c
}

// Ship is a crewed vessel with a hull that soaks collision damage.
type Ship struct {
	body Body
	Hull float64
}

// NewShip constructs a ship with full hull integrity.
func NewShip(x, y, z, radius, mass float64, domain string) (*Ship, error) {
	b, err := NewBody(x, y, z, radius, mass, domain, false)
	if err != nil {
		return nil, err
	}
	return &Ship{body: *b, Hull: 100}, nil
}

func (s *Ship) Body() *Body { return &s.body }

func (s *Ship) Tag() string { return "Ship" }

// OnCollide on a bare hull has no special effect; the impulse exchange
// already happened.
func (s *Ship) OnCollide(other Object) {}

// Damage reduces hull integrity, destroying the ship at zero.
func (s *Ship) Damage(amount float64) {
	s.Hull -= amount
	if s.Hull <= 0 {
		s.body.Destroy()
	}
}

// Slug is an inert kinetic projectile. Its damage is purely the kinetic
// energy of the relative motion at impact.
type Slug struct {
	body Body
}

func NewSlug(x, y, z, radius, mass float64, domain string) (*Slug, error) {
	b, err := NewBody(x, y, z, radius, mass, domain, false)
	if err != nil {
		return nil, err
	}
	b.Visibility = VisibilitySlug
	return &Slug{body: *b}, nil
}

func (s *Slug) Body() *Body { return &s.body }

func (s *Slug) Tag() string { return "Slug" }

// OnCollide transfers kinetic energy: E = m * |Δv|² / 2, computed from
// the post-impulse relative velocity.
func (s *Slug) OnCollide(other Object) {
	if d, ok := other.(Damageable); ok {
		dv := other.Body().Coords.Velocity.Sub(s.body.Coords.Velocity).Norm()
		d.Damage(s.body.Mass * dv * dv / 2)
	}
	s.body.Destroy()
}

// ordnance is the shared warhead behaviour of missiles, torpedoes, and
// mines: detonate on contact, spend the weapon.
type ordnance struct {
	body  Body
	Yield float64
}

func (o *ordnance) detonate(other Object) {
	if d, ok := other.(Damageable); ok {
		d.Damage(o.Yield)
	}
	o.body.Destroy()
}

// Missile is a guided warhead on a thruster.
type Missile struct {
	ordnance
}

func NewMissile(x, y, z, radius, mass float64, domain string) (*Missile, error) {
	b, err := NewBody(x, y, z, radius, mass, domain, false)
	if err != nil {
		return nil, err
	}
	b.Visibility = VisibilityMissile
	return &Missile{ordnance{body: *b, Yield: 60}}, nil
}

func (m *Missile) Body() *Body { return &m.ordnance.body }

func (m *Missile) Tag() string { return "Missile" }

func (m *Missile) OnCollide(other Object) { m.detonate(other) }

// Torpedo is a heavier unguided warhead.
type Torpedo struct {
	ordnance
}

func NewTorpedo(x, y, z, radius, mass float64, domain string) (*Torpedo, error) {
	b, err := NewBody(x, y, z, radius, mass, domain, false)
	if err != nil {
		return nil, err
	}
	b.Visibility = VisibilityTorpedo
	return &Torpedo{ordnance{body: *b, Yield: 90}}, nil
}

func (t *Torpedo) Body() *Body { return &t.ordnance.body }

func (t *Torpedo) Tag() string { return "Torpedo" }

func (t *Torpedo) OnCollide(other Object) { t.detonate(other) }

// Mine is a warhead left adrift waiting for something to hit it.
type Mine struct {
	ordnance
}

func NewMine(x, y, z, radius, mass float64, domain string) (*Mine, error) {
	b, err := NewBody(x, y, z, radius, mass, domain, false)
	if err != nil {
		return nil, err
	}
	b.Visibility = VisibilityMine
	return &Mine{ordnance{body: *b, Yield: 120}}, nil
}

func (m *Mine) Body() *Body { return &m.ordnance.body }

func (m *Mine) Tag() string { return "Mine" }

func (m *Mine) OnCollide(other Object) { m.detonate(other) }
