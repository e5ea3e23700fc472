package core

import (
	"errors"
	"fmt"

	"github.com/Davarice/Astronautica/model"
)

// ErrUnknownType is returned when a record carries a type tag no
// constructor has been registered for. The caller decides whether to
// skip the record or abort a batch load.
var ErrUnknownType = errors.New("unknown object type tag")

// BuildFunc reconstructs a concrete object variant from its record.
type BuildFunc func(rec *model.ObjectRecord) (Object, error)

// TypeRegistry maps serialization type tags to constructors. Tags are
// resolved through this explicit table, never through reflection or
// dynamic evaluation.
type TypeRegistry struct {
	builders map[string]BuildFunc
}

// NewTypeRegistry returns a registry pre-populated with the built-in
// variant set.
func NewTypeRegistry() *TypeRegistry {
	r := &TypeRegistry{builders: make(map[string]BuildFunc)}
	r.Register("Ship", func(rec *model.ObjectRecord) (Object, error) {
		s, err := NewShip(0, 0, 0, rec.Radius, rec.Mass, rec.Coords.Domain)
		if err != nil {
			return nil, err
		}
		if rec.Hull != 0 {
			s.Hull = rec.Hull
		}
		return s, nil
	})
	r.Register("Slug", func(rec *model.ObjectRecord) (Object, error) {
		return NewSlug(0, 0, 0, rec.Radius, rec.Mass, rec.Coords.Domain)
	})
	r.Register("Missile", func(rec *model.ObjectRecord) (Object, error) {
		return NewMissile(0, 0, 0, rec.Radius, rec.Mass, rec.Coords.Domain)
	})
	r.Register("Torpedo", func(rec *model.ObjectRecord) (Object, error) {
		return NewTorpedo(0, 0, 0, rec.Radius, rec.Mass, rec.Coords.Domain)
	})
	r.Register("Mine", func(rec *model.ObjectRecord) (Object, error) {
		return NewMine(0, 0, 0, rec.Radius, rec.Mass, rec.Coords.Domain)
	})
	return r
}

// Register installs (or replaces) the constructor for a tag.
func (r *TypeRegistry) Register(tag string, fn BuildFunc) {
	r.builders[tag] = fn
}

// Reconstruct rebuilds an object from its record. Radius, mass, and
// Coordinates are restored exactly. Cached scan telemetry is discarded
// unless keepScans is set.
func (r *TypeRegistry) Reconstruct(rec *model.ObjectRecord, keepScans bool) (Object, error) {
	build, ok := r.builders[rec.Type]
	if !ok {
		return nil, fmt.Errorf("reconstruct: %w: %q", ErrUnknownType, rec.Type)
	}
	obj, err := build(rec)
	if err != nil {
		return nil, fmt.Errorf("reconstruct %q: %w", rec.Type, err)
	}

	b := obj.Body()
	b.Coords = coordsFromRecord(rec.Coords)
	if keepScans && len(rec.Scans) > 0 {
		b.Scans = append([]*model.ObjectRecord(nil), rec.Scans...)
	}
	return obj, nil
}

// SerializeObject flattens an object into its wire record: type tag,
// radius, mass, and the full kinematic frame, plus any cached scans.
func SerializeObject(obj Object) *model.ObjectRecord {
	b := obj.Body()
	rec := &model.ObjectRecord{
		Type:   obj.Tag(),
		Radius: b.Radius,
		Mass:   b.Mass,
		Coords: coordsToRecord(b),
	}
	if s, ok := obj.(*Ship); ok {
		rec.Hull = s.Hull
	}
	if len(b.Scans) > 0 {
		rec.Scans = append([]*model.ObjectRecord(nil), b.Scans...)
	}
	return rec
}

func coordsToRecord(b *Body) model.CoordsRecord {
	c := b.Coords
	course := c.Course()
	return model.CoordsRecord{
		Pos:     [3]float64{c.Position.X, c.Position.Y, c.Position.Z},
		Vel:     [3]float64{c.Velocity.X, c.Velocity.Y, c.Velocity.Z},
		Heading: [2]float64{c.Heading.Theta, c.Heading.Phi},
		Course:  [2]float64{course.Theta, course.Phi},
		Domain:  b.Domain,
	}
}

func coordsFromRecord(rec model.CoordsRecord) Coordinates {
	return Coordinates{
		Position: Vec3{X: rec.Pos[0], Y: rec.Pos[1], Z: rec.Pos[2]},
		Velocity: Vec3{X: rec.Vel[0], Y: rec.Vel[1], Z: rec.Vel[2]},
		Heading:  Direction{Theta: rec.Heading[0], Phi: rec.Heading[1]},
	}
}

// Serialize flattens the whole world: every live object, the attached
// gravitational hierarchies, and the optimistic-concurrency stamp the
// persistence layer checks on save.
func (st *Spacetime) Serialize() *model.WorldRecord {
	rec := &model.WorldRecord{Updated: st.Updated()}
	for _, obj := range st.space.Snapshot() {
		rec.Objects = append(rec.Objects, SerializeObject(obj))
	}
	for _, sys := range st.Systems() {
		rec.Systems = append(rec.Systems, sys.SerializeNode())
	}
	return rec
}

// LoadWorld rebuilds a Spacetime from a serialized world. A record with
// an unregistered type tag fails the whole load.
func LoadWorld(rec *model.WorldRecord, reg *TypeRegistry, keepScans bool) (*Spacetime, error) {
	space := NewSpace()
	for i, orec := range rec.Objects {
		obj, err := reg.Reconstruct(orec, keepScans)
		if err != nil {
			return nil, fmt.Errorf("load world: object %d: %w", i, err)
		}
		if err := space.Add(obj); err != nil {
			return nil, fmt.Errorf("load world: object %d: %w", i, err)
		}
	}
	st := NewSpacetime(space)
	for i, srec := range rec.Systems {
		sys, err := ReconstructNode(srec, reg, keepScans)
		if err != nil {
			return nil, fmt.Errorf("load world: system %d: %w", i, err)
		}
		st.AttachSystem(sys)
	}
	st.RestoreUpdated(rec.Updated)
	return st, nil
}
