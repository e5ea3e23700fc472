package core

import (
	"errors"
	"fmt"

	"github.com/Davarice/Astronautica/model"
)

// Validation failures raised while assembling gravitational structures.
var (
	ErrSystemMaster       = errors.New("a system requires a master body")
	ErrMultiSystemMembers = errors.New("a multi system requires at least two members")
)

// Node is a member of the gravitational hierarchy: either a tracked
// body or a nested aggregate. The hierarchy exists for mass bookkeeping
// and serialization only; it plays no part in the tick loop.
type Node interface {
	TotalMass() float64
	SerializeNode() *model.NodeRecord
}

// BodyNode adapts a spatial object into the hierarchy as a leaf.
type BodyNode struct {
	Obj Object
}

func (n BodyNode) TotalMass() float64 { return n.Obj.Body().Mass }

func (n BodyNode) SerializeNode() *model.NodeRecord {
	return &model.NodeRecord{Type: n.Obj.Tag(), Object: SerializeObject(n.Obj)}
}

// Orbit pairs a dominant body with a dependent one.
type Orbit struct {
	Master Node
	Slave  Node
}

func (o *Orbit) TotalMass() float64 {
	return o.Master.TotalMass() + o.Slave.TotalMass()
}

func (o *Orbit) SerializeNode() *model.NodeRecord {
	return &model.NodeRecord{
		Type:   "Orbit",
		Master: o.Master.SerializeNode(),
		Slave:  o.Slave.SerializeNode(),
	}
}

// System is a gravitational aggregate with a clear master, typically a
// planetary system around a single star. Mass and reference frame
// derive from the master.
type System struct {
	Master Node
	Slaves []Node
}

// NewSystem requires at least a master.
func NewSystem(master Node, slaves ...Node) (*System, error) {
	if master == nil {
		return nil, ErrSystemMaster
	}
	return &System{Master: master, Slaves: slaves}, nil
}

// TotalMass is the master's mass plus the sum of the slaves'.
func (s *System) TotalMass() float64 {
	total := s.Master.TotalMass()
	for _, slave := range s.Slaves {
		total += slave.TotalMass()
	}
	return total
}

func (s *System) SerializeNode() *model.NodeRecord {
	rec := &model.NodeRecord{
		Type:   "System",
		Master: s.Master.SerializeNode(),
	}
	for _, slave := range s.Slaves {
		rec.Slaves = append(rec.Slaves, slave.SerializeNode())
	}
	return rec
}

// MultiSystem aggregates two or more peers with no privileged member,
// typically stars near each other.
type MultiSystem struct {
	Bodies []Node
}

// NewMultiSystem requires at least two members.
func NewMultiSystem(bodies ...Node) (*MultiSystem, error) {
	if len(bodies) < 2 {
		return nil, fmt.Errorf("%w (got %d)", ErrMultiSystemMembers, len(bodies))
	}
	return &MultiSystem{Bodies: bodies}, nil
}

// TotalMass is the sum across all members.
func (m *MultiSystem) TotalMass() float64 {
	total := 0.0
	for _, body := range m.Bodies {
		total += body.TotalMass()
	}
	return total
}

func (m *MultiSystem) SerializeNode() *model.NodeRecord {
	rec := &model.NodeRecord{Type: "MultiSystem"}
	for _, body := range m.Bodies {
		rec.Bodies = append(rec.Bodies, body.SerializeNode())
	}
	return rec
}

// ReconstructNode rebuilds a gravitational hierarchy from its record,
// children first, then the wrapper. Leaf records resolve their type tag
// through the object registry.
func ReconstructNode(rec *model.NodeRecord, reg *TypeRegistry, keepScans bool) (Node, error) {
	switch rec.Type {
	case "Orbit":
		master, err := ReconstructNode(rec.Master, reg, keepScans)
		if err != nil {
			return nil, err
		}
		slave, err := ReconstructNode(rec.Slave, reg, keepScans)
		if err != nil {
			return nil, err
		}
		return &Orbit{Master: master, Slave: slave}, nil

	case "System":
		master, err := ReconstructNode(rec.Master, reg, keepScans)
		if err != nil {
			return nil, err
		}
		slaves := make([]Node, 0, len(rec.Slaves))
		for _, sub := range rec.Slaves {
			slave, err := ReconstructNode(sub, reg, keepScans)
			if err != nil {
				return nil, err
			}
			slaves = append(slaves, slave)
		}
		return NewSystem(master, slaves...)

	case "MultiSystem":
		bodies := make([]Node, 0, len(rec.Bodies))
		for _, sub := range rec.Bodies {
			body, err := ReconstructNode(sub, reg, keepScans)
			if err != nil {
				return nil, err
			}
			bodies = append(bodies, body)
		}
		return NewMultiSystem(bodies...)

	default:
		if rec.Object == nil {
			return nil, fmt.Errorf("reconstruct node: %w: %q", ErrUnknownType, rec.Type)
		}
		obj, err := reg.Reconstruct(rec.Object, keepScans)
		if err != nil {
			return nil, err
		}
		return BodyNode{Obj: obj}, nil
	}
}
