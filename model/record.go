package model

import "time"

// CoordsRecord is the wire form of a kinematic frame. Position and
// velocity are cartesian triples; heading and course are angular pairs
// (elevation, azimuth) in degrees. Course is derived from the velocity
// and carried for the benefit of telemetry consumers.
type CoordsRecord struct {
	Pos     [3]float64 `json:"pos"`
	Vel     [3]float64 `json:"vel"`
	Heading [2]float64 `json:"heading"`
	Course  [2]float64 `json:"course"`
	Domain  string     `json:"domain,omitempty"`
}

// ObjectRecord is the wire form of one tracked spatial object. Type is
// the tag the reconstruction registry resolves to a concrete variant.
// Scans holds cached telemetry of other objects and is discarded on
// reconstruction unless explicitly retained.
type ObjectRecord struct {
	Type   string          `json:"type"`
	Radius float64         `json:"radius"`
	Mass   float64         `json:"mass"`
	Coords CoordsRecord    `json:"coords"`
	Hull   float64         `json:"hull,omitempty"`
	Scans  []*ObjectRecord `json:"scans,omitempty"`
}

// NodeRecord is the recursive wire form of the gravitational hierarchy.
// A leaf carries an ObjectRecord; aggregates carry their children, which
// are reconstructed before the wrapper.
type NodeRecord struct {
	Type   string        `json:"type"`
	Object *ObjectRecord `json:"object,omitempty"`
	Master *NodeRecord   `json:"master,omitempty"`
	Slave  *NodeRecord   `json:"slave,omitempty"`
	Slaves []*NodeRecord `json:"slaves,omitempty"`
	Bodies []*NodeRecord `json:"bodies,omitempty"`
}

// WorldRecord is a full serialized world. Updated is the optimistic
// concurrency stamp checked by the persistence layer on save.
type WorldRecord struct {
	Updated time.Time       `json:"updated"`
	Objects []*ObjectRecord `json:"objects"`
	Systems []*NodeRecord   `json:"systems,omitempty"`
}
