package core

import "math"

// Narrow-phase search bounds. The bisection gives up after the iteration
// budget or once the candidate distance is within the tolerance of the
// contact distance; exhausting the budget is reported as no collision,
// an accepted approximation at finite precision.
const (
	bisectionMaxIterations = 100
	bisectionTolerance     = 0.001
)

// Impact records one detected collision: the instant within the tick at
// which the pair first touches.
type Impact struct {
	T    float64
	A, B Object
}

// DetectCollisions runs the two-phase detector over a registry snapshot
// for the interval [0, dt]. Only pairs sharing a domain are considered.
// The broad phase prunes on the closed-form distance between the swept
// motion segments; survivors go through the narrow-phase bisection.
// It returns the impacts found and the number of broad-phase survivors.
//
// Impacts are appended in pair-enumeration order; the caller is
// responsible for sorting by impact time.
func DetectCollisions(objs []Object, dt float64) ([]Impact, int) {
	var impacts []Impact
	candidates := 0

	for i := 0; i < len(objs); i++ {
		a := objs[i].Body()
		startA := a.Coords.Position
		endA := a.Coords.PosAfter(dt)

		for j := i + 1; j < len(objs); j++ {
			b := objs[j].Body()
			if a.Domain != b.Domain {
				continue
			}

			contact := a.Radius + b.Radius
			proximity := SegmentDistance(startA, endA, b.Coords.Position, b.Coords.PosAfter(dt))
			if proximity >= contact {
				continue
			}
			candidates++

			if t, ok := FindCollision(objs[i], objs[j], dt); ok {
				impacts = append(impacts, Impact{T: t, A: objs[i], B: objs[j]})
			}
		}
	}
	return impacts, candidates
}

// FindCollision bisects the interval [0, end] for the earliest instant
// the straight-line distance between the pair drops below the sum of
// their radii. All probing happens on detached clones; live state is
// never touched.
func FindCollision(a, b Object, end float64) (float64, bool) {
	ca := a.Body().Clone()
	cb := b.Body().Clone()
	contact := a.Body().Radius + b.Body().Radius
	return findContact(ca.Coords, cb.Coords, 0, end, contact)
}

// findContact is the bisection core. Each iteration classifies the
// window's start, midpoint, and end distances:
//   - contact at the window start: the pair is already touching, report
//     the start of the window;
//   - contact at the midpoint: narrow to the first half;
//   - contact at the end only: narrow to the second half;
//   - no contact anywhere: compare the two half-window distance deltas
//     to decide which half could hide a pass-through, or conclude the
//     pair never meets.
func findContact(ca, cb Coordinates, tMin, tMax, contact float64) (float64, bool) {
	distanceAt := func(t float64) float64 {
		return ca.PosAfter(t).DistanceTo(cb.PosAfter(t))
	}

	distMin := distanceAt(tMin)
	distMax := distanceAt(tMax)

	var result float64
	found := false
	candidate := 0.0 // distance at the best candidate so far

	for i := 0; contact-candidate > bisectionTolerance && i < bisectionMaxIterations; i++ {
		tMid := (tMin + tMax) / 2
		distMid := distanceAt(tMid)

		switch {
		case distMin < contact:
			// Touching at the start of the window.
			return tMin, true

		case distMid < contact:
			// Touching halfway through; contact is in the first half.
			result, found = tMid, true
			candidate = distMid
			tMax, distMax = tMid, distMid

		case distMax < contact:
			// Touching at the end only; contact is in the second half.
			result, found = tMax, true
			candidate = distMax
			tMin, distMin = tMid, distMid

		default:
			// Not touching at any probed point. The pair may still pass
			// through each other between probes.
			half0 := distMid - distMin
			half1 := distMax - distMid

			switch {
			case distMin < distMid && distMid < distMax:
				// Diverging, but a pass may be hiding in a half.
				switch {
				case half0 == half1:
					// Constant divergence; no pass.
					return 0, false
				case half0 > half1:
					tMin, distMin = tMid, distMid
				default:
					tMax, distMax = tMid, distMid
				}

			case distMin > distMid && distMax > distMid,
				distMin > distMid && distMid > distMax:
				// Converging, or already passed.
				switch {
				case half0 == half1:
					// Constant convergence; not touching yet.
					return 0, false
				case half0 < half1:
					tMin, distMin = tMid, distMid
				default:
					tMax, distMax = tMid, distMid
				}

			default:
				// No remaining shape can produce an impact.
				return 0, false
			}
		}
	}
	return result, found
}

// SegmentDistance returns the minimum distance between two line
// segments a0–a1 and b0–b1, clamping closest points to the segment
// endpoints. This is the broad phase's closed-form bound on how near
// two swept motions come during a tick.
func SegmentDistance(a0, a1, b0, b1 Vec3) float64 {
	segA := a1.Sub(a0)
	segB := b1.Sub(b0)
	magA := segA.Norm()
	magB := segB.Norm()

	// Degenerate sweeps (stationary bodies) reduce to point-segment
	// distance.
	if magA == 0 && magB == 0 {
		return a0.DistanceTo(b0)
	}
	if magA == 0 {
		return pointSegmentDistance(a0, b0, b1)
	}
	if magB == 0 {
		return pointSegmentDistance(b0, a0, a1)
	}

	unitA := segA.Scale(1 / magA)
	unitB := segB.Scale(1 / magB)

	cross := unitA.Cross(unitB)
	denom := cross.Dot(cross)

	if denom == 0 {
		// Parallel segments: project B's endpoints onto A's axis to see
		// whether they overlap. Without overlap the closest points are
		// endpoints; with overlap any point gives the same distance.
		d0 := unitA.Dot(b0.Sub(a0))
		d1 := unitA.Dot(b1.Sub(a0))

		if d0 <= 0 && d1 <= 0 {
			if math.Abs(d0) < math.Abs(d1) {
				return a0.DistanceTo(b0)
			}
			return a0.DistanceTo(b1)
		}
		if d0 >= magA && d1 >= magA {
			if math.Abs(d0) < math.Abs(d1) {
				return a1.DistanceTo(b0)
			}
			return a1.DistanceTo(b1)
		}
		return a0.Add(unitA.Scale(d0)).DistanceTo(b0)
	}

	// Skew lines: solve for the closest points on the infinite lines,
	// then clamp both parameters back onto the segments.
	t := b0.Sub(a0)
	detA := t.Dot(unitB.Cross(cross))
	detB := t.Dot(unitA.Cross(cross))

	t0 := detA / denom
	t1 := detB / denom

	pA := a0.Add(unitA.Scale(t0))
	pB := b0.Add(unitB.Scale(t1))

	if t0 < 0 {
		pA = a0
	} else if t0 > magA {
		pA = a1
	}
	if t1 < 0 {
		pB = b0
	} else if t1 > magB {
		pB = b1
	}

	if t0 < 0 || t0 > magA {
		dot := unitB.Dot(pA.Sub(b0))
		if dot < 0 {
			dot = 0
		} else if dot > magB {
			dot = magB
		}
		pB = b0.Add(unitB.Scale(dot))
	}
	if t1 < 0 || t1 > magB {
		dot := unitA.Dot(pB.Sub(a0))
		if dot < 0 {
			dot = 0
		} else if dot > magA {
			dot = magA
		}
		pA = a0.Add(unitA.Scale(dot))
	}

	return pA.DistanceTo(pB)
}

// pointSegmentDistance returns the distance from p to the closest point
// on the segment s0–s1.
func pointSegmentDistance(p, s0, s1 Vec3) float64 {
	seg := s1.Sub(s0)
	length2 := seg.Dot(seg)
	if length2 == 0 {
		return p.DistanceTo(s0)
	}
	t := p.Sub(s0).Dot(seg) / length2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.DistanceTo(s0.Add(seg.Scale(t)))
}
