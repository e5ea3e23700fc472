package core

import (
	"math"
	"testing"
)

// Head-on pair: gap of 20 closing at 2 per second with combined radius
// 2 touches at t = 9.
func headOnPair(t *testing.T) (*Ship, *Ship) {
	t.Helper()
	a := mustShip(t, -10, "sol")
	a.Body().Coords.Velocity = Vec3{X: 1}
	b := mustShip(t, 10, "sol")
	b.Body().Coords.Velocity = Vec3{X: -1}
	return a, b
}

func TestFindCollisionHeadOn(t *testing.T) {
	a, b := headOnPair(t)

	got, ok := FindCollision(a, b, 20)
	if !ok {
		t.Fatalf("expected a collision")
	}
	if !almostEqual(got, 9, 0.01) {
		t.Fatalf("impact time = %v, want ~9", got)
	}

	// Probing must not touch live state.
	if a.Body().Coords.Position != (Vec3{X: -10}) {
		t.Fatalf("detection moved a live body: %v", a.Body().Coords.Position)
	}
}

func TestFindCollisionTooShortWindow(t *testing.T) {
	a, b := headOnPair(t)
	if _, ok := FindCollision(a, b, 5); ok {
		t.Fatalf("pair cannot touch within 5 seconds")
	}
}

func TestFindCollisionDiverging(t *testing.T) {
	a, b := headOnPair(t)
	a.Body().Coords.Velocity = Vec3{X: -1}
	b.Body().Coords.Velocity = Vec3{X: 1}
	if _, ok := FindCollision(a, b, 20); ok {
		t.Fatalf("diverging pair must not collide")
	}
}

func TestDetectCollisionsHeadOn(t *testing.T) {
	a, b := headOnPair(t)

	impacts, candidates := DetectCollisions([]Object{a, b}, 20)
	if candidates != 1 {
		t.Fatalf("candidates = %d, want 1", candidates)
	}
	if len(impacts) != 1 {
		t.Fatalf("impacts = %d, want 1", len(impacts))
	}
	if impacts[0].A != Object(a) || impacts[0].B != Object(b) {
		t.Fatalf("impact pair mismatch")
	}
}

func TestDetectCollisionsIgnoresOtherDomains(t *testing.T) {
	a, _ := headOnPair(t)
	b := mustShip(t, 10, "alpha-centauri")
	b.Body().Coords.Velocity = Vec3{X: -1}

	impacts, candidates := DetectCollisions([]Object{a, b}, 20)
	if candidates != 0 || len(impacts) != 0 {
		t.Fatalf("cross-domain pair produced candidates=%d impacts=%d", candidates, len(impacts))
	}
}

func TestDetectCollisionsParallelCoursesPruned(t *testing.T) {
	a := mustShip(t, -10, "sol")
	a.Body().Coords.Velocity = Vec3{X: 1}
	b, err := NewShip(-10, 0, 10, 1, 1000, "sol")
	if err != nil {
		t.Fatalf("NewShip: %v", err)
	}
	b.Body().Coords.Velocity = Vec3{X: 1}

	impacts, candidates := DetectCollisions([]Object{a, b}, 20)
	if candidates != 0 {
		t.Fatalf("broad phase should prune parallel courses, got %d candidates", candidates)
	}
	if len(impacts) != 0 {
		t.Fatalf("impacts = %d, want 0", len(impacts))
	}
}

func TestDetectCollisionsStationaryTarget(t *testing.T) {
	ship := mustShip(t, -10, "sol")
	ship.Body().Coords.Velocity = Vec3{X: 2}

	mine, err := NewMine(0, 0.5, 0, 1, 200, "sol")
	if err != nil {
		t.Fatalf("NewMine: %v", err)
	}

	impacts, candidates := DetectCollisions([]Object{ship, mine}, 10)
	if candidates != 1 {
		t.Fatalf("candidates = %d, want 1", candidates)
	}
	if len(impacts) != 1 {
		t.Fatalf("impacts = %d, want 1", len(impacts))
	}
	// sqrt((2t-10)^2 + 0.25) = 2 at t ~ 4.03.
	if !almostEqual(impacts[0].T, 4.03, 0.02) {
		t.Fatalf("impact time = %v, want ~4.03", impacts[0].T)
	}
}

func TestSegmentDistanceSkew(t *testing.T) {
	got := SegmentDistance(
		Vec3{}, Vec3{X: 10},
		Vec3{X: 5, Y: 1, Z: -5}, Vec3{X: 5, Y: 1, Z: 5},
	)
	if !almostEqual(got, 1, 1e-9) {
		t.Fatalf("skew distance = %v, want 1", got)
	}
}

func TestSegmentDistanceClampedEndpoints(t *testing.T) {
	got := SegmentDistance(
		Vec3{}, Vec3{X: 1},
		Vec3{X: 5, Z: 1}, Vec3{X: 5, Z: 2},
	)
	if want := math.Sqrt(17); !almostEqual(got, want, 1e-9) {
		t.Fatalf("clamped distance = %v, want %v", got, want)
	}
}

func TestSegmentDistanceParallel(t *testing.T) {
	got := SegmentDistance(
		Vec3{}, Vec3{X: 1},
		Vec3{X: 3, Y: 4}, Vec3{X: 5, Y: 4},
	)
	if want := math.Sqrt(20); !almostEqual(got, want, 1e-9) {
		t.Fatalf("parallel distance = %v, want %v", got, want)
	}

	// Overlapping parallel segments sit at the perpendicular offset.
	got = SegmentDistance(
		Vec3{}, Vec3{X: 10},
		Vec3{X: 2, Y: 3}, Vec3{X: 8, Y: 3},
	)
	if !almostEqual(got, 3, 1e-9) {
		t.Fatalf("overlapping parallel distance = %v, want 3", got)
	}
}

func TestSegmentDistanceDegenerate(t *testing.T) {
	// Point versus segment.
	got := SegmentDistance(
		Vec3{X: 1, Y: 1}, Vec3{X: 1, Y: 1},
		Vec3{}, Vec3{X: 10},
	)
	if !almostEqual(got, 1, 1e-9) {
		t.Fatalf("point-segment distance = %v, want 1", got)
	}

	// Point versus point.
	got = SegmentDistance(
		Vec3{}, Vec3{},
		Vec3{X: 3, Y: 4}, Vec3{X: 3, Y: 4},
	)
	if !almostEqual(got, 5, 1e-9) {
		t.Fatalf("point-point distance = %v, want 5", got)
	}
}
