package core

// DefaultRestitution is the restitution coefficient applied when a
// Resolver is constructed without an explicit value: mostly inelastic,
// with some bounce.
const DefaultRestitution = 0.6

// Resolver turns a contacting pair into velocity updates by exchanging
// an impulse along the collision normal. It performs no positional
// separation: post-collision interpenetration is tolerated and clears
// on subsequent ticks.
type Resolver struct {
	// Restitution is the coefficient e: 0 perfectly inelastic, 1
	// perfectly elastic.
	Restitution float64
}

// NewResolver constructs a Resolver with the default restitution.
func NewResolver() *Resolver {
	return &Resolver{Restitution: DefaultRestitution}
}

// Resolve applies the collision impulse to both bodies, then invokes
// the OnCollide hooks, A first, strictly after both velocity updates
// have been committed.
//
//	J = -(1+e) · ((vA - vB) · n) / (1/mA + 1/mB)
//
// where n is the unit vector from A's position to B's. J is negative
// for an approaching pair, so A receives J·n (pushing it back along -n)
// and B receives -J·n.
func (r *Resolver) Resolve(a, b Object) {
	ba := a.Body()
	bb := b.Body()

	n := bb.Coords.Position.Sub(ba.Coords.Position).Normalize()
	if n == (Vec3{}) {
		// Coincident centres give no normal to exchange momentum
		// along; leave the pair untouched.
		return
	}

	relVel := ba.Coords.Velocity.Sub(bb.Coords.Velocity)
	j := -(1 + r.Restitution) * relVel.Dot(n) / (1/ba.Mass + 1/bb.Mass)
	impulse := n.Scale(j)

	ba.Impulse(impulse)
	bb.Impulse(impulse.Scale(-1))

	a.OnCollide(b)
	b.OnCollide(a)
}
