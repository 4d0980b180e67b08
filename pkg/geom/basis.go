package geom

// FaceBasis is the local frame of a planar face: an origin and two axes
// spanning the face plane. Normal is expected to equal U×V (normalized);
// callers constructing a basis by hand should check Valid before use.
type FaceBasis struct {
	Origin Vec3 `json:"origin"`
	U      Vec3 `json:"uAxis"`
	V      Vec3 `json:"vAxis"`
	Normal Vec3 `json:"normal"`
}

// NewFaceBasis derives the normal from u and v.
func NewFaceBasis(origin, u, v Vec3) FaceBasis {
	return FaceBasis{
		Origin: origin,
		U:      u.Normalize(),
		V:      v.Normalize(),
		Normal: u.Cross(v).Normalize(),
	}
}

// Valid reports whether the basis spans a real plane. A degenerate
// basis (zero or parallel axes) yields a near-zero normal.
func (b FaceBasis) Valid() bool {
	return b.U.Cross(b.V).Length() > 1e-9
}

// Project maps a world point into the face's 2D plane coordinates.
func (b FaceBasis) Project(p Vec3) Vec2 {
	d := p.Sub(b.Origin)
	return Vec2{d.Dot(b.U), d.Dot(b.V)}
}

// Unproject maps plane coordinates back to a world point.
func (b FaceBasis) Unproject(p Vec2) Vec3 {
	return b.Origin.Add(b.U.Scale(p.X)).Add(b.V.Scale(p.Y))
}

// Rotation returns the quaternion carrying the standard axes onto
// (U, V, Normal).
func (b FaceBasis) Rotation() Quat {
	return QuatFromBasis(b.U, b.V, b.Normal)
}
