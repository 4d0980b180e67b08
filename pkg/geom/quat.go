package geom

import "math"

// Quat is a rotation quaternion (x, y, z, w).
type Quat struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// QuatIdentity is the no-rotation quaternion.
var QuatIdentity = Quat{W: 1}

// QuatFromAxisAngle builds a quaternion rotating by angle (radians)
// around the given axis. The axis need not be unit length.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	axis = axis.Normalize()
	s, c := math.Sincos(angle / 2)
	return Quat{X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s, W: c}
}

// QuatFromBasis builds the quaternion whose rotation maps the standard
// axes onto the given orthonormal frame (u, v, n are the images of
// +X, +Y, +Z). Uses the Shepperd branch selection for numerical safety.
func QuatFromBasis(u, v, n Vec3) Quat {
	// Rotation matrix columns are u, v, n.
	m00, m01, m02 := u.X, v.X, n.X
	m10, m11, m12 := u.Y, v.Y, n.Y
	m20, m21, m22 := u.Z, v.Z, n.Z

	trace := m00 + m11 + m22
	var q Quat
	switch {
	case trace > 0:
		s := math.Sqrt(trace+1) * 2
		q = Quat{
			W: s / 4,
			X: (m21 - m12) / s,
			Y: (m02 - m20) / s,
			Z: (m10 - m01) / s,
		}
	case m00 > m11 && m00 > m22:
		s := math.Sqrt(1+m00-m11-m22) * 2
		q = Quat{
			W: (m21 - m12) / s,
			X: s / 4,
			Y: (m01 + m10) / s,
			Z: (m02 + m20) / s,
		}
	case m11 > m22:
		s := math.Sqrt(1+m11-m00-m22) * 2
		q = Quat{
			W: (m02 - m20) / s,
			X: (m01 + m10) / s,
			Y: s / 4,
			Z: (m12 + m21) / s,
		}
	default:
		s := math.Sqrt(1+m22-m00-m11) * 2
		q = Quat{
			W: (m10 - m01) / s,
			X: (m02 + m20) / s,
			Y: (m12 + m21) / s,
			Z: s / 4,
		}
	}
	return q.Normalize()
}

// Mul returns the composition q∘r (apply r first, then q).
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
	}
}

// Normalize returns a unit quaternion, or identity if q is zero.
func (q Quat) Normalize() Quat {
	l := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if l == 0 {
		return QuatIdentity
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Rotate applies the rotation to a vector.
func (q Quat) Rotate(v Vec3) Vec3 {
	// v' = v + 2*qv × (qv × v + w*v)
	qv := Vec3{q.X, q.Y, q.Z}
	t := qv.Cross(v).Add(v.Scale(q.W))
	return v.Add(qv.Cross(t).Scale(2))
}

// Rigid is a rotation followed by a translation.
type Rigid struct {
	Rotation    Quat `json:"rotation"`
	Translation Vec3 `json:"translation"`
}

// Apply transforms a point.
func (r Rigid) Apply(v Vec3) Vec3 {
	return r.Rotation.Rotate(v).Add(r.Translation)
}
