// Package geom provides the small vector, quaternion, and face-frame
// types shared by the boundary, outline, and alignment packages.
package geom

import "math"

// Vec2 is a 2D point or direction.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vec3 is a 3D point or direction.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (a Vec2) Add(b Vec2) Vec2      { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2      { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Dot(b Vec2) float64   { return a.X*b.X + a.Y*b.Y }

// Cross returns the scalar z-component of the 2D cross product.
func (a Vec2) Cross(b Vec2) float64 { return a.X*b.Y - a.Y*b.X }

func (a Vec2) Length() float64 { return math.Hypot(a.X, a.Y) }

func (a Vec2) Distance(b Vec2) float64 { return a.Sub(b).Length() }

// Normalize returns a unit-length copy, or the zero vector if a is zero.
func (a Vec2) Normalize() Vec2 {
	l := a.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{a.X / l, a.Y / l}
}

// Perp returns a rotated 90° counter-clockwise.
func (a Vec2) Perp() Vec2 { return Vec2{-a.Y, a.X} }

// Angle returns the direction angle of a in radians.
func (a Vec2) Angle() float64 { return math.Atan2(a.Y, a.X) }

// Rotate rotates a by the given angle in radians.
func (a Vec2) Rotate(angle float64) Vec2 {
	s, c := math.Sincos(angle)
	return Vec2{a.X*c - a.Y*s, a.X*s + a.Y*c}
}

func (a Vec3) Add(b Vec3) Vec3      { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3      { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) Dot(b Vec3) float64   { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func (a Vec3) Length() float64 { return math.Sqrt(a.Dot(a)) }

func (a Vec3) Distance(b Vec3) float64 { return a.Sub(b).Length() }

// Normalize returns a unit-length copy, or the zero vector if a is zero.
func (a Vec3) Normalize() Vec3 {
	l := a.Length()
	if l == 0 {
		return Vec3{}
	}
	return a.Scale(1 / l)
}

// SignedAngle returns the signed angle from a to b in radians, in (-π, π].
func SignedAngle(a, b Vec2) float64 {
	return math.Atan2(a.Cross(b), a.Dot(b))
}

// WrapAngle folds an angle difference into [0, π].
func WrapAngle(d float64) float64 {
	d = math.Abs(math.Mod(d, 2*math.Pi))
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}
