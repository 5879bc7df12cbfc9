package core

import (
	"math"
)

// Vec3 represents a free 3D vector
type Vec3 struct {
	X, Y, Z float64
}

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns the sum of two vectors
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Subtract returns the difference of two vectors
func (v Vec3) Subtract(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Multiply returns the vector scaled by a scalar
func (v Vec3) Multiply(scalar float64) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

// Divide returns the vector divided by a scalar
func (v Vec3) Divide(scalar float64) Vec3 {
	return Vec3{v.X / scalar, v.Y / scalar, v.Z / scalar}
}

// Length returns the magnitude of the vector
func (v Vec3) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// LengthSquared returns the squared magnitude of the vector
func (v Vec3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Dot returns the dot product of two vectors
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product of two vectors
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Abs returns the component-wise absolute value
func (v Vec3) Abs() Vec3 {
	return Vec3{math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)}
}

// Max returns the component-wise maximum of two vectors
func (v Vec3) Max(other Vec3) Vec3 {
	return Vec3{
		X: math.Max(v.X, other.X),
		Y: math.Max(v.Y, other.Y),
		Z: math.Max(v.Z, other.Z),
	}
}

// MaxComponent returns the largest of the three components
func (v Vec3) MaxComponent() float64 {
	return math.Max(v.X, math.Max(v.Y, v.Z))
}

// Negate returns the negative of the vector
func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Unit returns the normalized vector. A zero vector yields NaN components,
// callers that can produce one must check IsZero first.
func (v Vec3) Unit() UnitVec3 {
	return UnitVec3{v: v.Divide(v.Length())}
}

// IsZero reports whether every component is exactly zero
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Reflect mirrors v about the plane with normal n
func (v Vec3) Reflect(n UnitVec3) Vec3 {
	return v.Subtract(n.v.Multiply(2 * v.Dot(n.v)))
}

// Point3 is a position in world space. Subtracting two points yields a Vec3,
// adding a Vec3 to a point yields a point.
type Point3 struct {
	X, Y, Z float64
}

// Origin is the world origin
var Origin = Point3{}

// NewPoint3 creates a new Point3
func NewPoint3(x, y, z float64) Point3 {
	return Point3{X: x, Y: y, Z: z}
}

// Vec returns the position vector of the point relative to the origin
func (p Point3) Vec() Vec3 {
	return Vec3(p)
}

// Add moves the point along v
func (p Point3) Add(v Vec3) Point3 {
	return Point3(p.Vec().Add(v))
}

// Offset moves the point against v, i.e. p - v
func (p Point3) Offset(v Vec3) Point3 {
	return Point3(p.Vec().Subtract(v))
}

// Subtract returns the vector from other to p
func (p Point3) Subtract(other Point3) Vec3 {
	return p.Vec().Subtract(other.Vec())
}

// UnitVec3 is a vector of length 1. The zero value is not a valid unit vector;
// obtain one from Vec3.Unit or UnitVec3.Reflect.
type UnitVec3 struct {
	v Vec3
}

// Vec returns the underlying vector
func (u UnitVec3) Vec() Vec3 {
	return u.v
}

// Dot returns the dot product with another unit vector
func (u UnitVec3) Dot(other UnitVec3) float64 {
	return u.v.Dot(other.v)
}

// Negate returns the opposite direction
func (u UnitVec3) Negate() UnitVec3 {
	return UnitVec3{v: u.v.Negate()}
}

// Reflect mirrors u about the surface with normal n. The result is unit
// length because reflection preserves length.
func (u UnitVec3) Reflect(n UnitVec3) UnitVec3 {
	return UnitVec3{v: u.v.Reflect(n)}
}
