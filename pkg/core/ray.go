package core

// Ray is an immutable half-line with a unit direction
type Ray struct {
	Origin    Point3
	Direction UnitVec3
}

// NewRay creates a ray from an already normalized direction
func NewRay(origin Point3, direction UnitVec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// NewRayUnnormalized creates a ray, normalizing the direction
func NewRayUnnormalized(origin Point3, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Unit()}
}

// At returns the point at distance t along the ray
func (r Ray) At(t float64) Point3 {
	return r.Origin.Add(r.Direction.v.Multiply(t))
}
