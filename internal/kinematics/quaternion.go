package kinematics

import "math"

// Quaternion is a unit quaternion (w, x, y, z) describing vehicle attitude
// in a fixed reference frame.
type Quaternion struct {
	W, X, Y, Z float64
}

// Norm returns the Euclidean norm of the quaternion.
func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

// Normalize returns the quaternion scaled to unit norm. Normalizing a
// quaternion that is already unit-norm is a no-op within floating tolerance.
// The zero quaternion has no direction and is returned unchanged; callers
// must check Norm before relying on the result.
func (q Quaternion) Normalize() Quaternion {
	n := q.Norm()
	if n == 0 {
		return q
	}
	return Quaternion{W: q.W / n, X: q.X / n, Y: q.Y / n, Z: q.Z / n}
}

// FromYaw builds the unit quaternion for a pure rotation of yaw radians
// about the vertical axis.
func FromYaw(yaw float64) Quaternion {
	return Quaternion{W: math.Cos(yaw / 2), Z: math.Sin(yaw / 2)}
}

// Yaw returns the heading angle (rotation about the vertical axis) in
// radians, in (-pi, pi]. This is the standard ZYX Euler yaw projection:
//
//	yaw = atan2(2(w*z + x*y), 1 - 2(y^2 + z^2))
//
// The quaternion must be unit-norm for the result to be meaningful.
func (q Quaternion) Yaw() float64 {
	sinyCosp := 2 * (q.W*q.Z + q.X*q.Y)
	cosyCosp := 1 - 2*(q.Y*q.Y+q.Z*q.Z)
	return math.Atan2(sinyCosp, cosyCosp)
}
