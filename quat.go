package keyframe

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// === Unit Quaternions ======================================================

// Rotations are represented as gonum quaternions (quat.Number), with the
// scalar part in Real and the vector part in Imag/Jmag/Kmag. The helpers
// here cover the small amount of quaternion geometry the interpolation
// techniques need on top of gonum's arithmetic.

// QuatIdentity returns the rotation-less unit quaternion.
func QuatIdentity() quat.Number {
	return quat.Number{Real: 1}
}

// QuatFromAxisAngle constructs a unit quaternion rotating by angle
// (radians, counterclockwise) around the given axis. The axis need not be
// normalized.
func QuatFromAxisAngle(axis r3.Vec, angle float64) quat.Number {
	if Is0(r3.Norm(axis)) {
		tracer().Errorf("created rotation around zero-length axis")
		return QuatIdentity()
	}
	axis = r3.Unit(axis)
	sin, cos := math.Sincos(angle / 2)
	return quat.Number{
		Real: cos,
		Imag: axis.X * sin,
		Jmag: axis.Y * sin,
		Kmag: axis.Z * sin,
	}
}

// QuatDot is the 4-component dot product of two quaternions.
func QuatDot(p, q quat.Number) float64 {
	return p.Real*q.Real + p.Imag*q.Imag + p.Jmag*q.Jmag + p.Kmag*q.Kmag
}

// QuatNormalize scales q to unit length.
func QuatNormalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if Is0(n) {
		tracer().Errorf("normalized a zero quaternion")
		return QuatIdentity()
	}
	return quat.Scale(1/n, q)
}

// QuatAngleBetween returns the rotational angle in radians between two
// unit quaternions, i.e. the angle of the rotation carrying p onto q.
// q and -q represent the same rotation, so the result lies in [0, π].
func QuatAngleBetween(p, q quat.Number) float64 {
	d := math.Abs(QuatDot(p, q))
	if d > 1 {
		d = 1
	}
	return 2 * math.Acos(d)
}

// QuatEq compares two quaternions component-wise within Epsilon.
func QuatEq(p, q quat.Number) bool {
	return Is0(p.Real-q.Real) && Is0(p.Imag-q.Imag) &&
		Is0(p.Jmag-q.Jmag) && Is0(p.Kmag-q.Kmag)
}
