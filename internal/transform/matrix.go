// Package transform implements the 4x4 matrix algebra used to express node
// transforms relative to their parents.
//
// Matrices are stored row-major and follow the row-vector convention: a point
// p is transformed as p·M, so the translation lives in elements 12-14 and
// composing "A then B" is Multiply(A, B).
package transform

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Matrix is a dense 4x4 transform, row-major.
type Matrix [16]float64

// Identity is the multiplicative identity.
var Identity = Matrix{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// AxisCorrection converts the authoring tool's axis convention to the
// runtime's. It is applied once, at the exported subtree root, and must stay
// bit-for-bit identical for existing consumers of the format.
var AxisCorrection = Matrix{
	-1, 0, 0, 0,
	0, 0, 1, 0,
	0, 1, 0, 0,
	0, 0, 0, 1,
}

// Multiply returns a·b, C[r][c] = sum_k A[r][k]·B[k][c].
func Multiply(a, b Matrix) Matrix {
	var c Matrix
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			// seeded with the first term so a sum of negative zeros stays -0
			sum := a[row*4] * b[col]
			for k := 1; k < 4; k++ {
				sum += a[row*4+k] * b[k*4+col]
			}
			c[row*4+col] = sum
		}
	}
	return c
}

// Inverse returns the inverse of m. A singular matrix yields the zero matrix.
//
// mgl64 stores matrices column-major, so the same sixteen values read by mgl64
// are the transpose of m. The inverse of a transpose is the transpose of the
// inverse, which makes the reinterpretation exact in both directions.
func Inverse(m Matrix) Matrix {
	return Matrix(mgl64.Mat4(m).Inv())
}

// Translation returns elements 12-14.
func Translation(m Matrix) (x, y, z float64) {
	return m[12], m[13], m[14]
}

// Translate returns a pure translation matrix.
func Translate(x, y, z float64) Matrix {
	m := Identity
	m[12], m[13], m[14] = x, y, z
	return m
}

// ApproxEqual reports whether every element of a and b differs by at most eps.
func ApproxEqual(a, b Matrix, eps float64) bool {
	for i := range a {
		d := a[i] - b[i]
		if d < -eps || d > eps {
			return false
		}
	}
	return true
}
