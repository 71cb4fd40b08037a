package common

import "github.com/chewxy/math32"

// Mat4 is a 4x4 float32 matrix stored in column-major order (WebGPU convention).
type Mat4 = [16]float32

// Mat3 is a tightly packed 3x3 float32 matrix stored in column-major order.
// It is the host-side form of a normal matrix before it is padded for the GPU.
type Mat3 = [9]float32

// Identity4 returns the 4x4 identity matrix.
//
// Returns:
//   - Mat4: the identity matrix
func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul4 multiplies two 4x4 column-major matrices. Result: a * b.
//
// Parameters:
//   - a: left-hand matrix
//   - b: right-hand matrix
//
// Returns:
//   - Mat4: the product a * b
func Mul4(a, b Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// Perspective creates a perspective projection matrix mapping depth to the WebGPU
// clip space range [0, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - Mat4: the projection matrix
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := 1 / math32.Tan(fovY/2)
	out := Identity4()
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1
	out[14] = (near * far) / (near - far)
	out[15] = 0
	return out
}

// Translate returns a translation matrix.
//
// Parameters:
//   - x, y, z: translation in world space
//
// Returns:
//   - Mat4: the translation matrix
func Translate(x, y, z float32) Mat4 {
	out := Identity4()
	out[12], out[13], out[14] = x, y, z
	return out
}

// Scale returns a non-uniform scale matrix.
//
// Parameters:
//   - x, y, z: scale factors along each axis
//
// Returns:
//   - Mat4: the scale matrix
func Scale(x, y, z float32) Mat4 {
	out := Identity4()
	out[0], out[5], out[10] = x, y, z
	return out
}

// Normalize3 returns v scaled to unit length. A zero vector is returned unchanged.
//
// Parameters:
//   - v: the vector to normalize
//
// Returns:
//   - [3]float32: the normalized vector
func Normalize3(v [3]float32) [3]float32 {
	l := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if l == 0 {
		return v
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}

// LookAt creates a view matrix that transforms world coordinates to view space.
//
// Parameters:
//   - eye: camera position in world space
//   - center: target point the camera looks at
//   - up: up vector defining camera orientation (typically 0,1,0)
//
// Returns:
//   - Mat4: the view matrix
func LookAt(eye, center, up [3]float32) Mat4 {
	z := Normalize3([3]float32{eye[0] - center[0], eye[1] - center[1], eye[2] - center[2]})
	x := Normalize3([3]float32{
		up[1]*z[2] - up[2]*z[1],
		up[2]*z[0] - up[0]*z[2],
		up[0]*z[1] - up[1]*z[0],
	})
	y := [3]float32{
		z[1]*x[2] - z[2]*x[1],
		z[2]*x[0] - z[0]*x[2],
		z[0]*x[1] - z[1]*x[0],
	}

	var out Mat4
	out[0], out[4], out[8], out[12] = x[0], x[1], x[2], -(x[0]*eye[0] + x[1]*eye[1] + x[2]*eye[2])
	out[1], out[5], out[9], out[13] = y[0], y[1], y[2], -(y[0]*eye[0] + y[1]*eye[1] + y[2]*eye[2])
	out[2], out[6], out[10], out[14] = z[0], z[1], z[2], -(z[0]*eye[0] + z[1]*eye[1] + z[2]*eye[2])
	out[3], out[7], out[11], out[15] = 0, 0, 0, 1
	return out
}

// NormalMatrix computes the inverse-transpose of the upper-left 3x3 block of a model
// matrix, which transforms normals correctly under non-uniform scale. If the block is
// singular the identity is returned along with false.
//
// Parameters:
//   - m: the model matrix (column-major)
//
// Returns:
//   - Mat3: the normal matrix (column-major)
//   - bool: false if the upper 3x3 block is singular
func NormalMatrix(m Mat4) (Mat3, bool) {
	// aCR is column C, row R of the upper 3x3 block.
	a00, a01, a02 := m[0], m[1], m[2]
	a10, a11, a12 := m[4], m[5], m[6]
	a20, a21, a22 := m[8], m[9], m[10]

	// cofactors, cRC is row R, column C
	c00 := a11*a22 - a21*a12
	c10 := a20*a12 - a10*a22
	c20 := a10*a21 - a20*a11

	det := a00*c00 + a01*c10 + a02*c20
	if math32.Abs(det) < 1e-12 {
		return Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}, false
	}
	inv := 1 / det

	c01 := a21*a02 - a01*a22
	c11 := a00*a22 - a20*a02
	c21 := a20*a01 - a00*a21
	c02 := a01*a12 - a11*a02
	c12 := a10*a02 - a00*a12
	c22 := a00*a11 - a10*a01

	// The cofactor matrix over the determinant is the inverse-transpose.
	return Mat3{
		c00 * inv, c10 * inv, c20 * inv,
		c01 * inv, c11 * inv, c21 * inv,
		c02 * inv, c12 * inv, c22 * inv,
	}, true
}
