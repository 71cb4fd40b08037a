package common

import (
	"bytes"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transformPoint(m Mat4, p [3]float32) [4]float32 {
	var out [4]float32
	for row := 0; row < 4; row++ {
		out[row] = m[row]*p[0] + m[4+row]*p[1] + m[8+row]*p[2] + m[12+row]
	}
	return out
}

func TestMul4(t *testing.T) {
	assert.Equal(t, Identity4(), Mul4(Identity4(), Identity4()))

	m := Mul4(Translate(1, 2, 3), Scale(2, 2, 2))
	assert.Equal(t, [4]float32{3, 4, 5, 1}, transformPoint(m, [3]float32{1, 1, 1}))

	// Scale applies first, so the translation is not scaled.
	m = Mul4(Scale(2, 2, 2), Translate(1, 2, 3))
	assert.Equal(t, [4]float32{4, 6, 8, 1}, transformPoint(m, [3]float32{1, 1, 1}))
}

func TestPerspectiveDepthRange(t *testing.T) {
	p := Perspective(math32.Pi/2, 1, 1, 10)

	near := transformPoint(p, [3]float32{0, 0, -1})
	assert.InDelta(t, 0, near[2]/near[3], 1e-6)
	far := transformPoint(p, [3]float32{0, 0, -10})
	assert.InDelta(t, 1, far[2]/far[3], 1e-6)

	edge := transformPoint(p, [3]float32{1, 0, -1})
	assert.InDelta(t, 1, edge[0]/edge[3], 1e-6)
}

func TestLookAt(t *testing.T) {
	v := LookAt([3]float32{0, 0, 5}, [3]float32{0, 0, 0}, [3]float32{0, 1, 0})
	p := transformPoint(v, [3]float32{0, 0, 0})
	assert.InDelta(t, 0, p[0], 1e-6)
	assert.InDelta(t, 0, p[1], 1e-6)
	assert.InDelta(t, -5, p[2], 1e-6)

	p = transformPoint(v, [3]float32{1, 0, 0})
	assert.InDelta(t, 1, p[0], 1e-6)
}

func TestNormalize3(t *testing.T) {
	assert.Equal(t, [3]float32{0.6, 0, 0.8}, Normalize3([3]float32{3, 0, 4}))
	assert.Equal(t, [3]float32{}, Normalize3([3]float32{}))
}

func TestNormalMatrix(t *testing.T) {
	n, ok := NormalMatrix(Translate(4, 5, 6))
	require.True(t, ok)
	assert.Equal(t, Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}, n)

	n, ok = NormalMatrix(Scale(2, 4, 8))
	require.True(t, ok)
	assert.InDelta(t, 0.5, n[0], 1e-6)
	assert.InDelta(t, 0.25, n[4], 1e-6)
	assert.InDelta(t, 0.125, n[8], 1e-6)

	// Shear along x by y: the inverse-transpose shears y by -x.
	shear := Identity4()
	shear[4] = 1
	n, ok = NormalMatrix(shear)
	require.True(t, ok)
	assert.Equal(t, Mat3{1, -1, 0, 0, 1, 0, 0, 0, 1}, n)

	_, ok = NormalMatrix(Scale(1, 1, 0))
	assert.False(t, ok)
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 3, Coalesce(0, 0, 3))
	assert.Equal(t, 0, Coalesce[int]())
}

func TestLogLevel(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	t.Cleanup(func() {
		_ = SetLogLevel("info")
	})

	require.NoError(t, SetLogLevel("warn"))
	Logger().Info("hidden")
	Logger().Warn("shown", "key", "value")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "key=value")

	assert.Error(t, SetLogLevel("loud"))
	assert.Error(t, ValidateLogLevel("loud"))
	assert.NoError(t, ValidateLogLevel("debug"))
}
