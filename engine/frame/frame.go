// Package frame assembles the per-frame uniform block from camera, mesh and light state.
package frame

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-variants/common"
	"github.com/Carmen-Shannon/oxy-variants/engine/layout"
	"github.com/chewxy/math32"
)

// Light holds the scene lighting written into every FrameData.
type Light struct {
	// InvDirection points from the surface toward the directional light.
	InvDirection [3]float32

	// Position is the world position of the point light.
	Position [3]float32

	// IrradiatedColor tints the irradiance map contribution.
	IrradiatedColor [3]float32

	// IrradianceMapWeight blends between constant ambient and the irradiance map.
	IrradianceMapWeight float32
}

type frameImpl struct {
	mu *sync.Mutex

	eye, center, up [3]float32

	fov  float32
	near float32
	far  float32

	width, height  uint32
	stereo         bool
	eyeSeparation  float32
	light          Light
	viewMatrix     [layout.NumViewports]common.Mat4
	projMatrix     [layout.NumViewports]common.Mat4
	viewProjMatrix [layout.NumViewports]common.Mat4
}

// Frame computes the view and projection matrices of a mono or side-by-side stereo
// camera and fills GPUFrameData records for each mesh drawn with it. In mono mode both
// viewports share the full drawable.
type Frame interface {
	// SetCamera places the camera.
	//
	// Parameters:
	//   - eye: the camera position
	//   - center: the point the camera looks at
	//   - up: the up vector
	SetCamera(eye, center, up [3]float32)

	// SetDrawableSize sets the size of the render target in pixels. In stereo mode each
	// viewport's aspect ratio comes from layout.ViewportRect.
	//
	// Parameters:
	//   - width, height: the drawable size
	SetDrawableSize(width, height uint32)

	// SetLight replaces the scene lighting.
	//
	// Parameters:
	//   - l: the lighting
	SetLight(l Light)

	// Eye returns the camera position for a viewport, offset along the camera's right
	// vector by half the eye separation.
	//
	// Parameters:
	//   - v: the viewport
	//
	// Returns:
	//   - [3]float32: the eye position
	Eye(v layout.Viewport) [3]float32

	// View returns the view matrix for a viewport.
	//
	// Parameters:
	//   - v: the viewport
	//
	// Returns:
	//   - common.Mat4: the view matrix
	View(v layout.Viewport) common.Mat4

	// Projection returns the projection matrix for a viewport.
	//
	// Parameters:
	//   - v: the viewport
	//
	// Returns:
	//   - common.Mat4: the projection matrix
	Projection(v layout.Viewport) common.Mat4

	// Frustum returns the view frustum of a viewport for culling.
	//
	// Parameters:
	//   - v: the viewport
	//
	// Returns:
	//   - common.Frustum: the frustum planes
	Frustum(v layout.Viewport) common.Frustum

	// Distance returns the distance from the camera to a world position, used to pick a
	// quality level.
	//
	// Parameters:
	//   - p: the world position
	//
	// Returns:
	//   - float32: the distance
	Distance(p [3]float32) float32

	// Build fills a FrameData record for a mesh drawn into viewport v.
	//
	// Parameters:
	//   - v: the viewport
	//   - model: the mesh's model matrix
	//
	// Returns:
	//   - layout.GPUFrameData: the filled record
	Build(v layout.Viewport, model common.Mat4) layout.GPUFrameData
}

var _ Frame = &frameImpl{}

// NewFrame creates a Frame with a camera at (0, 0, 5) looking at the origin, a 60 degree
// field of view and a 1x1 drawable.
//
// Parameters:
//   - options: a variadic list of FrameBuilderOption functions to configure the frame
//
// Returns:
//   - Frame: the frame
func NewFrame(options ...FrameBuilderOption) Frame {
	f := &frameImpl{
		mu:     &sync.Mutex{},
		eye:    [3]float32{0, 0, 5},
		up:     [3]float32{0, 1, 0},
		fov:    math32.Pi / 3,
		near:   0.1,
		far:    100,
		width:  1,
		height: 1,
		light: Light{
			InvDirection:        [3]float32{0, 1, 0},
			IrradiatedColor:     [3]float32{1, 1, 1},
			IrradianceMapWeight: 1,
		},
	}
	for _, option := range options {
		option(f)
	}
	f.updateMatrices()
	return f
}

func (f *frameImpl) SetCamera(eye, center, up [3]float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.eye, f.center, f.up = eye, center, up
	f.updateMatrices()
}

func (f *frameImpl) SetDrawableSize(width, height uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.width, f.height = width, height
	f.updateMatrices()
}

func (f *frameImpl) SetLight(l Light) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.light = l
}

func (f *frameImpl) Eye(v layout.Viewport) [3]float32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.eyeFor(v)
}

func (f *frameImpl) View(v layout.Viewport) common.Mat4 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.viewMatrix[viewportSlot(v)]
}

func (f *frameImpl) Projection(v layout.Viewport) common.Mat4 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.projMatrix[viewportSlot(v)]
}

func (f *frameImpl) Frustum(v layout.Viewport) common.Frustum {
	f.mu.Lock()
	defer f.mu.Unlock()
	return common.ExtractFrustum(f.viewProjMatrix[viewportSlot(v)])
}

func (f *frameImpl) Distance(p [3]float32) float32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	dx, dy, dz := p[0]-f.eye[0], p[1]-f.eye[1], p[2]-f.eye[2]
	return math32.Sqrt(dx*dx + dy*dy + dz*dz)
}

func (f *frameImpl) Build(v layout.Viewport, model common.Mat4) layout.GPUFrameData {
	f.mu.Lock()
	defer f.mu.Unlock()

	slot := viewportSlot(v)
	var d layout.GPUFrameData
	d.CameraPos = f.eyeFor(slot)
	d.ModelMatrix = model
	d.ModelViewProjectionMatrix = common.Mul4(f.viewProjMatrix[slot], model)
	normal, ok := common.NormalMatrix(model)
	if !ok {
		common.Logger().Debug("singular model matrix, using identity normal matrix")
	}
	d.SetNormalMatrix(normal)
	d.DirectionalLightInvDirection = common.Normalize3(f.light.InvDirection)
	d.LightPosition = f.light.Position
	d.IrradiatedColor = f.light.IrradiatedColor
	d.IrradianceMapWeight = f.light.IrradianceMapWeight
	return d
}

// viewportSlot maps invalid viewports to the left eye, which equals the mono camera when
// the eye separation is zero.
func viewportSlot(v layout.Viewport) layout.Viewport {
	if !v.Valid() {
		return layout.ViewportLeft
	}
	return v
}

// eyeFor offsets the camera along its right vector in stereo mode; the left eye moves by
// -s/2, the right eye by +s/2. Mono mode and invalid viewports use the unshifted camera.
func (f *frameImpl) eyeFor(v layout.Viewport) [3]float32 {
	if !f.stereo {
		return f.eye
	}
	var sign float32
	switch v {
	case layout.ViewportLeft:
		sign = -0.5
	case layout.ViewportRight:
		sign = 0.5
	default:
		return f.eye
	}
	forward := common.Normalize3([3]float32{f.center[0] - f.eye[0], f.center[1] - f.eye[1], f.center[2] - f.eye[2]})
	right := common.Normalize3([3]float32{
		forward[1]*f.up[2] - forward[2]*f.up[1],
		forward[2]*f.up[0] - forward[0]*f.up[2],
		forward[0]*f.up[1] - forward[1]*f.up[0],
	})
	o := sign * f.eyeSeparation
	return [3]float32{f.eye[0] + right[0]*o, f.eye[1] + right[1]*o, f.eye[2] + right[2]*o}
}

// updateMatrices recomputes the per-viewport view, projection and view-projection matrices.
// The caller must hold the mutex (or be the constructor).
func (f *frameImpl) updateMatrices() {
	for _, v := range layout.AllViewports() {
		rect := layout.Rect{Width: f.width, Height: f.height}
		if f.stereo {
			rect = layout.ViewportRect(v, f.width, f.height)
		}
		aspect := float32(1)
		if rect.Height > 0 && rect.Width > 0 {
			aspect = float32(rect.Width) / float32(rect.Height)
		}
		eye := f.eyeFor(v)
		center := [3]float32{
			f.center[0] + eye[0] - f.eye[0],
			f.center[1] + eye[1] - f.eye[1],
			f.center[2] + eye[2] - f.eye[2],
		}
		f.viewMatrix[v] = common.LookAt(eye, center, f.up)
		f.projMatrix[v] = common.Perspective(f.fov, aspect, f.near, f.far)
		f.viewProjMatrix[v] = common.Mul4(f.projMatrix[v], f.viewMatrix[v])
	}
}
