package frame

// FrameBuilderOption is a functional option used to configure a Frame during construction.
type FrameBuilderOption func(*frameImpl)

// WithCamera places the camera.
//
// Parameters:
//   - eye: the camera position
//   - center: the point the camera looks at
//   - up: the up vector
//
// Returns:
//   - FrameBuilderOption: a function that places the camera
func WithCamera(eye, center, up [3]float32) FrameBuilderOption {
	return func(f *frameImpl) {
		f.eye, f.center, f.up = eye, center, up
	}
}

// WithPerspective sets the projection parameters.
//
// Parameters:
//   - fov: vertical field of view in radians
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - FrameBuilderOption: a function that sets the projection parameters
func WithPerspective(fov, near, far float32) FrameBuilderOption {
	return func(f *frameImpl) {
		f.fov, f.near, f.far = fov, near, far
	}
}

// WithDrawableSize sets the render target size in pixels.
//
// Parameters:
//   - width, height: the drawable size
//
// Returns:
//   - FrameBuilderOption: a function that sets the drawable size
func WithDrawableSize(width, height uint32) FrameBuilderOption {
	return func(f *frameImpl) {
		f.width, f.height = width, height
	}
}

// WithStereo enables side-by-side stereo with the given distance between the eyes.
//
// Parameters:
//   - eyeSeparation: the distance between the left and right eye positions
//
// Returns:
//   - FrameBuilderOption: a function that enables stereo rendering
func WithStereo(eyeSeparation float32) FrameBuilderOption {
	return func(f *frameImpl) {
		f.stereo = true
		f.eyeSeparation = eyeSeparation
	}
}

// WithLight sets the scene lighting.
//
// Parameters:
//   - l: the lighting
//
// Returns:
//   - FrameBuilderOption: a function that sets the lighting
func WithLight(l Light) FrameBuilderOption {
	return func(f *frameImpl) {
		f.light = l
	}
}
