package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBindGroup sets the bind group for this provider.
//
// Parameters:
//   - bg: the bind group to set for this provider
//
// Returns:
//   - BindGroupProviderOption: a function that sets the bind group for this provider
func WithBindGroup(bg *wgpu.BindGroup) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.bindGroup = bg
	}
}

// WithSampler sets the shared sampler at binding 0 of the sampler group. It is ignored
// by providers for other groups.
//
// Parameters:
//   - s: the sampler
//
// Returns:
//   - BindGroupProviderOption: a function that sets the sampler
func WithSampler(s *wgpu.Sampler) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		_ = p.SetSampler(0, s)
	}
}
