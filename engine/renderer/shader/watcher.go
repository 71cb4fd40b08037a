package shader

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-variants/common"
	"github.com/fsnotify/fsnotify"
)

// CheckResult is the outcome of re-checking a shader file after it changed on disk.
type CheckResult struct {
	// Path is the file that was checked.
	Path string

	// Shader is the parsed shader, nil if parsing failed.
	Shader Shader

	// Err is nil when the shader parsed and agreed with the layout registry.
	Err error
}

// Watcher re-parses and checks a WGSL file every time it is written, reporting the result
// on a channel. The parent directory is watched so editors that replace files on save
// are still seen.
type Watcher struct {
	path       string
	key        string
	shaderType ShaderType
	spec       Specialization
	fs         *fsnotify.Watcher
	results    chan CheckResult

	closeOnce sync.Once
	closeErr  error
	closed    atomic.Bool
}

// NewWatcher creates a Watcher for a single WGSL file.
//
// Parameters:
//   - key: the shader key passed to NewShader
//   - shaderType: the pipeline stage of the shader
//   - path: the WGSL file to watch
//   - spec: the specialization the shader is processed with
//
// Returns:
//   - *Watcher: the watcher, not yet running
//   - error: an error if the fsnotify watcher could not be created or the directory added
func NewWatcher(key string, shaderType ShaderType, path string, spec Specialization) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("shader: resolve %q: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("shader: create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("shader: watch %q: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		path:       abs,
		key:        key,
		shaderType: shaderType,
		spec:       spec,
		fs:         fsw,
		results:    make(chan CheckResult, 1),
	}, nil
}

// Results returns the channel check results are delivered on. It is closed when Run returns.
//
// Returns:
//   - <-chan CheckResult: the result channel
func (w *Watcher) Results() <-chan CheckResult {
	return w.results
}

// Check parses the watched file once and checks it against the layout registry.
//
// Returns:
//   - CheckResult: the outcome
func (w *Watcher) Check() CheckResult {
	s, err := NewShaderFromPath(w.key, w.shaderType, w.path, w.spec)
	if err != nil {
		return CheckResult{Path: w.path, Err: err}
	}
	return CheckResult{Path: w.path, Shader: s, Err: CheckBindings(s)}
}

// Run delivers an initial check, then one check per write or create of the watched file,
// until ctx is cancelled or the underlying watcher fails.
//
// Parameters:
//   - ctx: cancels the watch loop
//
// Returns:
//   - error: nil on cancellation or Close, otherwise the watcher error that stopped the loop
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.results)
	defer w.Close()

	logger := common.Logger().With("shader", w.key, "path", w.path)
	if !w.deliver(ctx, w.Check()) {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-w.fs.Events:
			if !ok {
				return w.closedErr()
			}
			if filepath.Clean(e.Name) != w.path || e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			logger.Debug("shader changed", "op", e.Op.String())
			if !w.deliver(ctx, w.Check()) {
				return nil
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return w.closedErr()
			}
			logger.Error("watch failed", "err", err)
			return fmt.Errorf("shader: watch %q: %w", w.path, err)
		}
	}
}

// Close stops watching and releases the fsnotify watcher. A running Run returns nil.
// Close is safe to call more than once and without Run ever being called.
//
// Returns:
//   - error: the error from closing the fsnotify watcher, the same on every call
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		w.closed.Store(true)
		w.closeErr = w.fs.Close()
	})
	return w.closeErr
}

// closedErr is what Run returns once the fsnotify channels close.
func (w *Watcher) closedErr() error {
	if w.closed.Load() {
		return nil
	}
	return errors.New("shader: watcher closed")
}

// deliver logs and sends a result, returning false if ctx was cancelled first.
func (w *Watcher) deliver(ctx context.Context, r CheckResult) bool {
	logger := common.Logger().With("shader", w.key)
	if r.Err != nil {
		logger.Warn("shader check failed", "err", r.Err)
	} else {
		logger.Info("shader check passed")
	}
	select {
	case w.results <- r:
		return true
	case <-ctx.Done():
		return false
	}
}
