package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-showcase/common"
	"github.com/Carmen-Shannon/oxy-showcase/engine/font"
	"github.com/Carmen-Shannon/oxy-showcase/engine/model"
)

// maxRemoteSize bounds the body read from an http(s) asset URL.
const maxRemoteSize = 256 << 20

// loader is the implementation of the Loader interface.
type loader struct {
	baseDir        string
	client         *http.Client
	workers        int
	maxTextureSize int

	pool   worker.DynamicWorkerPool
	nextID atomic.Int64

	textures loaderBackend[*Texture]
	hdris    loaderBackend[*HDRImage]
	fonts    loaderBackend[*font.Font]
	models   loaderBackend[model.Model]
}

// Loader turns asset paths into decoded in-memory resources. Every call is an
// independent read and decode on the loader's worker pool; nothing is cached and
// concurrent identical requests are not deduplicated.
//
// Paths are resolved against the base directory unless they are absolute or
// http(s) URLs.
type Loader interface {
	// LoadTexture reads and decodes a PNG, JPEG, BMP, TIFF or WebP image to RGBA8.
	//
	// Parameters:
	//   - path: the image path or URL
	//
	// Returns:
	//   - *Future[*Texture]: completes with the texture or the load error
	LoadTexture(path string) *Future[*Texture]

	// LoadHDRI reads and decodes a Radiance RGBE (.hdr) environment map.
	//
	// Parameters:
	//   - path: the .hdr path or URL
	//
	// Returns:
	//   - *Future[*HDRImage]: completes with the linear image or the load error
	LoadHDRI(path string) *Future[*HDRImage]

	// LoadFont reads and parses a TrueType or OpenType font. The empty path
	// resolves to the embedded Go Regular face without touching the filesystem.
	//
	// Parameters:
	//   - path: the font path or URL
	//
	// Returns:
	//   - *Future[*font.Font]: completes with the font or the load error
	LoadFont(path string) *Future[*font.Font]

	// LoadModel reads a glTF or GLB file and flattens its default scene into mesh parts.
	//
	// Parameters:
	//   - path: the model path or URL
	//
	// Returns:
	//   - *Future[model.Model]: completes with the model or the load error
	LoadModel(path string) *Future[model.Model]
}

var _ Loader = &loader{}

// NewLoader creates a Loader backed by a dynamic worker pool.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: the configured loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		client:  http.DefaultClient,
		workers: max(runtime.NumCPU()/2, 1),
	}

	for _, option := range options {
		option(l)
	}

	l.textures = newTextureLoaderBackend(l.maxTextureSize)
	l.hdris = newHDRILoaderBackend()
	l.fonts = newFontLoaderBackend()
	l.models = newGLTFLoaderBackend()

	// The pool starts every worker up front and they run for the life of the process.
	// The idle timeout is stored by the pool but never stops a worker.
	l.pool = worker.NewDynamicWorkerPool(l.workers, 256, 1*time.Second)
	return l
}

func (l *loader) LoadTexture(path string) *Future[*Texture] {
	return submit(l, "texture", path, l.textures)
}

func (l *loader) LoadHDRI(path string) *Future[*HDRImage] {
	return submit(l, "hdri", path, l.hdris)
}

func (l *loader) LoadFont(path string) *Future[*font.Font] {
	if path == "" {
		f := NewFuture[*font.Font]()
		l.run(func() {
			face, err := font.GoRegular()
			if err != nil {
				err = fmt.Errorf("failed to load default font: %w", err)
			}
			f.Complete(face, err)
		}, func(err error) { f.Complete(nil, err) })
		return f
	}
	return submit(l, "font", path, l.fonts)
}

func (l *loader) LoadModel(path string) *Future[model.Model] {
	return submit(l, "model", path, l.models)
}

// submit schedules a fetch and decode of path on the worker pool.
func submit[T any](l *loader, kind, path string, backend loaderBackend[T]) *Future[T] {
	f := NewFuture[T]()
	l.run(func() {
		start := time.Now()
		src, err := l.fetch(path)
		var value T
		if err == nil {
			value, err = backend.Decode(src)
		}
		if err != nil {
			err = fmt.Errorf("failed to load %s %q: %w", kind, path, err)
			common.Logger().Warn("asset load failed", "kind", kind, "path", path, "error", err)
		} else {
			common.Logger().Debug("asset loaded", "kind", kind, "path", path, "duration", time.Since(start))
		}
		f.Complete(value, err)
	}, func(err error) {
		var zero T
		f.Complete(zero, fmt.Errorf("failed to load %s %q: %w", kind, path, err))
	})
	return f
}

// run executes fn on the worker pool. If fn panics, fail receives the recovered
// value as an error so the caller's future still completes.
func (l *loader) run(fn func(), fail func(error)) {
	id := int(l.nextID.Add(1))
	l.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (result any, err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("decoder panicked: %v", r)
					common.Logger().Error("loader task panicked", "task", id, "panic", r)
					fail(err)
				}
			}()
			fn()
			return nil, nil
		},
	})
}

// fetch reads the raw bytes of an asset from disk or over http(s).
func (l *loader) fetch(path string) (source, error) {
	if path == "" {
		return source{}, fmt.Errorf("empty asset path")
	}
	if isRemote(path) {
		data, err := l.fetchRemote(path)
		return source{name: path, data: data}, err
	}

	resolved := path
	if !filepath.IsAbs(resolved) && l.baseDir != "" {
		resolved = filepath.Join(l.baseDir, resolved)
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return source{}, err
	}
	return source{name: path, path: resolved, data: data}, nil
}

func (l *loader) fetchRemote(url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxRemoteSize))
}

func isRemote(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}
