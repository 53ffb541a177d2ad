package scene

import (
	"math/rand/v2"

	"github.com/Carmen-Shannon/oxy-showcase/engine/clock"
	"github.com/Carmen-Shannon/oxy-showcase/engine/loader"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithLoader sets the asset loader. Defaults to a loader created at Init.
//
// Parameters:
//   - l: the loader
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLoader(l loader.Loader) SceneBuilderOption {
	return func(s *scene) {
		s.loader = l
	}
}

// WithClock sets the clock whose delta drives the box rotation.
//
// Parameters:
//   - c: the clock, ticked by its owner
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithClock(c clock.Clock) SceneBuilderOption {
	return func(s *scene) {
		s.clock = c
	}
}

// WithReporter sets where failed asset requests are reported. Defaults to a warning log.
//
// Parameters:
//   - r: the reporter
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithReporter(r ErrorReporter) SceneBuilderOption {
	return func(s *scene) {
		s.reporter = r
	}
}

// WithSeed makes particle and box placement deterministic.
//
// Parameters:
//   - seed: the random seed
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSeed(seed uint64) SceneBuilderOption {
	return func(s *scene) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithParticleCount sets the number of particles. Negative values are ignored.
//
// Parameters:
//   - n: the particle count
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithParticleCount(n int) SceneBuilderOption {
	return func(s *scene) {
		if n >= 0 {
			s.particleCount = n
		}
	}
}

// WithBoxCount sets the number of boxes. Negative values are ignored.
//
// Parameters:
//   - n: the box count
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBoxCount(n int) SceneBuilderOption {
	return func(s *scene) {
		if n >= 0 {
			s.boxCount = n
		}
	}
}

// WithFontPath sets the font used for the text lines. The empty path selects the
// embedded Go Regular face.
//
// Parameters:
//   - path: the font path or URL
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithFontPath(path string) SceneBuilderOption {
	return func(s *scene) {
		s.fontPath = path
	}
}

// WithTextLines replaces the default name lines.
//
// Parameters:
//   - lines: the text lines to build
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithTextLines(lines ...TextLine) SceneBuilderOption {
	return func(s *scene) {
		s.textLines = lines
	}
}

// WithBackground requests an equirectangular HDRI used as the scene background.
//
// Parameters:
//   - path: the .hdr path or URL
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBackground(path string) SceneBuilderOption {
	return func(s *scene) {
		s.hdriPath = path
	}
}

// WithSprite requests the texture drawn on each particle.
//
// Parameters:
//   - path: the image path or URL
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSprite(path string) SceneBuilderOption {
	return func(s *scene) {
		s.spritePath = path
	}
}

// WithModel requests a glTF model placed at the origin.
//
// Parameters:
//   - path: the .gltf or .glb path or URL
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithModel(path string) SceneBuilderOption {
	return func(s *scene) {
		s.modelPath = path
	}
}
