package loader

import "github.com/Carmen-Shannon/oxy-showcase/engine/font"

type fontLoaderBackend struct{}

var _ loaderBackend[*font.Font] = &fontLoaderBackend{}

func newFontLoaderBackend() *fontLoaderBackend {
	return &fontLoaderBackend{}
}

func (b *fontLoaderBackend) Decode(src source) (*font.Font, error) {
	return font.Parse(src.data)
}
