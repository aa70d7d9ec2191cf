package resource

import (
	"errors"
	"image"
	"sync"
	"sync/atomic"

	"minibrowser/pkg/html"
	"minibrowser/pkg/layout"
	"minibrowser/pkg/render"
	"minibrowser/pkg/text"
)

// ErrSuperseded is returned by Session.Load when a newer load was begun
// before this one got to run.
var ErrSuperseded = errors.New("load superseded by a newer navigation")

// Session loads and paints pages for one window with a single font cache.
// A load holds the cache for its whole run; painting only tries to take it,
// so a window never waits on the network to repaint.
type Session struct {
	fonts *text.FontCache
	nav   *Navigator

	mu  sync.Mutex // guards fonts and nav
	gen atomic.Uint64
}

func NewSession(fonts *text.FontCache) *Session {
	return &Session{fonts: fonts, nav: NewNavigator(fonts)}
}

// Navigator returns the session's navigator for configuration. It must not
// be used while a load may be running.
func (s *Session) Navigator() *Navigator {
	return s.nav
}

// Begin starts a new navigation and returns its generation. Every earlier
// generation is stale from now on.
func (s *Session) Begin() uint64 {
	return s.gen.Add(1)
}

// Latest reports whether gen is the most recently begun navigation.
func (s *Session) Latest(gen uint64) bool {
	return s.gen.Load() == gen
}

// Load navigates to url at the given layout width on behalf of generation
// gen. Loads run one at a time; a load that is already stale when its turn
// comes returns ErrSuperseded without fetching anything.
func (s *Session) Load(gen uint64, url string, width int) (*html.Document, layout.RenderBox, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.Latest(gen) {
		return nil, nil, ErrSuperseded
	}
	containing := layout.Dimensions{Content: layout.Rect{Width: float64(width)}}
	return s.nav.Navigate(url, containing)
}

// Paint renders root into a canvas the size of viewport, scrolled to the
// viewport's position. It reports false, painting nothing, while a load
// holds the font cache.
func (s *Session) Paint(root layout.RenderBox, viewport layout.Rect) (image.Image, bool) {
	if !s.mu.TryLock() {
		return nil, false
	}
	defer s.mu.Unlock()
	r := render.NewRenderer(int(viewport.Width), int(viewport.Height), s.fonts)
	r.Render(root, viewport)
	return r.Image(), true
}
