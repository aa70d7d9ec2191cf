package resource

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minibrowser/pkg/layout"
	"minibrowser/pkg/text"
)

func session(t *testing.T) *Session {
	t.Helper()
	fc := text.NewFontCache()
	require.NoError(t, fc.InstallStandardFonts())
	return NewSession(fc)
}

// TestSession_PaintWhileLoading paints the current page over and over while
// pages with new font sizes are laid out. Run with -race.
func TestSession_PaintWhileLoading(t *testing.T) {
	dir := t.TempDir()
	pages := make([]string, 20)
	for i := range pages {
		pages[i] = filepath.Join(dir, fmt.Sprintf("page%d.html", i))
		src := fmt.Sprintf(`<p style="font-size: %dpx">some words to measure</p>`, 10+i)
		writeFile(t, pages[i], []byte(src))
	}

	s := session(t)
	_, root, err := s.Load(s.Begin(), pages[0], 300)
	require.NoError(t, err)

	done := make(chan error)
	go func() {
		for _, page := range pages[1:] {
			if _, _, err := s.Load(s.Begin(), page, 300); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	viewport := layout.Rect{Width: 300, Height: 100}
loop:
	for {
		select {
		case err := <-done:
			require.NoError(t, err)
			break loop
		default:
			s.Paint(root, viewport)
		}
	}

	img, ok := s.Paint(root, viewport)
	require.True(t, ok, "nothing is loading")
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestSession_PaintSkippedDuringLoad(t *testing.T) {
	s := session(t)
	s.mu.Lock()
	img, ok := s.Paint(nil, layout.Rect{Width: 10, Height: 10})
	s.mu.Unlock()
	assert.False(t, ok)
	assert.Nil(t, img)

	img, ok = s.Paint(nil, layout.Rect{Width: 10, Height: 10})
	assert.True(t, ok)
	assert.NotNil(t, img)
}

func TestSession_StaleLoadIsSuperseded(t *testing.T) {
	page := site(t)
	s := session(t)

	first := s.Begin()
	second := s.Begin()
	assert.False(t, s.Latest(first))
	assert.True(t, s.Latest(second))

	_, root, err := s.Load(first, page, 400)
	assert.ErrorIs(t, err, ErrSuperseded)
	assert.Nil(t, root)

	doc, root, err := s.Load(second, page, 400)
	require.NoError(t, err)
	assert.NotNil(t, root)
	assert.Equal(t, "Home", doc.Title)
}
