package resource

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minibrowser/pkg/css"
	"minibrowser/pkg/html"
	"minibrowser/pkg/layout"
	"minibrowser/pkg/text"
	stdnet "minibrowser/std/net"
)

const indexPage = `<html>
<head>
	<title>Home</title>
	<link rel="stylesheet" href="css/site.css">
	<link rel="stylesheet" href="css/missing.css">
</head>
<body>
	<p id="greeting">hello</p>
	<img src="img/dot.png">
	<a href="next.html">next</a>
	<script>document.getElementById("greeting").textContent = "changed";</script>
</body>
</html>`

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

// site writes a small page with a linked stylesheet and an image into a
// temporary directory and returns the path of the page.
func site(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"), []byte(indexPage))
	writeFile(t, filepath.Join(dir, "css", "site.css"), []byte(`p { color: #ff0000 }`))

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 3, 2))))
	writeFile(t, filepath.Join(dir, "img", "dot.png"), img.Bytes())
	return filepath.Join(dir, "index.html")
}

func navigator(t *testing.T) *Navigator {
	t.Helper()
	fc := text.NewFontCache()
	require.NoError(t, fc.InstallStandardFonts())
	return NewNavigator(fc)
}

func viewport(width float64) layout.Dimensions {
	return layout.Dimensions{Content: layout.Rect{Width: width}}
}

// inlines collects every inline fragment of a render tree in paint order.
func inlines(rb layout.RenderBox) []layout.RenderInline {
	var out []layout.RenderInline
	switch b := rb.(type) {
	case *layout.RenderBlockBox:
		for _, c := range b.Children {
			out = append(out, inlines(c)...)
		}
	case *layout.RenderAnonymousBox:
		for _, line := range b.Children {
			out = append(out, line.Children...)
		}
	}
	return out
}

func TestNavigate_LocalSite(t *testing.T) {
	page := site(t)
	doc, root, err := navigator(t).Navigate(page, viewport(400))
	require.NoError(t, err)
	require.NotNil(t, root)

	assert.Equal(t, "Home", doc.Title)
	wantBase, err := stdnet.FileURL(page)
	require.NoError(t, err)
	assert.Equal(t, wantBase, doc.BaseURL)

	var texts []*layout.RenderTextBox
	var imgs []*layout.RenderImageBox
	for _, in := range inlines(root) {
		switch b := in.(type) {
		case *layout.RenderTextBox:
			texts = append(texts, b)
		case *layout.RenderImageBox:
			imgs = append(imgs, b)
		}
	}

	require.Len(t, texts, 2)
	assert.Equal(t, " hello", texts[0].Text, "scripts are off by default")
	require.NotNil(t, texts[0].Color)
	assert.Equal(t, css.Color{R: 255, A: 255}, *texts[0].Color, "linked stylesheet applies")

	require.Len(t, imgs, 1)
	assert.Equal(t, 3.0, imgs[0].Rect.Width)
	assert.Equal(t, 2.0, imgs[0].Rect.Height)
	assert.NotNil(t, imgs[0].Image)

	require.NotNil(t, texts[1].Link)
	next, err := stdnet.FileURL(filepath.Join(filepath.Dir(page), "next.html"))
	require.NoError(t, err)
	assert.Equal(t, next, ResolveLink(doc, *texts[1].Link))
}

func TestNavigate_RunsScripts(t *testing.T) {
	nav := navigator(t)
	nav.SetScriptsEnabled(true)
	doc, root, err := nav.Navigate(site(t), viewport(400))
	require.NoError(t, err)

	first := inlines(root)[0].(*layout.RenderTextBox)
	assert.Equal(t, " changed", first.Text)
	assert.Equal(t, "changed", doc.Root.Children[0].Children[1].Children[0].TextContent())
}

func TestNavigate_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "text.html"), []byte("just some text"))
	writeFile(t, filepath.Join(dir, "hidden.html"), []byte("<head><title>x</title></head>"))

	nav := navigator(t)

	_, _, err := nav.Navigate(filepath.Join(dir, "absent.html"), viewport(100))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = nav.Navigate(filepath.Join(dir, "text.html"), viewport(100))
	assert.ErrorIs(t, err, ErrNoRootElement)

	_, _, err = nav.Navigate(filepath.Join(dir, "hidden.html"), viewport(100))
	assert.ErrorIs(t, err, layout.ErrRootDisplayNone)

	_, root, err := nav.Navigate("gopher://example.com/", viewport(100))
	assert.Error(t, err)
	assert.Nil(t, root)
}

type mapFetcher struct {
	files map[string]string
	calls []string
}

func (f *mapFetcher) Fetch(uri string) ([]byte, string, error) {
	f.calls = append(f.calls, uri)
	body, ok := f.files[uri]
	if !ok {
		return nil, "", errors.New("not found: " + uri)
	}
	ct := "text/html"
	if filepath.Ext(uri) == ".css" {
		ct = "text/css"
	}
	return []byte(body), ct, nil
}

func TestNavigate_CustomFetcher(t *testing.T) {
	f := &mapFetcher{files: map[string]string{
		"http://example.com/docs/":    `<div><link rel="stylesheet" href="../main.css"><p>Hi <a href="/top">top</a></p></div>`,
		"http://example.com/main.css": `p { color: blue }`,
	}}
	nav := navigator(t)
	nav.SetFetcher(f)

	doc, root, err := nav.Navigate("http://example.com/docs/", viewport(300))
	require.NoError(t, err)
	assert.Equal(t, []string{"http://example.com/docs/", "http://example.com/main.css"}, f.calls)

	fragments := inlines(root)
	require.Len(t, fragments, 2)
	link := fragments[1].(*layout.RenderTextBox).Link
	require.NotNil(t, link)
	assert.Equal(t, "http://example.com/top", ResolveLink(doc, *link))
}

func TestResolveLink(t *testing.T) {
	assert.Equal(t, "page.html", ResolveLink(nil, "page.html"))
	assert.Equal(t, "page.html", ResolveLink(&html.Document{}, "page.html"))
	doc := &html.Document{BaseURL: "https://example.com/a/b.html"}
	assert.Equal(t, "https://example.com/a/c.html", ResolveLink(doc, "c.html"))
	assert.Equal(t, "https://other.org/", ResolveLink(doc, "https://other.org/"))
	assert.Equal(t, "https://example.com/a/b.html#top", ResolveLink(doc, "#top"))
}

func TestDefaultFetcher_ResolvesAgainstBase(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.css"), []byte("p { color: red }"))
	base, err := stdnet.FileURL(filepath.Join(dir, "index.html"))
	require.NoError(t, err)

	f := NewFetcher(base)
	source, err := FetchCSS(f, "a.css")
	require.NoError(t, err)
	assert.Equal(t, "p { color: red }", source)

	_, _, err = f.Fetch("b.css")
	assert.Error(t, err)
}

type pngFetcher struct{}

func (pngFetcher) Fetch(string) ([]byte, string, error) {
	return []byte{0x89, 'P', 'N', 'G'}, "image/png", nil
}

func TestFetchCSS_RejectsNonText(t *testing.T) {
	_, err := FetchCSS(pngFetcher{}, "x.css")
	assert.ErrorContains(t, err, "unexpected content type")
}
