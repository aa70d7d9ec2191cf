package visualtest

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"minibrowser/pkg/html"
	"minibrowser/pkg/layout"
	"minibrowser/pkg/render"
	"minibrowser/pkg/resource"
	"minibrowser/pkg/text"
)

// RenderPage navigates to the page at path and paints the top left
// width x height pixels of it.
func RenderPage(nav *resource.Navigator, fonts *text.FontCache, path string, width, height int) (image.Image, error) {
	containing := layout.Dimensions{Content: layout.Rect{Width: float64(width)}}
	_, root, err := nav.Navigate(path, containing)
	if err != nil {
		return nil, err
	}
	r := render.NewRenderer(width, height, fonts)
	r.Render(root, layout.Rect{Width: float64(width), Height: float64(height)})
	return r.Image(), nil
}

// ReferencePath returns the path of the reference page named by the
// <link rel="match" href="..."> of the page at path, or "" when the page
// has none.
func ReferencePath(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	doc, err := html.Parse(string(data))
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", path, err)
	}
	href := findMatchLink(doc.Root)
	if href == "" {
		return "", nil
	}
	return filepath.Join(filepath.Dir(path), filepath.FromSlash(href)), nil
}

func findMatchLink(n *html.Node) string {
	if n.IsElement("link") && strings.EqualFold(n.Attributes["rel"], "match") {
		return n.Attributes["href"]
	}
	for _, child := range n.Children {
		if href := findMatchLink(child); href != "" {
			return href
		}
	}
	return ""
}
