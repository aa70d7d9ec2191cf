package resource

import (
	"bytes"
	"errors"
	"fmt"

	"minibrowser/pkg/css"
	"minibrowser/pkg/html"
	"minibrowser/pkg/images"
	"minibrowser/pkg/js"
	"minibrowser/pkg/layout"
	"minibrowser/pkg/logger"
	"minibrowser/pkg/style"
	"minibrowser/pkg/text"
	stdnet "minibrowser/std/net"
)

// ErrNoRootElement is returned for documents without any element.
var ErrNoRootElement = errors.New("document has no root element")

// Navigator loads documents and lays them out: fetch, parse, scripts,
// stylesheets, font faces, style tree, layout.
type Navigator struct {
	fetcher Fetcher
	fonts   *text.FontCache
	images  *images.Loader
	scripts bool
}

// NewNavigator returns a navigator that reads file and http(s) URLs and
// measures text with fonts.
func NewNavigator(fonts *text.FontCache) *Navigator {
	n := &Navigator{fonts: fonts}
	n.SetFetcher(NewFetcher(""))
	return n
}

// SetFetcher replaces the fetcher used for documents, stylesheets, fonts
// and images. URLs are resolved before they reach it.
func (n *Navigator) SetFetcher(f Fetcher) {
	n.fetcher = f
	n.images = images.NewLoaderWithFetch(f.Fetch)
}

// SetScriptsEnabled turns running a document's scripts before styling on
// or off. Scripts are off by default.
func (n *Navigator) SetScriptsEnabled(enabled bool) {
	n.scripts = enabled
}

// Navigate loads the document at rawURL, which may also be a plain file
// path, and lays it out in the containing block.
func (n *Navigator) Navigate(rawURL string, containing layout.Dimensions) (*html.Document, layout.RenderBox, error) {
	target, err := documentURL(rawURL)
	if err != nil {
		return nil, nil, err
	}

	logger.ProgressLogger.Printf("loading %s", target)
	body, contentType, err := n.fetcher.Fetch(target)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching %s: %w", target, err)
	}
	doc, err := html.ParseReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", target, err)
	}
	doc.BaseURL = target
	html.StripEmptyNodes(doc)

	if n.scripts && len(doc.Scripts) > 0 {
		logger.ProgressLogger.Printf("running %d scripts", len(doc.Scripts))
		if err := js.New().Execute(doc); err != nil {
			logger.WarningLogger.Printf("%s: %v", target, err)
		}
	}

	root, err := n.layoutDocument(doc, containing)
	if err != nil {
		return nil, nil, err
	}
	return doc, root, nil
}

func (n *Navigator) layoutDocument(doc *html.Document, containing layout.Dimensions) (layout.RenderBox, error) {
	sheets := n.loadStylesheets(doc)

	rootElement := doc.RootElement()
	if rootElement == nil {
		return nil, ErrNoRootElement
	}
	logger.ProgressLogger.Printf("styling with %d stylesheets", len(sheets))
	styled := style.StyleTree(rootElement, sheets...)

	var fonts layout.FontCache
	if n.fonts != nil {
		fonts = n.fonts
	}
	engine := layout.NewLayoutEngine(fonts)
	engine.SetImageLoader(n.images)
	logger.ProgressLogger.Printf("layout at width %v", containing.Content.Width)
	return engine.Layout(styled, doc, containing)
}

// loadStylesheets returns the default stylesheet followed by the document's
// <style> sheets and its linked sheets, and installs the fonts their
// @font-face rules declare. A linked sheet that cannot be loaded is
// skipped with a warning.
func (n *Navigator) loadStylesheets(doc *html.Document) []*css.Stylesheet {
	sheets := []*css.Stylesheet{style.DefaultStylesheet()}

	add := func(source, base string) {
		sheet, err := css.ParseStylesheet(source)
		if err != nil {
			logger.WarningLogger.Printf("stylesheet from %s: %v", base, err)
			return
		}
		sheets = append(sheets, sheet)
		if n.fonts != nil && len(sheet.FontFaces) > 0 {
			n.fonts.ScanForFontFaceRules(sheet, func(src string) ([]byte, error) {
				return FetchFont(n.fetcher, stdnet.ResolveURL(base, src))
			})
		}
	}

	for _, source := range doc.Stylesheets {
		add(source, doc.BaseURL)
	}
	for _, href := range doc.StylesheetLinks {
		sheetURL := stdnet.ResolveURL(doc.BaseURL, href)
		source, err := FetchCSS(n.fetcher, sheetURL)
		if err != nil {
			logger.WarningLogger.Printf("stylesheet %s: %v", sheetURL, err)
			continue
		}
		logger.ProgressLogger.Printf("loaded stylesheet %s", sheetURL)
		add(source, sheetURL)
	}
	return sheets
}

// ResolveLink returns the URL a link with the given href points to from
// doc.
func ResolveLink(doc *html.Document, href string) string {
	if doc == nil || doc.BaseURL == "" {
		return href
	}
	return stdnet.ResolveURL(doc.BaseURL, href)
}

// documentURL turns a path into a file URL and leaves URLs alone.
func documentURL(rawURL string) (string, error) {
	if stdnet.IsNetworkURL(rawURL) || stdnet.IsFileURL(rawURL) {
		return rawURL, nil
	}
	return stdnet.FileURL(rawURL)
}
