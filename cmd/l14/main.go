package main

import (
	"flag"
	"fmt"
	"image"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"minibrowser/pkg/config"
	"minibrowser/pkg/html"
	"minibrowser/pkg/layout"
	"minibrowser/pkg/logger"
	"minibrowser/pkg/resource"
	"minibrowser/pkg/text"
)

func main() {
	configPath := flag.String("config", "", "TOML configuration file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	fonts := text.NewFontCache()
	if err := cfg.InstallFonts(fonts); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading fonts: %v\n", err)
		os.Exit(1)
	}

	start := cfg.StartPage
	if flag.NArg() > 0 {
		start = flag.Arg(0)
	}

	a := app.New()
	b := newBrowser(a.NewWindow("minibrowser"), cfg, fonts)
	if start != "" {
		b.urlEntry.SetText(start)
		b.navigate(start)
	}
	b.win.ShowAndRun()
}

// browser is the state of one window. It is only touched on the fyne
// event goroutine; loads run in the background and hand their result back
// with fyne.Do, where results of superseded navigations are dropped.
type browser struct {
	win      fyne.Window
	cfg      config.Config
	session  *resource.Session
	urlEntry *widget.Entry
	status   *widget.Label
	view     *pageView

	url    string
	doc    *html.Document
	root   layout.RenderBox
	scroll fyne.Position
	width  int // layout width of root
}

func newBrowser(win fyne.Window, cfg config.Config, fonts *text.FontCache) *browser {
	b := &browser{
		win:     win,
		cfg:     cfg,
		session: resource.NewSession(fonts),
		status:  widget.NewLabel("Enter a URL or file path and press Enter"),
	}
	b.session.Navigator().SetScriptsEnabled(cfg.Scripts)

	b.urlEntry = widget.NewEntry()
	b.urlEntry.SetPlaceHolder("https://example.com")
	b.urlEntry.OnSubmitted = b.navigate

	b.view = newPageView(b)
	content := container.NewBorder(b.urlEntry, b.status, nil, nil, b.view)
	win.SetContent(content)
	win.Resize(fyne.NewSize(float32(cfg.Viewport.Width), float32(cfg.Viewport.Height)))
	win.Canvas().SetOnTypedKey(b.typedKey)
	return b
}

// navigate loads url at the current view width and shows it from the top.
func (b *browser) navigate(url string) {
	width := b.viewWidth()
	gen := b.session.Begin()
	b.status.SetText("Loading " + url + "...")
	go func() {
		doc, root, err := b.session.Load(gen, url, width)
		fyne.Do(func() {
			if !b.session.Latest(gen) {
				return
			}
			if err != nil {
				logger.WarningLogger.Printf("navigating to %s: %v", url, err)
				b.status.SetText("Error: " + err.Error())
				b.repaint()
				return
			}
			b.url, b.doc, b.root, b.width = url, doc, root, width
			b.scroll = fyne.Position{}
			b.urlEntry.SetText(url)
			title := url
			if doc.Title != "" {
				title = doc.Title
			}
			b.win.SetTitle("minibrowser - " + title)
			b.status.SetText(url)
			b.repaint()
		})
	}()
}

func (b *browser) viewWidth() int {
	if w := int(b.view.Size().Width); w > 0 {
		return w
	}
	return b.cfg.Viewport.Width
}

// repaint renders the current page at the view's size and scroll offset.
// While a load runs the old image stays; the load repaints when it lands.
func (b *browser) repaint() {
	size := b.view.Size()
	w, h := int(size.Width), int(size.Height)
	if w <= 0 || h <= 0 {
		return
	}
	img, ok := b.session.Paint(b.root, layout.Rect{
		X:      float64(b.scroll.X),
		Y:      float64(b.scroll.Y),
		Width:  float64(w),
		Height: float64(h),
	})
	if ok {
		b.view.setImage(img)
	}
}

// resized lays the page out again when the width changed, and repaints
// otherwise.
func (b *browser) resized() {
	if b.url != "" && b.viewWidth() != b.width {
		b.navigate(b.url)
		return
	}
	b.repaint()
}

func (b *browser) typedKey(ev *fyne.KeyEvent) {
	step := b.cfg.Scroll
	switch ev.Name {
	case fyne.KeyUp:
		b.scroll.Y -= float32(step.Vertical)
	case fyne.KeyDown:
		b.scroll.Y += float32(step.Vertical)
	case fyne.KeyLeft:
		b.scroll.X -= float32(step.Horizontal)
	case fyne.KeyRight:
		b.scroll.X += float32(step.Horizontal)
	default:
		return
	}
	b.scroll.X = max(b.scroll.X, 0)
	b.scroll.Y = max(b.scroll.Y, 0)
	b.repaint()
}

// tapped follows the link under the pointer, if any.
func (b *browser) tapped(pos fyne.Position) {
	if b.root == nil {
		return
	}
	x, y := float64(pos.X+b.scroll.X), float64(pos.Y+b.scroll.Y)
	box := layout.FindBoxContaining(b.root, x, y)
	if box == nil || box.Link == nil {
		return
	}
	target := resource.ResolveLink(b.doc, *box.Link)
	logger.ProgressLogger.Printf("following link %s", target)
	b.navigate(target)
}

// pageView shows the painted viewport. It takes taps for link following
// and keyboard focus for scrolling.
type pageView struct {
	widget.BaseWidget
	browser *browser
	image   *canvas.Image
}

func newPageView(b *browser) *pageView {
	img := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	img.FillMode = canvas.ImageFillOriginal
	img.ScaleMode = canvas.ImageScalePixels
	v := &pageView{browser: b, image: img}
	v.ExtendBaseWidget(v)
	return v
}

func (v *pageView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.image)
}

func (v *pageView) setImage(img image.Image) {
	v.image.Image = img
	v.image.Refresh()
}

func (v *pageView) Resize(size fyne.Size) {
	old := v.Size()
	v.BaseWidget.Resize(size)
	if size != old {
		v.browser.resized()
	}
}

func (v *pageView) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (v *pageView) Tapped(ev *fyne.PointEvent) {
	v.browser.win.Canvas().Focus(v)
	v.browser.tapped(ev.Position)
}

func (v *pageView) FocusGained()               {}
func (v *pageView) FocusLost()                 {}
func (v *pageView) TypedRune(rune)             {}
func (v *pageView) TypedKey(ev *fyne.KeyEvent) { v.browser.typedKey(ev) }
